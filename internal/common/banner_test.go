package common

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestPrintBanner(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w
	PrintBanner("1.2.3")
	os.Stdout = stdout
	w.Close()

	out, _ := io.ReadAll(r)
	if !strings.Contains(string(out), "Earnings Insight") {
		t.Errorf("banner missing title: %q", out)
	}
	if !strings.Contains(string(out), "1.2.3") {
		t.Errorf("banner missing version: %q", out)
	}
}
