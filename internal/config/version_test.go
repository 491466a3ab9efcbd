package config

import "testing"

func TestCurrent_Defaults(t *testing.T) {
	info := Current()
	if info.Version != "dev" {
		t.Errorf("expected default version dev, got %s", info.Version)
	}
	if info.Build != "unknown" || info.GitCommit != "unknown" {
		t.Errorf("expected unknown build metadata, got %+v", info)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.2.0", Build: "2025-11-02", GitCommit: "a1b2c3d"}
	expected := "1.2.0 (build: 2025-11-02, commit: a1b2c3d)"
	if info.String() != expected {
		t.Errorf("expected %q, got %q", expected, info.String())
	}
}

func TestCurrent_ReflectsLdflags(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "0.9.1"
	if got := Current().Version; got != "0.9.1" {
		t.Errorf("expected injected version 0.9.1, got %s", got)
	}
}
