package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner.
func PrintBanner(version string) {
	b := banner.New().SetStyle(banner.StyleDouble).SetBorderColor(banner.ColorCyan)
	b.PrintTopLine()
	b.PrintCenteredText("Earnings Insight")
	b.PrintKeyValue("Version", version, 10)
	b.PrintBottomLine()
}
