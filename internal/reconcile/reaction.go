// Package reconcile turns the price series, earnings records and filings of one
// ticker into a consistent per-quarter dataset and its derived metrics.
package reconcile

import (
	"math"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// StockReaction returns the percentage move around an earnings report.
//
// idx is the first point dated on or after target. The reaction compares the
// close before idx with the close after idx. It is 0 when idx is the first or
// last point or when no point is dated on or after target.
func StockReaction(target string, prices []models.PricePoint) float64 {
	idx := -1
	for i, p := range prices {
		if p.Date >= target {
			idx = i
			break
		}
	}
	if idx <= 0 || idx >= len(prices)-1 {
		return 0
	}

	before := prices[idx-1].Close
	after := prices[min(idx+1, len(prices)-1)].Close
	if before == 0 {
		return 0
	}

	pct := math.Round((after-before)/before*10000) / 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// TransparencyScore maps a surprise percentage onto a five-bucket heuristic
// label. It is a fixed step function, not a calibrated model.
func TransparencyScore(surprisePercent float64) int {
	switch {
	case surprisePercent >= 5:
		return 85
	case surprisePercent >= 2:
		return 75
	case surprisePercent >= 0:
		return 65
	case surprisePercent >= -2:
		return 45
	default:
		return 30
	}
}
