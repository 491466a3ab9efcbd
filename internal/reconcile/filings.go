package reconcile

import (
	"time"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// FilingWindow bounds how far a filing may sit from a report date.
const FilingWindow = 7 * 24 * time.Hour

// NearestFiling returns the filing closest to target within FilingWindow.
// Equal distances keep the earlier candidate in input order. Candidates with
// unparseable dates are skipped. Returns nil when nothing is in the window.
func NearestFiling(target string, filings []models.FilingRecord) *models.FilingRecord {
	t, err := time.Parse(models.DateLayout, target)
	if err != nil {
		return nil
	}

	var nearest *models.FilingRecord
	best := time.Duration(-1)
	for i := range filings {
		ft, err := time.Parse(models.DateLayout, filings[i].FilingDate)
		if err != nil {
			continue
		}
		dist := ft.Sub(t)
		if dist < 0 {
			dist = -dist
		}
		if dist > FilingWindow {
			continue
		}
		if best < 0 || dist < best {
			f := filings[i]
			nearest = &f
			best = dist
		}
	}
	return nearest
}
