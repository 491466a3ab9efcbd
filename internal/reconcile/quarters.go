package reconcile

import (
	"math"
	"sort"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// BuildQuarters sorts records by report date and derives the reaction, score
// and nearest filing of each quarter. The inputs are not modified.
func BuildQuarters(records []models.EarningsRecord, prices []models.PricePoint, filings []models.FilingRecord) []models.ReconciledQuarter {
	sorted := SortRecords(records)

	quarters := make([]models.ReconciledQuarter, 0, len(sorted))
	for _, r := range sorted {
		quarters = append(quarters, models.ReconciledQuarter{
			Quarter:              r.Quarter,
			ReportDate:           r.ReportDate,
			EPSEstimate:          r.EPSEstimate,
			EPSActual:            r.EPSActual,
			SurprisePercent:      r.SurprisePercent,
			StockReactionPercent: StockReaction(r.ReportDate, prices),
			TransparencyScore:    TransparencyScore(r.SurprisePercent),
			NearestFiling:        NearestFiling(r.ReportDate, filings),
		})
	}
	return quarters
}

// SortRecords returns a copy of records ordered by report date ascending.
func SortRecords(records []models.EarningsRecord) []models.EarningsRecord {
	sorted := make([]models.EarningsRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReportDate < sorted[j].ReportDate
	})
	return sorted
}

// FindQuarter returns the record whose label matches quarter exactly.
func FindQuarter(records []models.EarningsRecord, quarter string) (models.EarningsRecord, bool) {
	for _, r := range records {
		if r.Quarter == quarter {
			return r, true
		}
	}
	return models.EarningsRecord{}, false
}

// QuarterLabels lists the labels of records in their given order.
func QuarterLabels(records []models.EarningsRecord) []string {
	labels := make([]string, len(records))
	for i, r := range records {
		labels[i] = r.Quarter
	}
	return labels
}

// OverallTransparency is the rounded mean score, 50 when there are no quarters.
func OverallTransparency(quarters []models.ReconciledQuarter) int {
	if len(quarters) == 0 {
		return 50
	}
	sum := 0
	for _, q := range quarters {
		sum += q.TransparencyScore
	}
	return int(math.Round(float64(sum) / float64(len(quarters))))
}
