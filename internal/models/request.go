package models

// QuarterInput is everything the narrative gateway needs to explain one
// reported quarter.
type QuarterInput struct {
	Ticker               string
	CompanyName          string
	Quarter              string
	ReportDate           string
	EPSEstimate          float64
	EPSActual            float64
	SurprisePercent      float64
	StockReactionPercent float64
	FilingDescription    string // empty when no filing matched
	FilingURL            string
}

// Beat reports whether actual EPS met or exceeded the estimate.
func (q QuarterInput) Beat() bool {
	return q.EPSActual >= q.EPSEstimate
}

// SummaryInput feeds the cross-quarter synthesis. Quarters are sorted by
// report date ascending.
type SummaryInput struct {
	Ticker      string
	CompanyName string
	Quarters    []ReconciledQuarter
}
