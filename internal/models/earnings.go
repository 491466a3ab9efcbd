package models

// EarningsRecord is one reported quarter as supplied by the earnings provider.
// SurprisePercent is authoritative and is never recomputed from the EPS fields.
type EarningsRecord struct {
	Quarter         string  `json:"quarter"` // e.g. "Q1 2025"
	ReportDate      string  `json:"date"`
	EPSEstimate     float64 `json:"epsEstimate"`
	EPSActual       float64 `json:"epsActual"`
	SurprisePercent float64 `json:"surprisePercent"`
}

// Beat reports whether actual EPS met or exceeded the estimate.
func (e EarningsRecord) Beat() bool {
	return e.EPSActual >= e.EPSEstimate
}

// FilingRecord is filing metadata from the regulatory filings index.
type FilingRecord struct {
	FilingDate  string `json:"date"`
	Form        string `json:"form"`
	Description string `json:"description"`
	DocumentURL string `json:"url"`
	AccessionID string `json:"accessionNumber"`
}

// ReconciledQuarter merges one EarningsRecord with the price series and the
// filings list. Built fresh for every request.
type ReconciledQuarter struct {
	Quarter              string        `json:"quarter"`
	ReportDate           string        `json:"date"`
	EPSEstimate          float64       `json:"epsEstimate"`
	EPSActual            float64       `json:"epsActual"`
	SurprisePercent      float64       `json:"surprisePercent"`
	RevenueEstimate      float64       `json:"revenueEstimate"` // billions, zero when the provider has none
	RevenueActual        float64       `json:"revenueActual"`
	StockReactionPercent float64       `json:"stockReaction"`
	TransparencyScore    int           `json:"transparencyScore"`
	NearestFiling        *FilingRecord `json:"nearestFiling,omitempty"`
}

// Beat reports whether actual EPS met or exceeded the estimate.
func (q ReconciledQuarter) Beat() bool {
	return q.EPSActual >= q.EPSEstimate
}
