// Package models defines the data structures exchanged between the adapters,
// the reconciler, the narrative gateway and the HTTP surface.
package models

// DateLayout is the calendar-date format used for every date field.
// Dates in this layout sort lexicographically in chronological order.
const DateLayout = "2006-01-02"

// PricePoint is one daily close. A series is ascending by Date with unique dates.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// CompanyProfile is the best-effort identity enrichment for a ticker.
type CompanyProfile struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}
