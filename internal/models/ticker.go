package models

// Trend is a coarse direction label.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Guidance accuracy labels derived from the average surprise.
const (
	GuidanceConservative = "Conservative"
	GuidanceAccurate     = "Accurate"
	GuidanceOptimistic   = "Optimistic"
)

// MasterSummary is the pre-LLM aggregate stub returned with a ticker record.
type MasterSummary struct {
	BigPicture                 string          `json:"bigPicture"`
	TransparencyTrend          string          `json:"transparencyTrend"`
	TransparencyTrendDirection Trend           `json:"transparencyTrendDirection"`
	BrokenPromises             []Contradiction `json:"brokenPromises"`
	BeatCount                  int             `json:"beatCount"`
	MissCount                  int             `json:"missCount"`
	AvgSurprise                float64         `json:"avgSurprise"`
	RevenueTrend               Trend           `json:"revenueTrend"`
	GuidanceAccuracy           string          `json:"guidanceAccuracy"`
}

// YearlySummary is the compact twelve-month rollup.
type YearlySummary struct {
	BeatCount        int     `json:"beatCount"`
	MissCount        int     `json:"missCount"`
	AvgSurprise      float64 `json:"avgSurprise"`
	RevenueTrend     Trend   `json:"revenueTrend"`
	GuidanceAccuracy string  `json:"guidanceAccuracy"`
	OverallSentiment string  `json:"overallSentiment"`
}

// TickerRecord is the full reconciled payload for GET /ticker/{ticker}.
type TickerRecord struct {
	Ticker                   string              `json:"ticker"`
	CompanyName              string              `json:"companyName"`
	Sector                   string              `json:"sector"`
	OverallTransparencyScore int                 `json:"overallTransparencyScore"`
	Prices                   []PricePoint        `json:"prices"`
	Earnings                 []ReconciledQuarter `json:"earnings"`
	TruthTranslator          []NarrativeEntry    `json:"truthTranslator"`
	MasterSummary            MasterSummary       `json:"masterSummary"`
	YearlySummary            YearlySummary       `json:"yearlySummary"`
	IsDemo                   bool                `json:"isDemo"`
	Filings                  []FilingRecord      `json:"filings,omitempty"`
}
