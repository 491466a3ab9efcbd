package models

// Verdict judges one reality point against its script point.
type Verdict string

const (
	VerdictDelivered Verdict = "delivered"
	VerdictPartial   Verdict = "partial"
	VerdictMissed    Verdict = "missed"
)

// Valid reports whether v is one of the three verdict values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictDelivered, VerdictPartial, VerdictMissed:
		return true
	}
	return false
}

// NarrativeEntry is the "script vs. reality" record for one quarter.
// ScriptPoints, RealityPoints and Verdicts always have length 3 and are
// index-aligned.
type NarrativeEntry struct {
	Quarter          string    `json:"quarter"`
	ReportDate       string    `json:"date"`
	ScriptPoints     []string  `json:"script"`
	RealityPoints    []string  `json:"reality"`
	Verdicts         []Verdict `json:"verdicts"`
	NarrativeSummary string    `json:"analystTake"`
	FilingURL        string    `json:"filingUrl,omitempty"`
}

// Contradiction is one broken promise surfaced by the aggregate narrative.
// Verdict is either missed or partial.
type Contradiction struct {
	Quarter string  `json:"quarter"`
	Claim   string  `json:"promise"`
	Outcome string  `json:"reality"`
	Verdict Verdict `json:"verdict"`
}

// AggregateNarrative is the cross-quarter synthesis for one ticker.
type AggregateNarrative struct {
	OverallSummary string          `json:"bigPicture"`
	Contradictions []Contradiction `json:"brokenPromises"`
}
