package narrative

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

const quarterInstructions = `Return a JSON object with exactly this structure:
{
  "script": [
    "Point 1: What the CEO likely hyped (The Hype), a bold claim or talking point",
    "Point 2: Another piece of management spin or forward-looking promise",
    "Point 3: A third talking point or guidance claim"
  ],
  "reality": [
    "Point 1: What actually happened (The Truth), backed by the numbers",
    "Point 2: Another reality check with data",
    "Point 3: THE RED FLAG, the most concerning thing they tried to downplay or hide"
  ],
  "verdicts": ["delivered" or "partial" or "missed", same for point 2, same for point 3],
  "analystTake": "A 3-4 sentence beginner-friendly paragraph. Use 'Probability, Not Certainty' language (likely, potential, historically). Explain what this quarter means for regular investors. Be honest but not alarmist."
}

IMPORTANT RULES:
- "script" must have exactly 3 points (what management WANTS investors to hear)
- "reality" must have exactly 3 points, with the 3rd being the biggest red flag
- "verdicts" must have exactly 3 values, each being "delivered", "partial", or "missed"
- "verdicts" correspond 1:1 with script/reality points
- Use plain English, no financial jargon without explanation
- Be specific about numbers and percentages when available
- Never promise profit or certainty, use "likely," "potential," "historically"
- The analystTake should feel like a smart friend explaining what happened`

const summaryInstructions = `Return a JSON object with exactly this structure:
{
  "bigPicture": "A 3-5 sentence beginner-friendly overview of how the year went. Use 'Probability, Not Certainty' language (likely, potential, historically).",
  "brokenPromises": [
    {
      "quarter": "The quarter label exactly as given above",
      "promise": "What management most likely promised going into that quarter",
      "reality": "What the numbers show actually happened",
      "verdict": "missed" or "partial"
    }
  ]
}

IMPORTANT RULES:
- "brokenPromises" has at most 3 entries, an empty list is fine when management delivered
- Only use quarter labels that appear in the data above
- "verdict" is either "missed" or "partial"
- Use plain English, no financial jargon without explanation
- Never promise profit or certainty`

// QuarterPrompt renders the per-quarter analysis prompt.
func QuarterPrompt(in models.QuarterInput) string {
	outcome := "MISS"
	if in.Beat() {
		outcome = "BEAT"
	}

	var b strings.Builder
	b.WriteString("You are a friendly financial analyst explaining earnings results to beginners. No jargon, talk like a smart friend would.\n\n")
	fmt.Fprintf(&b, "Analyze this earnings quarter for %s (%s):\n\n", in.CompanyName, in.Ticker)
	fmt.Fprintf(&b, "Quarter: %s\n", in.Quarter)
	fmt.Fprintf(&b, "Earnings Date: %s\n", in.ReportDate)
	fmt.Fprintf(&b, "EPS Estimate: %s\n", common.FormatEPS(in.EPSEstimate))
	fmt.Fprintf(&b, "EPS Actual: %s\n", common.FormatEPS(in.EPSActual))
	fmt.Fprintf(&b, "Surprise: %s (%s)\n", common.FormatSignedPct(in.SurprisePercent), outcome)
	fmt.Fprintf(&b, "Stock Reaction: %s next day", common.FormatSignedPct(in.StockReactionPercent))
	if in.FilingDescription != "" {
		fmt.Fprintf(&b, "\nSEC 8-K Filing context: \"%s\"", in.FilingDescription)
	}
	b.WriteString("\n\n")
	b.WriteString(quarterInstructions)
	return b.String()
}

// SummaryPrompt renders the cross-quarter synthesis prompt.
func SummaryPrompt(in models.SummaryInput) string {
	var b strings.Builder
	b.WriteString("You are a friendly financial analyst explaining a company's earnings track record to beginners. No jargon, talk like a smart friend would.\n\n")
	fmt.Fprintf(&b, "Here are the last %d quarter%s for %s (%s):\n\n",
		len(in.Quarters), common.Plural(len(in.Quarters)), in.CompanyName, in.Ticker)
	for _, q := range in.Quarters {
		outcome := "MISS"
		if q.Beat() {
			outcome = "BEAT"
		}
		fmt.Fprintf(&b, "- %s: EPS Estimate %s, EPS Actual %s, Surprise %s (%s), Stock Reaction %s, Transparency Score %d/100\n",
			q.Quarter,
			common.FormatEPS(q.EPSEstimate),
			common.FormatEPS(q.EPSActual),
			common.FormatSignedPct(q.SurprisePercent),
			outcome,
			common.FormatSignedPct(q.StockReactionPercent),
			q.TransparencyScore,
		)
	}
	b.WriteString("\n")
	b.WriteString(summaryInstructions)
	return b.String()
}
