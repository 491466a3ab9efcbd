package reconcile

import (
	"fmt"
	"math"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

// bigMoveThreshold is the absolute next-day move, in percent, read as significant.
const bigMoveThreshold = 3

// PlaceholderNarratives builds the pre-LLM entry for each quarter from the
// numbers alone. The model-backed entry replaces it on request.
func PlaceholderNarratives(quarters []models.ReconciledQuarter) []models.NarrativeEntry {
	entries := make([]models.NarrativeEntry, 0, len(quarters))
	for _, q := range quarters {
		entries = append(entries, placeholderEntry(q))
	}
	return entries
}

func placeholderEntry(q models.ReconciledQuarter) models.NarrativeEntry {
	beat := q.Beat()
	bigMove := math.Abs(q.StockReactionPercent) > bigMoveThreshold

	direction := "down"
	if q.StockReactionPercent > 0 {
		direction = "up"
	}

	script := []string{
		fmt.Sprintf("Management discussed %s results during the earnings call.", q.Quarter),
		"The company acknowledged headwinds while emphasizing long-term strategy.",
		"Forward guidance was provided for the upcoming quarter.",
	}
	if beat {
		script[1] = "The company highlighted areas of strength and positive momentum."
	}

	var epsLine string
	if beat {
		epsLine = fmt.Sprintf("EPS came in at %s, beating the %s estimate by %s.",
			common.FormatEPS(q.EPSActual), common.FormatEPS(q.EPSEstimate), fmt.Sprintf("%.1f%%", q.SurprisePercent))
	} else {
		epsLine = fmt.Sprintf("EPS came in at %s, missing the %s estimate by %s.",
			common.FormatEPS(q.EPSActual), common.FormatEPS(q.EPSEstimate), common.FormatAbsPct(q.SurprisePercent))
	}
	reactionKind := "a muted reaction"
	if bigMove {
		reactionKind = "a significant reaction"
	}
	reality := []string{
		epsLine,
		fmt.Sprintf("The stock moved %s %s the next day, %s.", direction, common.FormatAbsPct(q.StockReactionPercent), reactionKind),
		"Transcript analysis is available on request for this quarter.",
	}

	second := models.VerdictPartial
	switch {
	case bigMove && !beat:
		second = models.VerdictMissed
	case beat:
		second = models.VerdictDelivered
	}
	first := models.VerdictMissed
	if beat {
		first = models.VerdictDelivered
	}

	var take string
	if beat {
		after := "reacted positively"
		if q.StockReactionPercent < 0 {
			after = "still dipped afterward, which could mean the beat was already priced in or guidance disappointed"
		}
		take = fmt.Sprintf("%s was a solid quarter. The company beat the EPS estimate by %.1f%%, which suggests management set the bar conservatively. The stock %s. A model-backed read of the call can show how management's words lined up with these numbers.",
			q.Quarter, q.SurprisePercent, after)
	} else {
		after := "held relatively steady"
		if q.StockReactionPercent < 0 {
			after = "dropped " + common.FormatAbsPct(q.StockReactionPercent)
		}
		take = fmt.Sprintf("%s was a rough one. The company missed EPS estimates by %s, and the stock %s in response. When a company misses, the key question is whether management saw it coming. A model-backed read of the call can show whether the tone hinted at trouble.",
			q.Quarter, common.FormatAbsPct(q.SurprisePercent), after)
	}

	entry := models.NarrativeEntry{
		Quarter:          q.Quarter,
		ReportDate:       q.ReportDate,
		ScriptPoints:     script,
		RealityPoints:    reality,
		Verdicts:         []models.Verdict{first, second, models.VerdictPartial},
		NarrativeSummary: take,
	}
	if q.NearestFiling != nil {
		entry.FilingURL = q.NearestFiling.DocumentURL
	}
	return entry
}

// Stats holds the beat/miss rollup shared by the master and yearly summaries.
type Stats struct {
	BeatCount        int
	MissCount        int
	AvgSurprise      float64 // unrounded
	EPSTrend         models.Trend
	GuidanceAccuracy string
}

// ComputeStats derives the rollup from quarters ordered by report date.
func ComputeStats(quarters []models.ReconciledQuarter) Stats {
	var s Stats
	var sum float64
	for _, q := range quarters {
		if q.Beat() {
			s.BeatCount++
		}
		sum += q.SurprisePercent
	}
	s.MissCount = len(quarters) - s.BeatCount
	if len(quarters) > 0 {
		s.AvgSurprise = sum / float64(len(quarters))
	}

	s.EPSTrend = models.TrendFlat
	if len(quarters) >= 2 {
		first, last := quarters[0].EPSActual, quarters[len(quarters)-1].EPSActual
		switch {
		case last > first:
			s.EPSTrend = models.TrendUp
		case last < first:
			s.EPSTrend = models.TrendDown
		}
	}

	switch {
	case s.AvgSurprise > 2:
		s.GuidanceAccuracy = models.GuidanceConservative
	case s.AvgSurprise >= -1:
		s.GuidanceAccuracy = models.GuidanceAccurate
	default:
		s.GuidanceAccuracy = models.GuidanceOptimistic
	}
	return s
}

// TransparencyTrend compares the mean score of the later half of quarters with
// the earlier half. A shift of more than five points is a trend.
func TransparencyTrend(quarters []models.ReconciledQuarter) (string, models.Trend) {
	if len(quarters) < 2 {
		return "Holding Steady", models.TrendFlat
	}
	split := (len(quarters) + 1) / 2
	first := meanScore(quarters[:split])
	second := meanScore(quarters[split:])

	switch {
	case second > first+5:
		return "Improving Transparency", models.TrendUp
	case second < first-5:
		return "Growing Evasiveness", models.TrendDown
	default:
		return "Holding Steady", models.TrendFlat
	}
}

func meanScore(quarters []models.ReconciledQuarter) float64 {
	sum := 0
	for _, q := range quarters {
		sum += q.TransparencyScore
	}
	return float64(sum) / float64(len(quarters))
}

// BuildMasterSummary assembles the aggregate stub returned before any model
// call. Its contradictions list is always empty.
func BuildMasterSummary(quarters []models.ReconciledQuarter, companyName string) models.MasterSummary {
	stats := ComputeStats(quarters)
	trend, direction := TransparencyTrend(quarters)

	signed := fmt.Sprintf("%.1f%%", stats.AvgSurprise)
	if stats.AvgSurprise >= 0 {
		signed = "+" + signed
	}
	reading := "The mix of beats and misses suggests investors should pay close attention to management commentary for signs of evolving guidance accuracy."
	if stats.BeatCount > stats.MissCount {
		reading = "This suggests the company tends to set conservative expectations, which is generally a positive signal for transparency."
	}

	return models.MasterSummary{
		BigPicture: fmt.Sprintf("Over the last %d quarters, %s beat earnings estimates %d time%s and missed %d time%s. The average surprise was %s. %s",
			len(quarters), companyName,
			stats.BeatCount, common.Plural(stats.BeatCount),
			stats.MissCount, common.Plural(stats.MissCount),
			signed, reading),
		TransparencyTrend:          trend,
		TransparencyTrendDirection: direction,
		BrokenPromises:             []models.Contradiction{},
		BeatCount:                  stats.BeatCount,
		MissCount:                  stats.MissCount,
		AvgSurprise:                common.Round2(stats.AvgSurprise),
		RevenueTrend:               stats.EPSTrend,
		GuidanceAccuracy:           stats.GuidanceAccuracy,
	}
}

// BuildYearlySummary assembles the compact twelve-month rollup.
func BuildYearlySummary(quarters []models.ReconciledQuarter, companyName string) models.YearlySummary {
	stats := ComputeStats(quarters)
	return models.YearlySummary{
		BeatCount:        stats.BeatCount,
		MissCount:        stats.MissCount,
		AvgSurprise:      common.Round2(stats.AvgSurprise),
		RevenueTrend:     stats.EPSTrend,
		GuidanceAccuracy: stats.GuidanceAccuracy,
		OverallSentiment: fmt.Sprintf("%s reported %d quarter%s of earnings data.", companyName, len(quarters), common.Plural(len(quarters))),
	}
}
