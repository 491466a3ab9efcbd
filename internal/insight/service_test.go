package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/client"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

func liveService(m *fakeMarket, e *fakeEarnings, f *fakeFilings, g *fakeGateway) *Service {
	return NewService(m, e, f, g, nil)
}

func TestTicker_DemoWhenUnconfigured(t *testing.T) {
	m := &fakeMarket{configured: false}
	e := &fakeEarnings{configured: true}
	s := liveService(m, e, &fakeFilings{}, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), "aapl")
	require.NoError(t, err)
	assert.True(t, rec.IsDemo)
	assert.NotEmpty(t, rec.Prices)
	assert.NotEmpty(t, rec.Earnings)
	assert.Equal(t, 0, m.calls, "no upstream call when unconfigured")
}

func TestTicker_UnconfiguredUnknownTicker(t *testing.T) {
	s := liveService(&fakeMarket{}, &fakeEarnings{}, &fakeFilings{}, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), "ZZZZ")
	assert.Nil(t, rec)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestTicker_Live(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true, records: liveRecords(), profile: &models.CompanyProfile{Ticker: "AAPL", Name: "Apple Inc", Sector: "Technology"}}
	f := &fakeFilings{filings: liveFilings()}
	s := liveService(m, e, f, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.False(t, rec.IsDemo)
	assert.Equal(t, "AAPL", rec.Ticker)
	assert.Equal(t, "Apple Inc", rec.CompanyName)
	assert.Equal(t, DefaultFilingsLimit, f.lastLimit)

	require.Len(t, rec.Earnings, 2)
	q1 := rec.Earnings[0]
	assert.Equal(t, "Q1 2025", q1.Quarter, "quarters sorted by date")
	assert.Equal(t, 10.0, q1.StockReactionPercent)
	assert.Equal(t, 75, q1.TransparencyScore)
	require.NotNil(t, q1.NearestFiling)
	assert.Equal(t, "Q1 results", q1.NearestFiling.Description)

	q2 := rec.Earnings[1]
	assert.Equal(t, 30, q2.TransparencyScore)
	assert.Equal(t, -5.0, q2.StockReactionPercent)

	assert.Len(t, rec.TruthTranslator, 2)
	assert.Equal(t, 53, rec.OverallTransparencyScore)
	assert.Equal(t, 1, rec.MasterSummary.BeatCount)
	assert.NotNil(t, rec.MasterSummary.BrokenPromises)
	assert.Len(t, rec.Filings, 2)
}

func TestTicker_OptionalFailuresDowngrade(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true, records: liveRecords(), profileErr: errors.New("profile down")}
	f := &fakeFilings{err: errors.New("EDGAR 503")}
	s := liveService(m, e, f, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", rec.CompanyName)
	assert.Equal(t, "Unknown", rec.Sector)
	assert.Nil(t, rec.Filings)
	for _, q := range rec.Earnings {
		assert.Nil(t, q.NearestFiling)
	}
}

func TestTicker_EmptyProfileNameFallsBackToTicker(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true, records: liveRecords(), profile: &models.CompanyProfile{Ticker: "MSFT", Sector: "Technology"}}
	s := liveService(m, e, &fakeFilings{}, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), "msft")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", rec.CompanyName)
	assert.Equal(t, "Technology", rec.Sector)
}

func TestTicker_RequiredFailurePropagates(t *testing.T) {
	upstream := &client.APIError{Provider: "Polygon", StatusCode: 500, Message: "boom", Endpoint: "/v2/aggs"}
	m := &fakeMarket{configured: true, err: upstream}
	e := &fakeEarnings{configured: true, records: liveRecords()}
	s := liveService(m, e, &fakeFilings{}, &fakeGateway{})

	rec, err := s.Ticker(context.Background(), "AAPL")
	assert.Nil(t, rec, "live failures never fall back to demo data")
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.ErrorIs(t, err, upstream)
}

func TestTicker_AbsentRequired(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true}

	rec, err := liveService(m, e, &fakeFilings{}, &fakeGateway{}).Ticker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, rec.IsDemo, "absent earnings fall back to the fixture")

	_, err = liveService(m, e, &fakeFilings{}, &fakeGateway{}).Ticker(context.Background(), "Nvidia")
	require.Error(t, err)
	assert.Equal(t, apperr.KindData, apperr.KindOf(err))
	assert.Contains(t, err.Error(), `No earnings data found for "NVIDIA"`)
}

func TestTicker_NilFilingLocator(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true, records: liveRecords()}
	s := NewService(m, e, nil, &fakeGateway{}, nil, WithDemoLookup(nil))

	rec, err := s.Ticker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, rec.Filings)
}

func TestAnalyze(t *testing.T) {
	e := &fakeEarnings{configured: true, records: liveRecords()}
	f := &fakeFilings{filings: liveFilings()}
	g := &fakeGateway{configured: true, entry: &models.NarrativeEntry{Quarter: "Q1 2025"}}
	s := liveService(&fakeMarket{}, e, f, g)

	entry, err := s.Analyze(context.Background(), "aapl", "Q1 2025", -2.1)
	require.NoError(t, err)
	assert.Equal(t, "Q1 2025", entry.Quarter)
	assert.Equal(t, DefaultAnalyzeFilingsLimit, f.lastLimit)

	in := g.lastQuarter
	assert.Equal(t, "AAPL", in.Ticker)
	assert.Equal(t, "AAPL", in.CompanyName, "name falls back to the ticker")
	assert.Equal(t, "2025-01-30", in.ReportDate)
	assert.Equal(t, -2.1, in.StockReactionPercent)
	assert.Equal(t, "Q1 results", in.FilingDescription)
	assert.Equal(t, "https://sec.example/q1.htm", in.FilingURL)
}

func TestAnalyze_GatewayUnconfigured(t *testing.T) {
	e := &fakeEarnings{configured: true, records: liveRecords()}
	s := liveService(&fakeMarket{}, e, &fakeFilings{}, &fakeGateway{configured: false})

	_, err := s.Analyze(context.Background(), "AAPL", "Q1 2025", 0)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestAnalyze_UnknownQuarter(t *testing.T) {
	e := &fakeEarnings{configured: true, records: liveRecords()}
	s := liveService(&fakeMarket{}, e, &fakeFilings{}, &fakeGateway{configured: true})

	_, err := s.Analyze(context.Background(), "AAPL", "Q3 2024", 0)
	require.Error(t, err)
	assert.Equal(t, apperr.KindData, apperr.KindOf(err))
	assert.Contains(t, err.Error(), `No data for "Q3 2024". Available: Q2 2025, Q1 2025`)
}

func TestAnalyze_NoEarnings(t *testing.T) {
	e := &fakeEarnings{configured: true}
	s := liveService(&fakeMarket{}, e, &fakeFilings{}, &fakeGateway{configured: true})

	_, err := s.Analyze(context.Background(), "AAPL", "Q1 2025", 0)
	assert.Equal(t, apperr.KindData, apperr.KindOf(err))
}

func TestAnalyze_FilingsFailureIsNotFatal(t *testing.T) {
	e := &fakeEarnings{configured: true, records: liveRecords()}
	g := &fakeGateway{configured: true, entry: &models.NarrativeEntry{}}
	s := liveService(&fakeMarket{}, e, &fakeFilings{err: errors.New("timeout")}, g)

	_, err := s.Analyze(context.Background(), "AAPL", "Q2 2025", 0)
	require.NoError(t, err)
	assert.Empty(t, g.lastQuarter.FilingDescription)
}

func TestSummarize(t *testing.T) {
	m := &fakeMarket{configured: true, prices: livePrices()}
	e := &fakeEarnings{configured: true, records: liveRecords(), profile: &models.CompanyProfile{Name: "Apple Inc"}}
	g := &fakeGateway{configured: true, summary: &models.AggregateNarrative{OverallSummary: "ok"}}
	s := liveService(m, e, &fakeFilings{}, g)

	out, err := s.Summarize(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.OverallSummary)

	in := g.lastSummary
	assert.Equal(t, "AAPL", in.Ticker)
	assert.Equal(t, "Apple Inc", in.CompanyName)
	require.Len(t, in.Quarters, 2)
	assert.Equal(t, "Q1 2025", in.Quarters[0].Quarter)
	assert.Equal(t, 10.0, in.Quarters[0].StockReactionPercent)
}

func TestSummarize_PricesOptional(t *testing.T) {
	m := &fakeMarket{configured: true, err: errors.New("polygon down")}
	e := &fakeEarnings{configured: true, records: liveRecords()}
	g := &fakeGateway{configured: true, summary: &models.AggregateNarrative{}}
	s := liveService(m, e, &fakeFilings{}, g)

	_, err := s.Summarize(context.Background(), "AAPL")
	require.NoError(t, err)
	for _, q := range g.lastSummary.Quarters {
		assert.Equal(t, 0.0, q.StockReactionPercent)
	}
}

func TestSummarize_GatewayErrorPropagates(t *testing.T) {
	e := &fakeEarnings{configured: true, records: liveRecords()}
	failure := apperr.WithComponent(apperr.ComponentNarrative, apperr.Malformed("narrative.summarize", "bad"))
	g := &fakeGateway{configured: true, err: failure}
	s := liveService(&fakeMarket{}, e, &fakeFilings{}, g)

	_, err := s.Summarize(context.Background(), "AAPL")
	assert.True(t, apperr.FromComponent(err, apperr.ComponentNarrative))
}

func TestResultCombinators(t *testing.T) {
	v, ok, err := Require(SettleSlice([]int{1}, nil))
	assert.Equal(t, []int{1}, v)
	assert.True(t, ok)
	assert.NoError(t, err)

	_, ok, err = Require(SettleSlice([]int{}, nil))
	assert.False(t, ok)
	assert.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = Require(SettlePtr[int](nil, boom))
	assert.ErrorIs(t, err, boom)

	var seen error
	_, ok = Optional(SettlePtr[int](nil, boom), func(err error) { seen = err })
	assert.False(t, ok)
	assert.Equal(t, boom, seen)

	assert.Equal(t, "absent", Absent[int]().Status.String())
}
