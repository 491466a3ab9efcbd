package insight

import (
	"context"
	"sync"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

type fakeMarket struct {
	configured bool
	prices     []models.PricePoint
	err        error
	calls      int
	mu         sync.Mutex
}

func (f *fakeMarket) Configured() bool { return f.configured }

func (f *fakeMarket) DailyCloses(_ context.Context, _ string) ([]models.PricePoint, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.prices, f.err
}

type fakeEarnings struct {
	configured bool
	records    []models.EarningsRecord
	err        error
	profile    *models.CompanyProfile
	profileErr error
}

func (f *fakeEarnings) Configured() bool { return f.configured }

func (f *fakeEarnings) EarningsSurprises(_ context.Context, _ string) ([]models.EarningsRecord, error) {
	return f.records, f.err
}

func (f *fakeEarnings) CompanyProfile(_ context.Context, _ string) (*models.CompanyProfile, error) {
	return f.profile, f.profileErr
}

type fakeFilings struct {
	filings   []models.FilingRecord
	err       error
	lastLimit int
}

func (f *fakeFilings) RecentFilings(_ context.Context, _ string, limit int) ([]models.FilingRecord, error) {
	f.lastLimit = limit
	return f.filings, f.err
}

type fakeGateway struct {
	configured  bool
	entry       *models.NarrativeEntry
	summary     *models.AggregateNarrative
	err         error
	lastQuarter models.QuarterInput
	lastSummary models.SummaryInput
}

func (f *fakeGateway) Configured() bool { return f.configured }

func (f *fakeGateway) AnalyzeQuarter(_ context.Context, in models.QuarterInput) (*models.NarrativeEntry, error) {
	f.lastQuarter = in
	return f.entry, f.err
}

func (f *fakeGateway) Summarize(_ context.Context, in models.SummaryInput) (*models.AggregateNarrative, error) {
	f.lastSummary = in
	return f.summary, f.err
}

func livePrices() []models.PricePoint {
	return []models.PricePoint{
		{Date: "2025-01-29", Close: 100},
		{Date: "2025-01-30", Close: 101},
		{Date: "2025-01-31", Close: 110},
		{Date: "2025-04-30", Close: 120},
		{Date: "2025-05-01", Close: 118},
		{Date: "2025-05-02", Close: 114},
	}
}

func liveRecords() []models.EarningsRecord {
	return []models.EarningsRecord{
		{Quarter: "Q2 2025", ReportDate: "2025-05-01", EPSEstimate: 1.61, EPSActual: 1.5, SurprisePercent: -6.8},
		{Quarter: "Q1 2025", ReportDate: "2025-01-30", EPSEstimate: 2.35, EPSActual: 2.4, SurprisePercent: 2.1},
	}
}

func liveFilings() []models.FilingRecord {
	return []models.FilingRecord{
		{FilingDate: "2025-05-01", Form: "8-K", Description: "Q2 results", DocumentURL: "https://sec.example/q2.htm"},
		{FilingDate: "2025-01-31", Form: "8-K", Description: "Q1 results", DocumentURL: "https://sec.example/q1.htm"},
	}
}
