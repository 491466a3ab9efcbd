package interfaces

import (
	"context"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// MarketData supplies the trailing year of daily closes for a ticker.
// An empty series is reported as (nil, nil).
type MarketData interface {
	Configured() bool
	DailyCloses(ctx context.Context, ticker string) ([]models.PricePoint, error)
}

// EarningsData supplies recent reported quarters and the company profile.
// Empty results are reported as (nil, nil).
type EarningsData interface {
	Configured() bool
	EarningsSurprises(ctx context.Context, ticker string) ([]models.EarningsRecord, error)
	CompanyProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error)
}

// FilingLocator lists an issuer's recent 8-K filings, newest first.
type FilingLocator interface {
	RecentFilings(ctx context.Context, ticker string, limit int) ([]models.FilingRecord, error)
}

// NarrativeGateway turns reconciled figures into script-vs-reality narratives.
type NarrativeGateway interface {
	Configured() bool
	AnalyzeQuarter(ctx context.Context, in models.QuarterInput) (*models.NarrativeEntry, error)
	Summarize(ctx context.Context, in models.SummaryInput) (*models.AggregateNarrative, error)
}
