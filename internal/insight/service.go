// Package insight orchestrates the adapters, the reconciler and the narrative
// gateway behind each HTTP and MCP operation.
package insight

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/demo"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
	"github.com/bobmcallan/earnings-insight/internal/models"
	"github.com/bobmcallan/earnings-insight/internal/reconcile"
)

// Default filing list sizes for the ticker and analyze operations.
const (
	DefaultFilingsLimit        = 4
	DefaultAnalyzeFilingsLimit = 10
)

// DemoLookup returns a bundled fixture for a ticker.
type DemoLookup func(ticker string) (*models.TickerRecord, bool)

// Option configures a Service.
type Option func(*Service)

// WithFilingsLimits sets how many filings the ticker and analyze operations
// request. Zero or less keeps the default.
func WithFilingsLimits(ticker, analyze int) Option {
	return func(s *Service) {
		if ticker > 0 {
			s.filingsLimit = ticker
		}
		if analyze > 0 {
			s.analyzeFilingsLimit = analyze
		}
	}
}

// WithDemoLookup replaces the bundled fixtures. A nil lookup disables demo data.
func WithDemoLookup(fn DemoLookup) Option {
	return func(s *Service) {
		if fn == nil {
			fn = func(string) (*models.TickerRecord, bool) { return nil, false }
		}
		s.demo = fn
	}
}

// Service answers ticker, analyze and summarize requests.
type Service struct {
	market   interfaces.MarketData
	earnings interfaces.EarningsData
	filings  interfaces.FilingLocator
	gateway  interfaces.NarrativeGateway
	logger   *common.Logger
	demo     DemoLookup

	filingsLimit        int
	analyzeFilingsLimit int
}

// NewService creates a Service. filings may be nil, in which case no filings
// are attached.
func NewService(
	market interfaces.MarketData,
	earnings interfaces.EarningsData,
	filings interfaces.FilingLocator,
	gateway interfaces.NarrativeGateway,
	logger *common.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		market:              market,
		earnings:            earnings,
		filings:             filings,
		gateway:             gateway,
		logger:              logger,
		demo:                demo.Lookup,
		filingsLimit:        DefaultFilingsLimit,
		analyzeFilingsLimit: DefaultAnalyzeFilingsLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func noEarningsMessage(ticker string) string {
	return `No earnings data found for "` + ticker + `". Make sure you're using a stock ticker symbol (e.g., NVDA not Nvidia).`
}

func (s *Service) downgrade(op, ticker, source string) func(error) {
	return func(err error) {
		s.logger.Warn().
			Str("op", op).
			Str("ticker", ticker).
			Str("source", source).
			Err(err).
			Msg("optional source failed, continuing without it")
	}
}

func (s *Service) recentFilings(ctx context.Context, ticker string, limit int) Result[[]models.FilingRecord] {
	if s.filings == nil {
		return Absent[[]models.FilingRecord]()
	}
	return SettleSlice(s.filings.RecentFilings(ctx, ticker, limit))
}

// Ticker returns the reconciled record for ticker. When the market or
// earnings provider is unconfigured, or either returns nothing, the bundled
// fixture is returned flagged as demo data.
func (s *Service) Ticker(ctx context.Context, ticker string) (*models.TickerRecord, error) {
	const op = "insight.ticker"
	ticker = NormalizeTicker(ticker)

	if !s.market.Configured() || !s.earnings.Configured() {
		s.logger.Info().
			Str("ticker", ticker).
			Bool("market_configured", s.market.Configured()).
			Bool("earnings_configured", s.earnings.Configured()).
			Msg("provider keys missing, using demo data")
		if rec, ok := s.demo(ticker); ok {
			return rec, nil
		}
		return nil, apperr.Config(op, "API keys not configured and no mock data available")
	}

	var (
		prices  Result[[]models.PricePoint]
		records Result[[]models.EarningsRecord]
		profile Result[*models.CompanyProfile]
		filings Result[[]models.FilingRecord]
		fanout  errgroup.Group
	)
	fanout.Go(func() error {
		prices = SettleSlice(s.market.DailyCloses(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		records = SettleSlice(s.earnings.EarningsSurprises(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		profile = SettlePtr(s.earnings.CompanyProfile(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		filings = s.recentFilings(ctx, ticker, s.filingsLimit)
		return nil
	})
	_ = fanout.Wait()

	s.logger.Info().
		Str("ticker", ticker).
		Str("prices", prices.Status.String()).
		Str("earnings", records.Status.String()).
		Str("profile", profile.Status.String()).
		Str("filings", filings.Status.String()).
		Msg("sources settled")

	series, havePrices, err := Require(prices)
	if err != nil {
		return nil, err
	}
	reported, haveEarnings, err := Require(records)
	if err != nil {
		return nil, err
	}
	company, _ := Optional(profile, s.downgrade(op, ticker, "profile"))
	recent, _ := Optional(filings, s.downgrade(op, ticker, "filings"))

	if !havePrices || !haveEarnings {
		if rec, ok := s.demo(ticker); ok {
			s.logger.Info().Str("ticker", ticker).Msg("insufficient live data, using demo data")
			return rec, nil
		}
		return nil, apperr.Data(op, "%s", noEarningsMessage(ticker))
	}

	name, sector := companyName(ticker, company), "Unknown"
	if company != nil && company.Sector != "" {
		sector = company.Sector
	}

	quarters := reconcile.BuildQuarters(reported, series, recent)
	return &models.TickerRecord{
		Ticker:                   ticker,
		CompanyName:              name,
		Sector:                   sector,
		OverallTransparencyScore: reconcile.OverallTransparency(quarters),
		Prices:                   series,
		Earnings:                 quarters,
		TruthTranslator:          reconcile.PlaceholderNarratives(quarters),
		MasterSummary:            reconcile.BuildMasterSummary(quarters, name),
		YearlySummary:            reconcile.BuildYearlySummary(quarters, name),
		IsDemo:                   false,
		Filings:                  recent,
	}, nil
}

func (s *Service) gatewayReady(op string) error {
	if s.gateway == nil || !s.gateway.Configured() {
		return apperr.WithComponent(apperr.ComponentNarrative,
			apperr.Config(op, "Gemini API key not configured"))
	}
	return nil
}

func companyName(ticker string, profile *models.CompanyProfile) string {
	if profile != nil && profile.Name != "" {
		return profile.Name
	}
	return ticker
}

// Analyze returns the narrative for one quarter. stockReaction is the
// caller-supplied next-day move for that quarter.
func (s *Service) Analyze(ctx context.Context, ticker, quarter string, stockReaction float64) (*models.NarrativeEntry, error) {
	const op = "insight.analyze"
	ticker = NormalizeTicker(ticker)
	quarter = strings.TrimSpace(quarter)

	if err := s.gatewayReady(op); err != nil {
		return nil, err
	}

	var (
		records Result[[]models.EarningsRecord]
		profile Result[*models.CompanyProfile]
		filings Result[[]models.FilingRecord]
		fanout  errgroup.Group
	)
	fanout.Go(func() error {
		records = SettleSlice(s.earnings.EarningsSurprises(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		profile = SettlePtr(s.earnings.CompanyProfile(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		filings = s.recentFilings(ctx, ticker, s.analyzeFilingsLimit)
		return nil
	})
	_ = fanout.Wait()

	reported, ok, err := Require(records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Data(op, "No earnings data found for %s", ticker)
	}
	company, _ := Optional(profile, s.downgrade(op, ticker, "profile"))
	recent, _ := Optional(filings, s.downgrade(op, ticker, "filings"))

	record, found := reconcile.FindQuarter(reported, quarter)
	if !found {
		return nil, apperr.Data(op, "No data for %q. Available: %s",
			quarter, strings.Join(reconcile.QuarterLabels(reported), ", "))
	}

	in := models.QuarterInput{
		Ticker:               ticker,
		CompanyName:          companyName(ticker, company),
		Quarter:              record.Quarter,
		ReportDate:           record.ReportDate,
		EPSEstimate:          record.EPSEstimate,
		EPSActual:            record.EPSActual,
		SurprisePercent:      record.SurprisePercent,
		StockReactionPercent: stockReaction,
	}
	if filing := reconcile.NearestFiling(record.ReportDate, recent); filing != nil {
		in.FilingDescription = filing.Description
		in.FilingURL = filing.DocumentURL
		s.logger.Debug().Str("ticker", ticker).Str("quarter", quarter).Str("filing_date", filing.FilingDate).Msg("matched 8-K filing")
	} else {
		s.logger.Debug().Str("ticker", ticker).Str("quarter", quarter).Int("checked", len(recent)).Msg("no 8-K within window")
	}

	return s.gateway.AnalyzeQuarter(ctx, in)
}

// Summarize returns the aggregate narrative across the reported quarters.
func (s *Service) Summarize(ctx context.Context, ticker string) (*models.AggregateNarrative, error) {
	const op = "insight.summarize"
	ticker = NormalizeTicker(ticker)

	if err := s.gatewayReady(op); err != nil {
		return nil, err
	}

	var (
		records Result[[]models.EarningsRecord]
		profile Result[*models.CompanyProfile]
		prices  Result[[]models.PricePoint]
		fanout  errgroup.Group
	)
	fanout.Go(func() error {
		records = SettleSlice(s.earnings.EarningsSurprises(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		profile = SettlePtr(s.earnings.CompanyProfile(ctx, ticker))
		return nil
	})
	fanout.Go(func() error {
		if !s.market.Configured() {
			prices = Absent[[]models.PricePoint]()
			return nil
		}
		prices = SettleSlice(s.market.DailyCloses(ctx, ticker))
		return nil
	})
	_ = fanout.Wait()

	reported, ok, err := Require(records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Data(op, "No earnings data found for %s", ticker)
	}
	company, _ := Optional(profile, s.downgrade(op, ticker, "profile"))
	series, _ := Optional(prices, s.downgrade(op, ticker, "prices"))

	return s.gateway.Summarize(ctx, models.SummaryInput{
		Ticker:      ticker,
		CompanyName: companyName(ticker, company),
		Quarters:    reconcile.BuildQuarters(reported, series, nil),
	})
}
