package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/cache"
	"github.com/bobmcallan/earnings-insight/internal/client"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/config"
	"github.com/bobmcallan/earnings-insight/internal/handlers"
	"github.com/bobmcallan/earnings-insight/internal/insight"
	"github.com/bobmcallan/earnings-insight/internal/mcp"
	"github.com/bobmcallan/earnings-insight/internal/narrative"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Cache   cache.Store
	Gateway *narrative.Gateway
	Service *insight.Service

	// HTTP handlers
	InsightHandler *handlers.InsightHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := cache.New(strings.ToLower(cfg.Cache.Backend), cfg.Cache.TTLDuration(), cfg.Cache.BadgerPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}
	a.Cache = store

	a.initServices()
	a.initHandlers()

	logger.Info().
		Bool("market_configured", client.KeyConfigured(cfg.Providers.Market.APIKey)).
		Bool("earnings_configured", client.KeyConfigured(cfg.Providers.Earnings.APIKey)).
		Bool("llm_configured", a.Gateway.Configured()).
		Str("cache", cfg.Cache.Backend).
		Msg("application initialization complete")

	return a, nil
}

// initServices builds the adapters, the narrative gateway and the service.
func (a *App) initServices() {
	cfg := a.Config

	market := client.NewPolygon(cfg.Providers.Market.APIKey,
		client.WithBaseURL(cfg.Providers.Market.BaseURL),
		client.WithTimeout(cfg.Providers.Market.TimeoutDuration()),
		client.WithRateLimit(cfg.Providers.Market.RateLimit),
		client.WithLogger(a.Logger),
	)
	earnings := client.NewFinnhub(cfg.Providers.Earnings.APIKey,
		client.WithBaseURL(cfg.Providers.Earnings.BaseURL),
		client.WithTimeout(cfg.Providers.Earnings.TimeoutDuration()),
		client.WithRateLimit(cfg.Providers.Earnings.RateLimit),
		client.WithLogger(a.Logger),
	)
	filings := client.NewEdgar(cfg.Providers.Filings.UserAgent,
		client.EdgarURLs{
			Tickers:     cfg.Providers.Filings.TickersURL,
			Submissions: cfg.Providers.Filings.SubmissionsURL,
			Archive:     cfg.Providers.Filings.ArchiveURL,
			Browse:      cfg.Providers.Filings.BrowseURL,
		},
		client.WithTimeout(cfg.Providers.Filings.TimeoutDuration()),
		client.WithRateLimit(cfg.Providers.Filings.RateLimit),
		client.WithLogger(a.Logger),
	)

	// The default model names a Gemini model; Claude picks its own.
	model := cfg.LLM.Model
	if strings.EqualFold(cfg.LLM.Provider, narrative.ProviderClaude) && model == narrative.DefaultGeminiModel {
		model = ""
	}

	provider, err := narrative.NewProvider(narrative.ProviderConfig{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		a.Logger.Warn().
			Str("provider", cfg.LLM.Provider).
			Str("error_type", string(apperr.KindOf(err))).
			Err(err).
			Msg("narrative provider unavailable, analyze and summarize will report a config error")
		provider = nil
	}

	a.Gateway = narrative.NewGateway(provider, a.Cache, a.Logger,
		narrative.WithTimeout(cfg.LLM.TimeoutDuration()),
		narrative.WithCacheTTL(cfg.Cache.TTLDuration()),
	)

	a.Service = insight.NewService(market, earnings, filings, a.Gateway, a.Logger,
		insight.WithFilingsLimits(cfg.Providers.Filings.Limit, cfg.Providers.Filings.AnalyzeLimit),
	)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.InsightHandler = handlers.NewInsightHandler(a.Service, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler()
	a.MCPHandler = mcp.NewHandler(a.Service, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}
