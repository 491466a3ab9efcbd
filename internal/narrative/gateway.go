package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/cache"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

// DefaultTimeout bounds one model call.
const DefaultTimeout = 60 * time.Second

// State is the lifecycle position of one synthesis key.
type State string

const (
	StateIdle          State = "idle"
	StateRequested     State = "requested"
	StateAwaitingModel State = "awaiting-model"
	StateFulfilled     State = "fulfilled"
	StateFailed        State = "failed"
)

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTimeout bounds each model call. Zero or less keeps the default.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithCacheTTL sets the TTL stored with each cached narrative. Zero or less
// defers to the cache's default.
func WithCacheTTL(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.ttl = d
	}
}

// Gateway issues one model call per uncached key and validates the answer.
// Concurrent requests for the same key are not coalesced; the cache is
// last-write-wins.
type Gateway struct {
	provider Provider
	cache    interfaces.Cache
	logger   *common.Logger
	timeout  time.Duration
	ttl      time.Duration

	mu     sync.Mutex
	states map[string]State
}

// NewGateway creates a gateway. A nil provider means the model credential is
// absent and every call fails with a config error. A nil cache disables
// caching.
func NewGateway(provider Provider, c interfaces.Cache, logger *common.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	g := &Gateway{
		provider: provider,
		cache:    c,
		logger:   logger,
		timeout:  DefaultTimeout,
		states:   make(map[string]State),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configured reports whether a model provider is available.
func (g *Gateway) Configured() bool { return g.provider != nil }

// State returns the last state observed for key; idle when never requested.
func (g *Gateway) State(key string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.states[key]; ok {
		return s
	}
	return StateIdle
}

func (g *Gateway) transition(key string, s State) {
	g.mu.Lock()
	g.states[key] = s
	g.mu.Unlock()
	g.logger.Debug().Str("key", key).Str("state", string(s)).Msg("narrative state")
}

func notConfigured(op string) error {
	return apperr.WithComponent(apperr.ComponentNarrative,
		apperr.Config(op, "Gemini API key not configured"))
}

// AnalyzeQuarter returns the narrative for one quarter, from cache when present.
func (g *Gateway) AnalyzeQuarter(ctx context.Context, in models.QuarterInput) (*models.NarrativeEntry, error) {
	const op = "narrative.analyze"
	key := cache.AnalysisKey(in.Ticker, in.Quarter)

	if !g.Configured() {
		return nil, notConfigured(op)
	}

	var cached models.NarrativeEntry
	if g.lookup(key, &cached) {
		return &cached, nil
	}

	text, err := g.call(ctx, key, op, QuarterPrompt(in))
	if err != nil {
		return nil, err
	}

	payload, verdicts, err := parseQuarter(text)
	if err != nil {
		g.transition(key, StateFailed)
		g.logger.Warn().Str("key", key).Str("response", preview(text)).Err(err).Msg("model returned malformed analysis")
		return nil, apperr.WithComponent(apperr.ComponentNarrative,
			apperr.Malformed(op, "Gemini returned malformed analysis structure: %v", err))
	}

	entry := &models.NarrativeEntry{
		Quarter:          in.Quarter,
		ReportDate:       in.ReportDate,
		ScriptPoints:     payload.Script,
		RealityPoints:    payload.Reality,
		Verdicts:         verdicts,
		NarrativeSummary: *payload.AnalystTake,
		FilingURL:        in.FilingURL,
	}
	g.store(key, entry)
	g.transition(key, StateFulfilled)
	return entry, nil
}

// Summarize returns the aggregate narrative for a ticker, from cache when present.
func (g *Gateway) Summarize(ctx context.Context, in models.SummaryInput) (*models.AggregateNarrative, error) {
	const op = "narrative.summarize"
	key := cache.SummaryKey(in.Ticker)

	if !g.Configured() {
		return nil, notConfigured(op)
	}

	var cached models.AggregateNarrative
	if g.lookup(key, &cached) {
		return &cached, nil
	}

	text, err := g.call(ctx, key, op, SummaryPrompt(in))
	if err != nil {
		return nil, err
	}

	summary, err := parseAggregate(text)
	if err != nil {
		g.transition(key, StateFailed)
		g.logger.Warn().Str("key", key).Str("response", preview(text)).Err(err).Msg("model returned malformed summary")
		return nil, apperr.WithComponent(apperr.ComponentNarrative,
			apperr.Malformed(op, "Gemini returned malformed summary structure: %v", err))
	}

	g.store(key, summary)
	g.transition(key, StateFulfilled)
	return summary, nil
}

// call moves key through requested and awaiting-model and issues the single
// bounded model request.
func (g *Gateway) call(ctx context.Context, key, op, prompt string) (string, error) {
	g.transition(key, StateRequested)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.transition(key, StateAwaitingModel)
	start := time.Now()
	text, err := g.provider.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		g.transition(key, StateFailed)
		g.logger.Error().
			Str("key", key).
			Str("provider", g.provider.Name()).
			Str("model", g.provider.Model()).
			Dur("duration", elapsed).
			Err(err).
			Msg("model call failed")
		if errors.Is(err, ErrTruncatedCompletion) {
			return "", apperr.WithComponent(apperr.ComponentNarrative,
				apperr.Malformed(op, "%s response was truncated", g.provider.Name()))
		}
		return "", apperr.WithComponent(apperr.ComponentNarrative,
			apperr.Transport(op, fmt.Errorf("%s request failed: %w", g.provider.Name(), err)))
	}

	g.logger.Info().
		Str("key", key).
		Str("provider", g.provider.Name()).
		Str("model", g.provider.Model()).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(text)).
		Dur("duration", elapsed).
		Msg("model call complete")
	return text, nil
}

func (g *Gateway) lookup(key string, v any) bool {
	if g.cache == nil {
		return false
	}
	data, ok := g.cache.Get(key)
	if !ok {
		g.logger.Debug().Str("key", key).Msg("cache MISS")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		g.logger.Warn().Str("key", key).Err(err).Msg("discarding undecodable cache entry")
		return false
	}
	g.logger.Debug().Str("key", key).Msg("cache HIT")
	g.transition(key, StateFulfilled)
	return true
}

func (g *Gateway) store(key string, v any) {
	if g.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		g.logger.Warn().Str("key", key).Err(err).Msg("failed to encode narrative for cache")
		return
	}
	if err := g.cache.Set(key, data, g.ttl); err != nil {
		g.logger.Warn().Str("key", key).Err(err).Msg("failed to cache narrative")
	}
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
