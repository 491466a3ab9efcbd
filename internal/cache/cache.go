// Package cache implements the process-lifetime response cache consulted by
// the narrative gateway.
package cache

import (
	"fmt"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
)

// DefaultTTL applies when neither the config nor the caller sets one.
const DefaultTTL = time.Hour

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Clock supplies the current time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Option configures a store.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the clock used for expiry.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Store is a Cache that owns resources.
type Store interface {
	interfaces.Cache
	Close() error
}

// New creates the configured backend. badgerPath "" keeps badger in memory.
func New(backend string, ttl time.Duration, badgerPath string, logger *common.Logger, opts ...Option) (Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(ttl, opts...), nil
	case BackendBadger:
		return NewBadgerStore(badgerPath, ttl, logger, opts...)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// AnalysisKey is the cache key of one quarter's narrative.
func AnalysisKey(ticker, quarter string) string {
	return "analysis:" + ticker + ":" + quarter
}

// SummaryKey is the cache key of a ticker's aggregate narrative.
func SummaryKey(ticker string) string {
	return "summary:" + ticker
}
