package interfaces

import (
	"context"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// InsightService is the operation surface shared by the HTTP handlers and
// the MCP tools.
type InsightService interface {
	Ticker(ctx context.Context, ticker string) (*models.TickerRecord, error)
	Analyze(ctx context.Context, ticker, quarter string, stockReaction float64) (*models.NarrativeEntry, error)
	Summarize(ctx context.Context, ticker string) (*models.AggregateNarrative, error)
}
