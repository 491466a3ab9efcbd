package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
)

// Error types reported by the narrative endpoints.
const (
	ErrorTypeConfig  = "config"
	ErrorTypeData    = "data"
	ErrorTypeGemini  = "gemini"
	ErrorTypeUnknown = "unknown"
)

// TickerHint points operators at the provider credentials.
const TickerHint = "Check your FINNHUB_API_KEY and POLYGON_API_KEY in .env.local."

// InsightHandler serves the ticker, analyze and summarize endpoints.
type InsightHandler struct {
	service interfaces.InsightService
	logger  *common.Logger
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(service interfaces.InsightService, logger *common.Logger) *InsightHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &InsightHandler{service: service, logger: logger}
}

// HandleTicker handles GET /ticker/{ticker}.
func (h *InsightHandler) HandleTicker(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))

	start := time.Now()
	rec, err := h.service.Ticker(r.Context(), ticker)
	if err != nil {
		status, body := tickerError(err)
		h.logger.Warn().Str("ticker", ticker).Int("status", status).Err(err).Msg("ticker request failed")
		WriteJSON(w, status, body)
		return
	}

	h.logger.Info().
		Str("ticker", ticker).
		Bool("demo", rec.IsDemo).
		Int("quarters", len(rec.Earnings)).
		Int("prices", len(rec.Prices)).
		Dur("duration", time.Since(start)).
		Msg("ticker served")
	WriteJSON(w, http.StatusOK, rec)
}

// HandleAnalyze handles GET /analyze/{ticker}/{quarter}?stockReaction=n.
func (h *InsightHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))
	quarter := strings.TrimSpace(r.PathValue("quarter"))
	reaction := ParseStockReaction(r.URL.Query().Get("stockReaction"))

	entry, err := h.service.Analyze(r.Context(), ticker, quarter, reaction)
	if err != nil {
		status, body := narrativeError(err)
		h.logger.Warn().Str("ticker", ticker).Str("quarter", quarter).Int("status", status).Str("error_type", body.ErrorType).Err(err).Msg("analyze request failed")
		WriteJSON(w, status, body)
		return
	}

	h.logger.Info().Str("ticker", ticker).Str("quarter", quarter).Msg("analysis served")
	WriteJSON(w, http.StatusOK, entry)
}

// HandleSummarize handles GET /summarize/{ticker}.
func (h *InsightHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))

	summary, err := h.service.Summarize(r.Context(), ticker)
	if err != nil {
		status, body := narrativeError(err)
		h.logger.Warn().Str("ticker", ticker).Int("status", status).Str("error_type", body.ErrorType).Err(err).Msg("summarize request failed")
		WriteJSON(w, status, body)
		return
	}

	h.logger.Info().Str("ticker", ticker).Int("broken_promises", len(summary.Contradictions)).Msg("summary served")
	WriteJSON(w, http.StatusOK, summary)
}

// ParseStockReaction reads the stockReaction query value. Anything that is
// not a finite number is treated as 0.
func ParseStockReaction(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func tickerError(err error) (int, ErrorResponse) {
	msg := apperr.UserMessage(err)
	switch apperr.KindOf(err) {
	case apperr.KindConfig:
		return http.StatusServiceUnavailable, ErrorResponse{Error: msg, IsDemo: true}
	case apperr.KindData:
		return http.StatusNotFound, ErrorResponse{Error: msg}
	default:
		return http.StatusBadGateway, ErrorResponse{Error: "API error: " + msg, Hint: TickerHint}
	}
}

// NarrativeStatus maps an analyze or summarize failure to its status code and
// error type.
func NarrativeStatus(err error) (int, string) {
	switch {
	case apperr.Is(err, apperr.KindConfig):
		return http.StatusServiceUnavailable, ErrorTypeConfig
	case apperr.Is(err, apperr.KindData):
		return http.StatusNotFound, ErrorTypeData
	case apperr.FromComponent(err, apperr.ComponentNarrative):
		return http.StatusInternalServerError, ErrorTypeGemini
	default:
		return http.StatusInternalServerError, ErrorTypeUnknown
	}
}

func narrativeError(err error) (int, ErrorResponse) {
	status, errorType := NarrativeStatus(err)
	return status, ErrorResponse{Error: apperr.UserMessage(err), ErrorType: errorType}
}
