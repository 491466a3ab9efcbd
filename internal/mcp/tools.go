package mcp

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	ToolGetTicker       = "get_ticker"
	ToolAnalyzeQuarter  = "analyze_quarter"
	ToolSummarizeTicker = "summarize_ticker"
	ToolGetVersion      = "get_version"
)

// RegisterTools adds the dashboard tools to s and returns their names.
func RegisterTools(s *server.MCPServer, service interfaces.InsightService, logger *common.Logger) []string {
	s.AddTool(TickerTool(), TickerToolHandler(service, logger))
	s.AddTool(AnalyzeTool(), AnalyzeToolHandler(service, logger))
	s.AddTool(SummarizeTool(), SummarizeToolHandler(service, logger))
	s.AddTool(VersionTool(), VersionToolHandler())
	return []string{ToolGetTicker, ToolAnalyzeQuarter, ToolSummarizeTicker, ToolGetVersion}
}

// TickerTool returns the mcp.Tool definition for get_ticker.
func TickerTool() mcp.Tool {
	return mcp.NewTool(ToolGetTicker,
		mcp.WithDescription("Get daily closes, reconciled earnings quarters, transparency scores and recent 8-K filings for a stock ticker. Falls back to demo data when provider keys are missing."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Stock ticker symbol, e.g. NVDA")),
	)
}

// AnalyzeTool returns the mcp.Tool definition for analyze_quarter.
func AnalyzeTool() mcp.Tool {
	return mcp.NewTool(ToolAnalyzeQuarter,
		mcp.WithDescription("Generate the script-vs-reality narrative for one earnings quarter."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Stock ticker symbol")),
		mcp.WithString("quarter", mcp.Required(), mcp.Description("Quarter label as returned by get_ticker, e.g. \"Q1 2025\"")),
		mcp.WithNumber("stock_reaction", mcp.Description("Next-day stock move in percent (default 0)")),
	)
}

// SummarizeTool returns the mcp.Tool definition for summarize_ticker.
func SummarizeTool() mcp.Tool {
	return mcp.NewTool(ToolSummarizeTicker,
		mcp.WithDescription("Generate the multi-quarter big picture and broken promises for a stock ticker."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Stock ticker symbol")),
	)
}

func tickerArg(r mcp.CallToolRequest) string {
	return strings.ToUpper(strings.TrimSpace(r.GetString("ticker", "")))
}

// TickerToolHandler calls service.Ticker.
func TickerToolHandler(service interfaces.InsightService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := tickerArg(r)
		if ticker == "" {
			return errorResult("ticker is required"), nil
		}

		start := time.Now()
		rec, err := service.Ticker(ctx, ticker)
		if err != nil {
			logger.Warn().Str("tool", ToolGetTicker).Str("ticker", ticker).Err(err).Msg("tool call failed")
			return kindErrorResult(err), nil
		}
		logger.Debug().Str("tool", ToolGetTicker).Str("ticker", ticker).Dur("duration", time.Since(start)).Msg("tool call served")
		return jsonResult(rec), nil
	}
}

// AnalyzeToolHandler calls service.Analyze.
func AnalyzeToolHandler(service interfaces.InsightService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := tickerArg(r)
		quarter := strings.TrimSpace(r.GetString("quarter", ""))
		if ticker == "" || quarter == "" {
			return errorResult("ticker and quarter are required"), nil
		}
		reaction := r.GetFloat("stock_reaction", 0)
		if math.IsNaN(reaction) || math.IsInf(reaction, 0) {
			reaction = 0
		}

		entry, err := service.Analyze(ctx, ticker, quarter, reaction)
		if err != nil {
			logger.Warn().Str("tool", ToolAnalyzeQuarter).Str("ticker", ticker).Str("quarter", quarter).Err(err).Msg("tool call failed")
			return kindErrorResult(err), nil
		}
		return jsonResult(entry), nil
	}
}

// SummarizeToolHandler calls service.Summarize.
func SummarizeToolHandler(service interfaces.InsightService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := tickerArg(r)
		if ticker == "" {
			return errorResult("ticker is required"), nil
		}

		summary, err := service.Summarize(ctx, ticker)
		if err != nil {
			logger.Warn().Str("tool", ToolSummarizeTicker).Str("ticker", ticker).Err(err).Msg("tool call failed")
			return kindErrorResult(err), nil
		}
		return jsonResult(summary), nil
	}
}
