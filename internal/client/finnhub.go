package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

// DefaultFinnhubBaseURL is the Finnhub REST endpoint.
const DefaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// earningsLimit is how many recent quarters are requested.
const earningsLimit = 4

// Finnhub is the earnings data adapter.
type Finnhub struct {
	base
	apiKey string
}

// NewFinnhub creates a Finnhub adapter.
func NewFinnhub(apiKey string, opts ...Option) *Finnhub {
	return &Finnhub{
		base:   newBase("Finnhub", DefaultFinnhubBaseURL, opts),
		apiKey: strings.TrimSpace(apiKey),
	}
}

// Configured reports whether a usable API key is present.
func (c *Finnhub) Configured() bool { return KeyConfigured(c.apiKey) }

type finnhubEarning struct {
	Actual          *float64 `json:"actual"`
	Estimate        *float64 `json:"estimate"`
	Period          string   `json:"period"`
	Quarter         int      `json:"quarter"`
	Year            int      `json:"year"`
	Surprise        *float64 `json:"surprise"`
	SurprisePercent *float64 `json:"surprisePercent"`
	Symbol          string   `json:"symbol"`
}

type finnhubProfile struct {
	Name     string `json:"name"`
	Industry string `json:"finnhubIndustry"`
	Ticker   string `json:"ticker"`
}

func (c *Finnhub) endpointURL(path string, params url.Values) string {
	params.Set("token", c.apiKey)
	return c.baseURL + path + "?" + params.Encode()
}

// EarningsSurprises returns up to the last four quarters in provider order.
// An empty result is reported as (nil, nil).
func (c *Finnhub) EarningsSurprises(ctx context.Context, ticker string) ([]models.EarningsRecord, error) {
	if !c.Configured() {
		return nil, apperr.Config("finnhub.earnings", "earnings data API key not configured")
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(ticker))
	params.Set("limit", fmt.Sprintf("%d", earningsLimit))

	var raw []finnhubEarning
	if err := c.getJSON(ctx, "/stock/earnings", c.endpointURL("/stock/earnings", params), &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	records := make([]models.EarningsRecord, 0, len(raw))
	for _, e := range raw {
		records = append(records, models.EarningsRecord{
			Quarter:         fmt.Sprintf("Q%d %d", e.Quarter, e.Year),
			ReportDate:      e.Period,
			EPSEstimate:     deref(e.Estimate),
			EPSActual:       deref(e.Actual),
			SurprisePercent: deref(e.SurprisePercent),
		})
	}
	return records, nil
}

// CompanyProfile returns the company name and sector. A profile without a
// name is reported as (nil, nil).
func (c *Finnhub) CompanyProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	if !c.Configured() {
		return nil, apperr.Config("finnhub.profile", "earnings data API key not configured")
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(ticker))

	var raw finnhubProfile
	if err := c.getJSON(ctx, "/stock/profile2", c.endpointURL("/stock/profile2", params), &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, nil
	}

	sector := raw.Industry
	if sector == "" {
		sector = "Unknown"
	}
	symbol := raw.Ticker
	if symbol == "" {
		symbol = strings.ToUpper(ticker)
	}
	return &models.CompanyProfile{
		Ticker: symbol,
		Name:   raw.Name,
		Sector: sector,
	}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
