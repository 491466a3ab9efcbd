package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

// DefaultPolygonBaseURL is the Polygon.io REST endpoint.
const DefaultPolygonBaseURL = "https://api.polygon.io"

// Polygon is the market data adapter. It returns one trailing year of daily
// closes in ascending date order.
type Polygon struct {
	base
	apiKey string
}

// NewPolygon creates a Polygon adapter.
func NewPolygon(apiKey string, opts ...Option) *Polygon {
	return &Polygon{
		base:   newBase("Polygon", DefaultPolygonBaseURL, opts),
		apiKey: strings.TrimSpace(apiKey),
	}
}

// Configured reports whether a usable API key is present.
func (c *Polygon) Configured() bool { return KeyConfigured(c.apiKey) }

type polygonAggregates struct {
	Status  string `json:"status"`
	Results []struct {
		T int64   `json:"t"` // window start, epoch milliseconds
		C float64 `json:"c"`
	} `json:"results"`
}

// DailyCloses returns the closes from one year ago to today. An empty result
// is reported as (nil, nil).
func (c *Polygon) DailyCloses(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	if !c.Configured() {
		return nil, apperr.Config("polygon.prices", "market data API key not configured")
	}

	ticker = strings.ToUpper(ticker)
	to := c.now().UTC()
	from := to.AddDate(-1, 0, 0)

	endpoint := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(ticker), from.Format(models.DateLayout), to.Format(models.DateLayout))

	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("sort", "asc")
	params.Set("apiKey", c.apiKey)

	var result polygonAggregates
	if err := c.getJSON(ctx, endpoint, c.baseURL+endpoint+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}

	prices := make([]models.PricePoint, 0, len(result.Results))
	for _, r := range result.Results {
		date := time.UnixMilli(r.T).UTC().Format(models.DateLayout)
		if n := len(prices); n > 0 && date <= prices[n-1].Date {
			continue
		}
		prices = append(prices, models.PricePoint{
			Date:  date,
			Close: common.Round2(r.C),
		})
	}
	return prices, nil
}
