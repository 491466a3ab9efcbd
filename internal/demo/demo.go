// Package demo serves the bundled ticker fixtures returned when the market
// and earnings providers are not configured.
package demo

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// priceSpec describes the synthetic daily series of a fixture.
type priceSpec struct {
	Start      string  `json:"start"`
	StartClose float64 `json:"startClose"`
	Days       int     `json:"days"`
	Seed       uint64  `json:"seed"`
}

type fixture struct {
	models.TickerRecord
	PriceSpec priceSpec `json:"priceSeries"`
}

var (
	loadOnce sync.Once
	records  map[string]models.TickerRecord
	loadErr  error
)

func load() {
	records = make(map[string]models.TickerRecord)
	entries, err := fixtureFS.ReadDir("fixtures")
	if err != nil {
		loadErr = err
		return
	}
	for _, e := range entries {
		data, err := fixtureFS.ReadFile(path.Join("fixtures", e.Name()))
		if err != nil {
			loadErr = err
			return
		}
		var f fixture
		if err := json.Unmarshal(data, &f); err != nil {
			loadErr = fmt.Errorf("demo fixture %s: %w", e.Name(), err)
			return
		}
		rec := f.TickerRecord
		rec.Prices = GeneratePrices(f.PriceSpec.Start, f.PriceSpec.StartClose, f.PriceSpec.Days, f.PriceSpec.Seed, reactions(rec.Earnings))
		rec.IsDemo = true
		records[strings.ToUpper(rec.Ticker)] = rec
	}
}

func reactions(quarters []models.ReconciledQuarter) map[string]float64 {
	m := make(map[string]float64, len(quarters))
	for _, q := range quarters {
		m[q.ReportDate] = q.StockReactionPercent
	}
	return m
}

// Lookup returns a copy of the fixture for ticker, matched case-insensitively.
func Lookup(ticker string) (*models.TickerRecord, bool) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, false
	}
	rec, ok := records[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return nil, false
	}
	out := clone(rec)
	return &out, true
}

// Tickers lists the symbols with a bundled fixture.
func Tickers() []string {
	loadOnce.Do(load)
	out := make([]string, 0, len(records))
	for t := range records {
		out = append(out, t)
	}
	return out
}

// LoadError reports a fixture that failed to decode.
func LoadError() error {
	loadOnce.Do(load)
	return loadErr
}

func clone(r models.TickerRecord) models.TickerRecord {
	r.Prices = append([]models.PricePoint(nil), r.Prices...)
	r.Earnings = append([]models.ReconciledQuarter(nil), r.Earnings...)
	entries := make([]models.NarrativeEntry, len(r.TruthTranslator))
	for i, e := range r.TruthTranslator {
		e.ScriptPoints = append([]string(nil), e.ScriptPoints...)
		e.RealityPoints = append([]string(nil), e.RealityPoints...)
		e.Verdicts = append([]models.Verdict(nil), e.Verdicts...)
		entries[i] = e
	}
	r.TruthTranslator = entries
	r.MasterSummary.BrokenPromises = append([]models.Contradiction(nil), r.MasterSummary.BrokenPromises...)
	r.Filings = append([]models.FilingRecord(nil), r.Filings...)
	return r
}

// GeneratePrices builds a weekday close series over days calendar days from
// start. Earnings dates move by their reaction; other days drift randomly with
// a slight upward bias. The same seed always yields the same series.
func GeneratePrices(start string, startClose float64, days int, seed uint64, earnings map[string]float64) []models.PricePoint {
	first, err := time.Parse(models.DateLayout, start)
	if err != nil || days <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	prices := make([]models.PricePoint, 0, days)
	price := startClose
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		date := day.Format(models.DateLayout)
		if reaction, ok := earnings[date]; ok {
			price *= 1 + reaction/100
		} else {
			price *= 1 + (rng.Float64()-0.48)*2.5/100
		}
		prices = append(prices, models.PricePoint{Date: date, Close: common.Round2(price)})
	}
	return prices
}
