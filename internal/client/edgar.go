package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/models"
)

const (
	// FallbackUserAgent identifies requests when no contact string is configured.
	FallbackUserAgent = "EarningsInsight/1.0 (not-configured)"

	userAgentPlaceholder = "REPLACE_WITH_YOUR_EMAIL"

	// FormEightK is the filing form the locator tracks.
	FormEightK = "8-K"

	defaultFilingDescription = "Form 8-K Filing"
)

// EdgarURLs are the SEC endpoints used by the filing locator. Zero fields
// take the public defaults.
type EdgarURLs struct {
	Tickers     string // company_tickers.json
	Submissions string // directory holding CIK##########.json
	Archive     string // Archives/edgar/data
	Browse      string // cgi-bin/browse-edgar
}

// DefaultEdgarURLs returns the public SEC endpoints.
func DefaultEdgarURLs() EdgarURLs {
	return EdgarURLs{
		Tickers:     "https://www.sec.gov/files/company_tickers.json",
		Submissions: "https://data.sec.gov/submissions",
		Archive:     "https://www.sec.gov/Archives/edgar/data",
		Browse:      "https://www.sec.gov/cgi-bin/browse-edgar",
	}
}

func (u EdgarURLs) withDefaults() EdgarURLs {
	d := DefaultEdgarURLs()
	if u.Tickers == "" {
		u.Tickers = d.Tickers
	}
	if u.Submissions == "" {
		u.Submissions = d.Submissions
	}
	if u.Archive == "" {
		u.Archive = d.Archive
	}
	if u.Browse == "" {
		u.Browse = d.Browse
	}
	u.Submissions = strings.TrimRight(u.Submissions, "/")
	u.Archive = strings.TrimRight(u.Archive, "/")
	return u
}

// NormalizeUserAgent returns ua, or FallbackUserAgent when ua is empty or
// still holds the example placeholder. The bool reports whether ua was usable.
func NormalizeUserAgent(ua string) (string, bool) {
	ua = strings.TrimSpace(ua)
	if ua == "" || strings.Contains(ua, userAgentPlaceholder) {
		return FallbackUserAgent, false
	}
	return ua, true
}

// Edgar is the filing locator adapter. It resolves a ticker to its CIK and
// lists the issuer's recent 8-K filings.
type Edgar struct {
	base
	urls EdgarURLs

	mu   sync.Mutex
	ciks map[string]string // ticker -> 10-digit CIK, loaded once per process
}

// NewEdgar creates an EDGAR adapter. SEC requires a contact string in the
// User-Agent of every request.
func NewEdgar(userAgent string, urls EdgarURLs, opts ...Option) *Edgar {
	c := &Edgar{
		base: newBase("EDGAR", "", opts),
		urls: urls.withDefaults(),
	}
	ua, ok := NormalizeUserAgent(userAgent)
	if !ok {
		c.logger.Warn().
			Str("user_agent", ua).
			Msg("SEC_USER_AGENT not configured, EDGAR may reject requests")
	}
	c.userAgent = ua
	return c
}

type edgarTicker struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

type edgarSubmissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber       []string `json:"accessionNumber"`
			FilingDate            []string `json:"filingDate"`
			Form                  []string `json:"form"`
			PrimaryDocument       []string `json:"primaryDocument"`
			PrimaryDocDescription []string `json:"primaryDocDescription"`
		} `json:"recent"`
	} `json:"filings"`
}

// PadCIK left-pads a numeric CIK to ten digits.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// LookupCIK resolves ticker to a zero-padded CIK. It returns "" when the
// issuer is unknown.
func (c *Edgar) LookupCIK(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	ciks, err := c.tickerMap(ctx)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("EDGAR ticker map unavailable, trying company feed")
	} else if cik, ok := ciks[ticker]; ok {
		return cik, nil
	}

	return c.lookupCIKFromFeed(ctx, ticker)
}

func (c *Edgar) tickerMap(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ciks != nil {
		return c.ciks, nil
	}

	var raw map[string]edgarTicker
	if err := c.getJSON(ctx, "/files/company_tickers.json", c.urls.Tickers, &raw); err != nil {
		return nil, err
	}

	ciks := make(map[string]string, len(raw))
	for _, t := range raw {
		ciks[strings.ToUpper(t.Ticker)] = PadCIK(strconv.FormatInt(t.CIK, 10))
	}
	c.ciks = ciks
	return ciks, nil
}

var cikPattern = regexp.MustCompile(`CIK=(\d+)`)

// lookupCIKFromFeed asks the browse-edgar atom feed for the company.
func (c *Edgar) lookupCIKFromFeed(ctx context.Context, ticker string) (string, error) {
	params := url.Values{}
	params.Set("action", "getcompany")
	params.Set("CIK", ticker)
	params.Set("type", FormEightK)
	params.Set("dateb", "")
	params.Set("owner", "include")
	params.Set("count", "1")
	params.Set("output", "atom")

	body, err := c.get(ctx, "/cgi-bin/browse-edgar", c.urls.Browse+"?"+params.Encode())
	if err != nil {
		var apiErr *APIError
		if asAPIError(err, &apiErr) && apiErr.StatusCode == 404 {
			return "", nil
		}
		return "", err
	}

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		if cik := strings.TrimSpace(doc.Find("company-info cik").First().Text()); cik != "" {
			return PadCIK(strings.TrimLeft(cik, "0")), nil
		}
	}

	if m := cikPattern.FindSubmatch(body); m != nil {
		return PadCIK(strings.TrimLeft(string(m[1]), "0")), nil
	}
	return "", nil
}

// RecentFilings returns up to limit of the issuer's most recent 8-K filings.
// An unresolvable ticker is reported as (nil, nil).
func (c *Edgar) RecentFilings(ctx context.Context, ticker string, limit int) ([]models.FilingRecord, error) {
	if limit <= 0 {
		limit = 4
	}

	cik, err := c.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if cik == "" {
		c.logger.Debug().Str("ticker", ticker).Msg("EDGAR issuer not found")
		return nil, nil
	}

	endpoint := "/submissions/CIK" + cik + ".json"
	body, err := c.get(ctx, endpoint, c.urls.Submissions+"/CIK"+cik+".json")
	if err != nil {
		return nil, err
	}

	var subs edgarSubmissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, apperr.Malformed("edgar "+endpoint, "failed to decode submissions: %v", err)
	}

	recent := subs.Filings.Recent
	n := minLen(len(recent.AccessionNumber), len(recent.FilingDate), len(recent.Form), len(recent.PrimaryDocument))
	archiveCIK := strings.TrimLeft(cik, "0")

	filings := make([]models.FilingRecord, 0, limit)
	for i := 0; i < n && len(filings) < limit; i++ {
		if recent.Form[i] != FormEightK {
			continue
		}
		desc := ""
		if i < len(recent.PrimaryDocDescription) {
			desc = strings.TrimSpace(recent.PrimaryDocDescription[i])
		}
		if desc == "" {
			desc = defaultFilingDescription
		}
		accession := recent.AccessionNumber[i]
		filings = append(filings, models.FilingRecord{
			FilingDate:  recent.FilingDate[i],
			Form:        recent.Form[i],
			Description: desc,
			DocumentURL: fmt.Sprintf("%s/%s/%s/%s", c.urls.Archive, archiveCIK,
				strings.ReplaceAll(accession, "-", ""), recent.PrimaryDocument[i]),
			AccessionID: accession,
		})
	}
	return filings, nil
}

func minLen(lengths ...int) int {
	m := lengths[0]
	for _, l := range lengths[1:] {
		if l < m {
			m = l
		}
	}
	return m
}
