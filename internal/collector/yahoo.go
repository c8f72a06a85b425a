package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PriceSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(proxyURL string, timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := p.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch requests daily bars for [start, end]. Null closes are passed through
// for the validator to drop.
func (p *YahooProvider) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	series, err := p.fetchChart(ctx, symbol, day(start), day(end))
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo %s: %w", model.ErrDataUnavailable, symbol, err)
	}
	return series, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(start.Unix()))
	// period2 is exclusive upstream.
	q.Set("period2", fmt.Sprint(end.AddDate(0, 0, 1).Unix()))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimRight(p.BaseURL, "/"), url.PathEscape(p.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	series := &model.RawSeries{Symbol: symbol, HasClose: true}
	if len(chart.Chart.Result) == 0 {
		return series, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		series.HasClose = false
		return series, nil
	}
	quote := result.Indicators.Quote[0]
	if quote.Close == nil && len(result.Timestamp) > 0 {
		series.HasClose = false
	}

	series.Bars = make([]model.RawBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		series.Bars = append(series.Bars, model.RawBar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   numberAt(quote.Open, i),
			High:   numberAt(quote.High, i),
			Low:    numberAt(quote.Low, i),
			Close:  valueAt(quote.Close, i),
			Volume: numberAt(quote.Volume, i),
		})
	}
	return series, nil
}

func valueAt(vals []any, i int) any {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func numberAt(vals []any, i int) float64 {
	if n, ok := valueAt(vals, i).(float64); ok {
		return n
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
