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

// VsTraderProvider implements Provider using the vstrader REST API.
type VsTraderProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderProvider creates a provider with optional proxy support.
func NewVsTraderProvider(baseURL, apiKey, proxyURL string, timeout time.Duration) *VsTraderProvider {
	return &VsTraderProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (p *VsTraderProvider) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API. Close may be null.
type vsBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     *float64 `json:"close"`
	Volume    float64  `json:"volume"`
}

func (p *VsTraderProvider) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	series, err := p.fetchBars(ctx, symbol, day(start), day(end))
	if err != nil {
		return nil, fmt.Errorf("%w: vstrader %s: %w", model.ErrDataUnavailable, symbol, err)
	}
	return series, nil
}

func (p *VsTraderProvider) fetchBars(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", start.Format(dateLayout))
	q.Set("to", end.Format(dateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", p.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var vsBars []vsBar
	if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	series := &model.RawSeries{Symbol: symbol, HasClose: true, Bars: make([]model.RawBar, len(vsBars))}
	for i, vb := range vsBars {
		var c any
		if vb.Close != nil {
			c = *vb.Close
		}
		series.Bars[i] = model.RawBar{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  c,
			Volume: vb.Volume,
		}
	}
	return series, nil
}
