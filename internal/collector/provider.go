// Package collector fetches daily price bars from market data providers.
package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"PriceSentinel/internal/model"
)

// Provider fetches the daily bars of one symbol over an inclusive date range.
// Failures are wrapped with model.ErrDataUnavailable.
type Provider interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error)
	Name() string
}

const dateLayout = "2006-01-02"

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// day truncates t to its UTC calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
