package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"stockdata/internal/model"
	"stockdata/internal/series"
)

// TiingoFetcher implements Fetcher using the Tiingo end-of-day REST API.
type TiingoFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewTiingoFetcher creates a Tiingo fetcher with optional proxy support.
// rps > 0 throttles outgoing requests.
func NewTiingoFetcher(baseURL, apiKey, proxyURL string, rps float64, burst int) *TiingoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &TiingoFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: limiter,
	}
}

func (f *TiingoFetcher) Name() string { return "tiingo" }

// tiingoRow is the expected JSON shape of one daily price row.
type tiingoRow struct {
	Date     string   `json:"date"`
	Open     float64  `json:"open"`
	High     float64  `json:"high"`
	Low      float64  `json:"low"`
	Close    float64  `json:"close"`
	AdjClose *float64 `json:"adjClose"`
	Volume   float64  `json:"volume"`
}

// Fetch pulls daily bars for the inclusive window [start, end].
func (f *TiingoFetcher) Fetch(ticker string, start, end time.Time) (model.Series, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(context.Background()); err != nil {
			return nil, fmt.Errorf("tiingo rate wait: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&format=json",
		f.BaseURL, url.PathEscape(ticker), model.FormatDay(start), model.FormatDay(end))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Token "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiingo fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tiingo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows []tiingoRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("tiingo decode: %w", err)
	}

	bars := make(model.Series, 0, len(rows))
	for _, row := range rows {
		t, err := time.Parse(time.RFC3339, row.Date)
		if err != nil {
			return nil, fmt.Errorf("tiingo parse date %q: %w", row.Date, err)
		}
		ac := row.Close
		if row.AdjClose != nil {
			ac = *row.AdjClose
		}
		bars = append(bars, model.Bar{
			Date:     model.Day(t),
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			AdjClose: ac,
			Volume:   row.Volume,
		})
	}

	series.Sort(bars)
	return bars, nil
}
