// Package live fetches intraday quotes used to overlay the newest cached
// bar with the current market price.
package live

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"stockdata/internal/model"
)

//go:generate mockgen -package=reader_test -destination=../reader/mock_quote_test.go -source=quote.go QuoteFetcher

// QuoteFetcher reads the current intraday quote for a ticker. A nil quote
// with a nil error means no quote is available right now.
type QuoteFetcher interface {
	FetchLiveQuote(ticker string) (*model.LiveQuote, error)
}

const quoteBaseURL = "https://query1.finance.yahoo.com"

// YahooQuoteClient implements QuoteFetcher against the Yahoo chart API,
// reading the regular market price from the chart metadata.
type YahooQuoteClient struct {
	client *resty.Client
}

// NewYahooQuoteClient creates a quote client. baseURL and proxyURL may be
// empty for the public endpoint with no proxy.
func NewYahooQuoteClient(baseURL, proxyURL string) *YahooQuoteClient {
	if baseURL == "" {
		baseURL = quoteBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "Mozilla/5.0",
		})
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooQuoteClient{client: client}
}

type yahooQuoteResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchLiveQuote returns the latest regular market price and its exchange
// timestamp, or nil when the vendor has no quote for the ticker.
func (c *YahooQuoteClient) FetchLiveQuote(ticker string) (*model.LiveQuote, error) {
	var out yahooQuoteResponse
	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"range":    "1d",
			"interval": "1d",
		}).
		SetResult(&out).
		Get("/v8/finance/chart/" + url.PathEscape(ticker))
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("quote request: status %s", resp.Status())
	}
	if out.Chart.Error != nil {
		return nil, fmt.Errorf("quote api error: %s", out.Chart.Error.Description)
	}
	if len(out.Chart.Result) == 0 {
		return nil, nil
	}
	meta := out.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 || meta.RegularMarketTime == 0 {
		return nil, nil
	}
	return &model.LiveQuote{
		Time:  time.Unix(meta.RegularMarketTime, 0).UTC(),
		Price: meta.RegularMarketPrice,
	}, nil
}
