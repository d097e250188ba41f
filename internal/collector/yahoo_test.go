package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockdata/internal/model"
)

func day(s string) time.Time {
	d, err := model.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Timestamps carry the 13:30 UTC market-open stamp Yahoo actually returns,
// so parsing has to normalize them to calendar days.
const yahooChartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1509543000, 1509629400, 1509715800],
      "indicators": {
        "quote": [{
          "open":   [1019.21, 1021.76, null],
          "high":   [1029.67, 1028.09, null],
          "low":    [1016.95, 1013.01, null],
          "close":  [1025.58, 1031.26, null],
          "volume": [2085100, 1950600, null]
        }],
        "adjclose": [{
          "adjclose": [1025.58, 1031.26, null]
        }]
      }
    }],
    "error": null
  }
}`

func TestYahooFetcher_Fetch(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.Fetch("GOOG", day("2017-11-01"), day("2017-11-03"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/v8/finance/chart/GOOG" {
		t.Errorf("unexpected path %s", gotPath)
	}
	wantQuery := "period1=1509494400&period2=1509753600&interval=1d&events=div%2Csplit"
	if gotQuery != wantQuery {
		t.Errorf("unexpected query\n got %s\nwant %s", gotQuery, wantQuery)
	}
	if gotAgent != "Mozilla/5.0" {
		t.Errorf("unexpected user agent %q", gotAgent)
	}

	// Third bar is all null (holiday) and must be dropped.
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Date.Equal(day("2017-11-01")) || !bars[1].Date.Equal(day("2017-11-02")) {
		t.Errorf("dates not normalized to UTC days: %v, %v", bars[0].Date, bars[1].Date)
	}
	if bars[1].Close != 1031.26 || bars[1].AdjClose != 1031.26 || bars[1].Volume != 1950600 {
		t.Errorf("unexpected bar values: %+v", bars[1])
	}
}

func TestYahooFetcher_ClipsBarsOutsideWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.Fetch("GOOG", day("2017-11-02"), day("2017-11-03"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 1 || !bars[0].Date.Equal(day("2017-11-02")) {
		t.Errorf("expected only the 11-02 bar, got %d bars", len(bars))
	}
}

func TestYahooFetcher_AdjCloseFallsBackToClose(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1509543000],"indicators":{"quote":[{"open":[10],"high":[11],"low":[9],"close":[10.5],"volume":[100]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.Fetch("GOOG", day("2017-11-01"), day("2017-11-01"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 1 || bars[0].AdjClose != 10.5 {
		t.Errorf("expected adj close to fall back to close, got %+v", bars)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := f.Fetch("NOPE", day("2017-11-01"), day("2017-11-02")); err == nil {
		t.Fatal("expected an error for a chart-level API error")
	}
}

func TestYahooFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	if _, err := f.Fetch("GOOG", day("2017-11-01"), day("2017-11-02")); err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}
