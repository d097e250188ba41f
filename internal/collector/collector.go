package collector

import (
	"time"

	"stockdata/internal/model"
	"stockdata/internal/series"
)

// FetchCall records one Fetch invocation on the MockFetcher.
type FetchCall struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// MockFetcher returns controllable fixed data for development and testing.
// With Bars set it serves the in-window slice of those bars, otherwise it
// generates a deterministic synthetic series seeded from BasePrice.
type MockFetcher struct {
	BasePrice float64
	Bars      model.Series
	Err       error
	Calls     []FetchCall
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ticker string, start, end time.Time) (model.Series, error) {
	m.Calls = append(m.Calls, FetchCall{Ticker: ticker, Start: model.Day(start), End: model.Day(end)})
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return series.Through(series.Since(m.Bars, model.Day(start)), model.Day(end)).Clone(), nil
	}
	return generateMockBars(m.BasePrice, model.Day(start), model.Day(end)), nil
}

// generateMockBars fills every weekday in [start, end] with a bar whose
// price drifts a tenth of a percent per day around basePrice.
func generateMockBars(basePrice float64, start, end time.Time) model.Series {
	if basePrice == 0 {
		basePrice = 100
	}
	var bars model.Series
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.Bar{
			Date:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}
