package model

import "time"

// LiveQuote is an intraday price snapshot for a ticker. Time carries the
// exchange timestamp of the quote, not the local clock.
type LiveQuote struct {
	Time  time.Time
	Price float64
}
