package model

import "time"

// Bar represents a single daily price row.
type Bar struct {
	Date     time.Time // calendar day, normalized to UTC midnight
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Series holds daily bars ordered by strictly increasing date.
// Dates are unique; adapters and merges are responsible for keeping it that way.
type Series []Bar

// Len returns the number of bars.
func (s Series) Len() int { return len(s) }

// Empty reports whether the series has no bars.
func (s Series) Empty() bool { return len(s) == 0 }

// Start returns the date of the first bar, or the zero time for an empty series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Date
}

// End returns the date of the last bar, or the zero time for an empty series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Last returns a pointer to the final bar for in-place updates, or nil when empty.
func (s Series) Last() *Bar {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// Clone returns a copy whose bars can be mutated without touching the original.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}
