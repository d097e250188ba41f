// Package series provides the date-indexed operations the reader composes:
// a union merge with row precedence and inclusive slicing by calendar day.
package series

import (
	"sort"
	"time"

	"stockdata/internal/model"
)

// Merge unions preferred and fallback into a single series ordered by date.
// When both sides carry a bar for the same day the preferred row wins whole;
// fallback rows only fill days missing from the preferred side. Inputs must
// be date-ordered. The result never aliases either input.
func Merge(preferred, fallback model.Series) model.Series {
	if len(fallback) == 0 {
		return preferred.Clone()
	}
	if len(preferred) == 0 {
		return fallback.Clone()
	}
	out := make(model.Series, 0, len(preferred)+len(fallback))
	i, j := 0, 0
	for i < len(preferred) && j < len(fallback) {
		switch {
		case preferred[i].Date.Before(fallback[j].Date):
			out = append(out, preferred[i])
			i++
		case fallback[j].Date.Before(preferred[i].Date):
			out = append(out, fallback[j])
			j++
		default:
			out = append(out, preferred[i])
			i++
			j++
		}
	}
	out = append(out, preferred[i:]...)
	out = append(out, fallback[j:]...)
	return out
}

// Through returns the bars dated on or before end. The result is a view
// into s, not a copy.
func Through(s model.Series, end time.Time) model.Series {
	idx := sort.Search(len(s), func(i int) bool {
		return s[i].Date.After(end)
	})
	return s[:idx]
}

// Since returns the bars dated on or after start. The result is a view
// into s, not a copy.
func Since(s model.Series, start time.Time) model.Series {
	idx := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(start)
	})
	return s[idx:]
}

// Sort orders bars by ascending date in place.
func Sort(s model.Series) {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Date.Before(s[j].Date)
	})
}
