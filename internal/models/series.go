// Package models defines the shared value types for the statistics engine.
package models

import (
	"math"
	"sort"
	"time"
)

// Series is an ordered sequence of (date, value) pairs with strictly
// increasing, unique dates. Values are float64 and may be NaN where an
// observation is absent. Transforms never mutate a Series in place; every
// operation returns a new one.
type Series struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// NewSeries builds a Series from parallel date/value slices. The input
// slices are copied. Rows are sorted ascending by date; when the same date
// appears more than once the last row wins.
func NewSeries(name string, dates []time.Time, values []float64) Series {
	n := len(values)
	if len(dates) < n {
		n = len(dates)
	}

	type row struct {
		date  time.Time
		value float64
	}
	rows := make([]row, n)
	for i := 0; i < n; i++ {
		rows[i] = row{date: dates[i], value: values[i]}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	s := Series{Name: name}
	for i, r := range rows {
		if i > 0 && r.date.Equal(rows[i-1].date) {
			// Duplicate date: replace the previous row.
			s.Values[len(s.Values)-1] = r.value
			continue
		}
		s.Dates = append(s.Dates, r.date)
		s.Values = append(s.Values, r.value)
	}
	return s
}

// FromValues builds a Series without a date index. Functions that need
// dates (aggregation, period inference) treat such a series as undated.
func FromValues(name string, values []float64) Series {
	v := make([]float64, len(values))
	copy(v, values)
	return Series{Name: name, Values: v}
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Values) }

// Empty reports whether the series has no observations.
func (s Series) Empty() bool { return len(s.Values) == 0 }

// HasDates reports whether every observation carries a date.
func (s Series) HasDates() bool {
	return len(s.Dates) == len(s.Values) && len(s.Dates) > 0
}

// Clone returns a deep copy, optionally renamed.
func (s Series) Clone(name string) Series {
	out := Series{Name: s.Name}
	if name != "" {
		out.Name = name
	}
	if s.Dates != nil {
		out.Dates = make([]time.Time, len(s.Dates))
		copy(out.Dates, s.Dates)
	}
	out.Values = make([]float64, len(s.Values))
	copy(out.Values, s.Values)
	return out
}

// WithValues returns a series sharing this one's name and dates but holding
// the given values. The value slice is copied. Used by transforms that map
// values one-to-one.
func (s Series) WithValues(values []float64) Series {
	out := s.Clone("")
	out.Values = make([]float64, len(values))
	copy(out.Values, values)
	if len(out.Dates) != len(out.Values) {
		out.Dates = nil
	}
	return out
}

// DateAt returns the date for index i, or the zero time for an undated series.
func (s Series) DateAt(i int) time.Time {
	if i >= 0 && i < len(s.Dates) {
		return s.Dates[i]
	}
	return time.Time{}
}

// First returns the first value, or NaN when empty.
func (s Series) First() float64 {
	if s.Empty() {
		return math.NaN()
	}
	return s.Values[0]
}

// Last returns the last value, or NaN when empty.
func (s Series) Last() float64 {
	if s.Empty() {
		return math.NaN()
	}
	return s.Values[len(s.Values)-1]
}

// Min returns the smallest finite value, or NaN when none exists.
func (s Series) Min() float64 {
	out := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(out) || v < out {
			out = v
		}
	}
	return out
}

// Max returns the largest finite value, or NaN when none exists.
func (s Series) Max() float64 {
	out := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(out) || v > out {
			out = v
		}
	}
	return out
}

// Valid returns the non-NaN values in order.
func (s Series) Valid() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Frame is a set of named value columns sharing one date index.
type Frame struct {
	Dates   []time.Time
	Columns []string
	Values  [][]float64 // indexed [column][row]
}

// Column returns the values for the named column, or nil when absent.
func (f Frame) Column(name string) []float64 {
	for i, c := range f.Columns {
		if c == name {
			return f.Values[i]
		}
	}
	return nil
}

// DrawdownEpisode is one contiguous below-peak run of a drawdown curve.
// End is the zero time while the episode has not recovered.
type DrawdownEpisode struct {
	Start       time.Time
	Valley      time.Time
	End         time.Time
	MaxDrawdown float64 // fraction, always <= 0
	Days        int     // calendar days from start to recovery (or last observation)
}

// Recovered reports whether the episode closed above its prior peak.
func (e DrawdownEpisode) Recovered() bool { return !e.End.IsZero() }

// MonthlyRow is one calendar year of compounded monthly returns.
// Months without observations hold NaN.
type MonthlyRow struct {
	Year   int
	Months [12]float64
	EOY    float64
}

// Table is the row-ordered, named-column output boundary consumed verbatim
// by report rendering.
type Table struct {
	Columns []string
	Rows    [][]string
}
