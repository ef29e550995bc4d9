package series

import (
	"sort"
	"time"
)

// Axis is the reference time axis: the ordered bar timestamps every series is
// projected onto. Lookups by timestamp are exact.
type Axis struct {
	times []time.Time
	index map[instant]int
}

// instant identifies a point in time independent of location. UnixNano only
// covers the years 1678 to 2262.
type instant struct {
	sec  int64
	nsec int
}

func instantOf(t time.Time) instant {
	return instant{sec: t.Unix(), nsec: t.Nanosecond()}
}

// NewAxis builds an axis from ordered, unique timestamps. The input is copied.
func NewAxis(times []time.Time) *Axis {
	a := &Axis{
		times: make([]time.Time, len(times)),
		index: make(map[instant]int, len(times)),
	}
	copy(a.times, times)
	for i, t := range a.times {
		a.index[instantOf(t)] = i
	}
	return a
}

func (a *Axis) Len() int {
	if a == nil {
		return 0
	}
	return len(a.times)
}

func (a *Axis) At(i int) time.Time {
	return a.times[i]
}

// Times returns a copy of the axis timestamps.
func (a *Axis) Times() []time.Time {
	out := make([]time.Time, a.Len())
	if a != nil {
		copy(out, a.times)
	}
	return out
}

// IndexOf returns the position of t on the axis. Only exact matches count.
func (a *Axis) IndexOf(t time.Time) (int, bool) {
	if a == nil {
		return 0, false
	}
	i, ok := a.index[instantOf(t)]
	return i, ok
}

// Span returns the inclusive index range of axis points within [from, to].
// ok is false when no point falls inside the interval.
func (a *Axis) Span(from, to time.Time) (lo, hi int, ok bool) {
	n := a.Len()
	if n == 0 || to.Before(from) {
		return 0, 0, false
	}
	lo = sort.Search(n, func(i int) bool { return !a.times[i].Before(from) })
	hi = sort.Search(n, func(i int) bool { return a.times[i].After(to) }) - 1
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
