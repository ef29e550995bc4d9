package presenter

import (
	"errors"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/stats"
)

var ErrNotFinished = errors.New("backtest has not finished")

// Source is what a finished statistics engine exposes.
type Source interface {
	Summary() (stats.Summary, bool)
	Series() []*series.Series
	Trades() []account.Trade
}

// View is a read-only snapshot of a finished backtest for renderers. Every
// accessor returns copies, so callers cannot change the snapshot.
type View struct {
	summary stats.Summary
	series  []*series.Series
	trades  []account.Trade
}

// NewView snapshots src. It fails until the engine has finished.
func NewView(src Source) (*View, error) {
	summary, ok := src.Summary()
	if !ok {
		return nil, ErrNotFinished
	}

	v := &View{
		summary: summary,
		trades:  src.Trades(),
	}
	for _, s := range src.Series() {
		v.series = append(v.series, s.Clone())
	}
	return v, nil
}

func (v *View) Summary() stats.Summary {
	return v.summary
}

func (v *View) Series() []*series.Series {
	out := make([]*series.Series, len(v.series))
	for i, s := range v.series {
		out[i] = s.Clone()
	}
	return out
}

// SeriesByName looks a series up by its display name ("PNL", "cash") or kind.
func (v *View) SeriesByName(name string) (*series.Series, bool) {
	for _, s := range v.series {
		if s.Name == name || string(s.Kind) == name {
			return s.Clone(), true
		}
	}
	return nil, false
}

func (v *View) Trades() []account.Trade {
	return append([]account.Trade(nil), v.trades...)
}

// Axis returns the reference time axis shared by the series.
func (v *View) Axis() []time.Time {
	for _, s := range v.series {
		if s.Axis() != nil {
			return s.Axis().Times()
		}
	}
	return nil
}
