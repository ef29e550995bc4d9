package backtest

import (
	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/stats"
	"github.com/jwtly10/tradestats/internal/types"
)

// Results is a finished backtest. Trades are in exit time order.
type Results struct {
	InitialBalance float64
	FinalBalance   float64
	Trades         []account.Trade
	Bars           []types.Bar

	stats    *stats.Stats
	registry *series.Registry
}

// Summary returns the statistics computed when the run finished.
func (r *Results) Summary() stats.Summary {
	s, _ := r.stats.Summary()
	return s
}

// Stats exposes the engine, e.g. for a presenter.
func (r *Results) Stats() *stats.Stats {
	return r.stats
}

// Series returns every series registered during the run.
func (r *Results) Series() []*series.Series {
	return r.registry.All()
}

func (r *Results) PrintTrades() {
	stats.PrintTrades(r.Trades, 0, len(r.Trades))
}

func (r *Results) PrintTradesBetween(from, to int) {
	stats.PrintTrades(r.Trades, from, to)
}
