package stats

import (
	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
)

// GenerateTradeSeries projects each trade's profit ratio, as a percentage,
// onto the axis position whose timestamp equals the trade exit time.
//
// Trades are taken in exit time order; when several share an exit time the
// last one wins the slot. Exits with no exact axis match are dropped and
// counted in Dropped.
func GenerateTradeSeries(data Data, trades []account.Trade) *series.Series {
	s := data.CreateSeries(series.Trade)
	s.Figure = "Profit & Loss"
	s.Name = "PNL"
	s.Sign = "triangle"
	s.Reset()

	sorted := SortByExit(trades)
	s.Trades = sorted

	axis := s.Axis()
	for _, trade := range sorted {
		idx, ok := axis.IndexOf(trade.ExitTime)
		if !ok {
			s.Dropped++
			seriesLog.Debug("Trade exit not on axis", "id", trade.ID, "exit_time", trade.ExitTime)
			continue
		}
		pnl := trade.ProfitRatio * 100
		seriesLog.Debug("Matched trade exit", "id", trade.ID, "index", idx, "pnl_pct", pnl)
		s.Values[idx] = pnl
	}

	return s
}

// GenerateEquitySeries aligns the recorded equity samples to the axis. A
// position without a sample carries the previous equity forward; positions
// before the first sample stay 0. Samples off the axis are dropped.
func GenerateEquitySeries(data Data, samples []EquitySample) *series.Series {
	s := data.CreateSeries(series.EquityCurve)
	s.Figure = "Equity"
	s.Name = "equity"
	s.Reset()

	axis := s.Axis()
	sampled := make([]bool, axis.Len())
	for _, sample := range samples {
		idx, ok := axis.IndexOf(sample.Time)
		if !ok {
			s.Dropped++
			continue
		}
		s.Values[idx] = sample.Equity
		sampled[idx] = true
	}

	var last float64
	var seen bool
	for i := range s.Values {
		if sampled[i] {
			last, seen = s.Values[i], true
			continue
		}
		if seen {
			s.Values[i] = last
		}
	}

	if s.Dropped > 0 {
		seriesLog.Warn("Equity samples not on axis", "dropped", s.Dropped)
	}
	return s
}

// GenerateDrawdownSeries derives the percentage decline from the running peak
// of an aligned equity series. Positions before the first equity value are 0.
func GenerateDrawdownSeries(data Data, equity *series.Series) *series.Series {
	s := data.CreateSeries(series.Drawdown)
	s.Figure = "Drawdown"
	s.Name = "drawdown"
	s.Reset()

	var peak float64
	for i, v := range equity.Values {
		if i >= len(s.Values) {
			break
		}
		if v > peak {
			peak = v
		}
		if peak > 0 {
			s.Values[i] = (v/peak - 1) * 100
		}
	}
	return s
}
