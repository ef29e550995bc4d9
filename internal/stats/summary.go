package stats

import (
	"math"
	"sort"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/types"
)

// Summary is the performance summary of one backtest. Ratios are fractions,
// not percentages. Durations are normalised to Options.DurationUnit.
type Summary struct {
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Duration     time.Duration `json:"duration"`
	ExposureTime float64       `json:"exposure_time"`

	EquityFinal      float64 `json:"equity_final"`
	EquityPeak       float64 `json:"equity_peak"`
	PnL              float64 `json:"pnl"`
	ReturnFinal      float64 `json:"return_final"`
	ReturnBuyAndHold float64 `json:"return_buy_and_hold"`

	TradeCount    int     `json:"trade_cnt"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRatio      float64 `json:"win_ratio"`

	BestTradeOnPnL  float64 `json:"best_trade_on_pnl"`
	WorstTradeOnPnL float64 `json:"worst_trade_on_pnl"`
	BestTrade       float64 `json:"best_trade"`
	WorstTrade      float64 `json:"worst_trade"`
	AvgTrade        float64 `json:"avg_trade"`

	AvgTradeDuration time.Duration `json:"avg_trade_duration"`
	MaxTradeDuration time.Duration `json:"max_trade_duration"`

	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	Expectancy   float64 `json:"expectancy"`

	MaxDrawdown         float64       `json:"max_drawdown"`
	MaxDrawdownPct      float64       `json:"max_drawdown_pct"`
	AvgDrawdownPct      float64       `json:"avg_drawdown_pct"`
	MaxDrawdownDuration time.Duration `json:"max_drawdown_duration"`
	AvgDrawdownDuration time.Duration `json:"avg_drawdown_duration"`

	Sharpe  float64 `json:"sharpe"`
	Sortino float64 `json:"sortino"`
	Calmar  float64 `json:"calmar"`
	SQN     float64 `json:"sqn"`
}

// Options control aggregation. A nil Axis leaves ExposureTime at 0.
type Options struct {
	BaseCapital  float64
	DurationUnit time.Duration
	Axis         *series.Axis
}

// SortByExit returns a copy of trades stable sorted by exit time. Trades that
// share an exit time keep their input order.
func SortByExit(trades []account.Trade) []account.Trade {
	out := make([]account.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(out[j].ExitTime)
	})
	return out
}

// ComputeSummary aggregates the closed trades over the bar range [first, last].
// It never fails: with no trades every trade derived field stays 0.
func ComputeSummary(trades []account.Trade, first, last types.Bar, opts Options) Summary {
	base := opts.BaseCapital

	s := Summary{
		Start:       first.Timestamp,
		End:         last.Timestamp,
		Duration:    normalizeDuration(last.Timestamp.Sub(first.Timestamp), opts.DurationUnit),
		EquityFinal: base,
		EquityPeak:  base,
		TradeCount:  len(trades),
	}
	if first.Open != 0 {
		s.ReturnBuyAndHold = (last.Close - first.Open) / first.Open
	}

	if len(trades) == 0 {
		statsLog.Debug("No trades to aggregate", "start", s.Start, "end", s.End)
		return s
	}

	sorted := SortByExit(trades)

	trade0 := sorted[0]
	s.BestTradeOnPnL, s.WorstTradeOnPnL = trade0.PnL, trade0.PnL
	s.BestTrade, s.WorstTrade = trade0.ProfitRatio, trade0.ProfitRatio

	equity := base
	var sumRatio float64
	var maxDuration time.Duration
	pnls := make([]float64, 0, len(sorted))
	ratios := make([]float64, 0, len(sorted))
	durations := make([]float64, 0, len(sorted)) // seconds
	curve := make([]equityPoint, 0, len(sorted)+1)
	curve = append(curve, equityPoint{at: first.Timestamp, equity: base})

	for _, trade := range sorted {
		s.PnL += trade.PnL
		equity += trade.PnL
		curve = append(curve, equityPoint{at: trade.ExitTime, equity: equity})

		if equity > s.EquityPeak {
			s.EquityPeak = equity
		}

		if trade.PnL > 0 {
			s.WinningTrades++
			s.GrossProfit += trade.PnL
		} else if trade.PnL < 0 {
			s.LosingTrades++
			s.GrossLoss += trade.PnL // Already negative
		}

		s.BestTradeOnPnL = math.Max(s.BestTradeOnPnL, trade.PnL)
		s.WorstTradeOnPnL = math.Min(s.WorstTradeOnPnL, trade.PnL)
		s.BestTrade = math.Max(s.BestTrade, trade.ProfitRatio)
		s.WorstTrade = math.Min(s.WorstTrade, trade.ProfitRatio)
		sumRatio += trade.ProfitRatio

		d := trade.Duration()
		if d > maxDuration {
			maxDuration = d
		}

		pnls = append(pnls, trade.PnL)
		ratios = append(ratios, trade.ProfitRatio)
		durations = append(durations, d.Seconds())

		statsLog.Debug("Aggregated trade", "id", trade.ID, "exit_time", trade.ExitTime, "pnl", trade.PnL, "equity", equity)
	}

	n := float64(len(sorted))

	s.EquityFinal = base + s.PnL
	if base != 0 {
		s.ReturnFinal = s.PnL / base
	}
	s.WinRatio = float64(s.WinningTrades) / n
	s.AvgTrade = sumRatio / n
	s.Expectancy = s.PnL / n

	if s.GrossLoss != 0 {
		s.ProfitFactor = s.GrossProfit / -s.GrossLoss
	}
	if s.WinningTrades > 0 {
		s.AvgWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.LosingTrades)
	}

	s.AvgTradeDuration = normalizeDuration(secondsToDuration(mean(durations)), opts.DurationUnit)
	s.MaxTradeDuration = normalizeDuration(maxDuration, opts.DurationUnit)

	dd := computeDrawdowns(curve, last.Timestamp)
	s.MaxDrawdown = dd.maxAbs
	s.MaxDrawdownPct = dd.maxPct
	s.AvgDrawdownPct = dd.avgPct
	s.MaxDrawdownDuration = normalizeDuration(dd.maxDuration, opts.DurationUnit)
	s.AvgDrawdownDuration = normalizeDuration(dd.avgDuration, opts.DurationUnit)

	s.SQN = sqn(pnls)
	s.Sharpe = sharpe(ratios)
	s.Sortino = sortino(ratios)
	if s.MaxDrawdownPct != 0 {
		s.Calmar = s.ReturnFinal / math.Abs(s.MaxDrawdownPct)
	}

	s.ExposureTime = exposure(sorted, first.Timestamp, last.Timestamp, opts.Axis)

	statsLog.Info("Summary computed", "trades", s.TradeCount, "equity_final", s.EquityFinal, "win_ratio", s.WinRatio, "sqn", s.SQN, "exposure", s.ExposureTime)

	return s
}

// exposure marks every axis bar inside a trade's [entry, exit] interval,
// clipped to [start, end], and returns marked bars over bars in range.
// Overlapping trades mark a bar once.
func exposure(trades []account.Trade, start, end time.Time, axis *series.Axis) float64 {
	rangeLo, rangeHi, ok := axis.Span(start, end)
	if !ok {
		return 0
	}

	marked := make([]bool, axis.Len())
	for _, t := range trades {
		from, to := t.EntryTime, t.ExitTime
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		lo, hi, ok := axis.Span(from, to)
		if !ok {
			continue
		}
		for i := lo; i <= hi; i++ {
			marked[i] = true
		}
	}

	var exposed int
	for i := rangeLo; i <= rangeHi; i++ {
		if marked[i] {
			exposed++
		}
	}
	return float64(exposed) / float64(rangeHi-rangeLo+1)
}

// normalizeDuration truncates d to whole multiples of unit. A non positive
// unit leaves d untouched.
func normalizeDuration(d, unit time.Duration) time.Duration {
	if unit <= 0 {
		return d
	}
	return d.Truncate(unit)
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
