package stats

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func dayAt(i int) time.Time {
	return t0.AddDate(0, 0, i)
}

func dailyBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = types.Bar{Timestamp: dayAt(i), Open: price, High: price + 1, Low: price - 1, Close: price + 0.5, Volume: 1000}
	}
	return bars
}

func trade(id, entry, exit int, pnl, ratio float64) account.Trade {
	return account.Trade{
		ID:          id,
		EntryTime:   dayAt(entry),
		ExitTime:    dayAt(exit),
		Direction:   account.LONG,
		EntryPrice:  100,
		Size:        1,
		PnL:         pnl,
		ProfitRatio: ratio,
	}
}

func scenarioTrades() []account.Trade {
	return []account.Trade{
		trade(1, 0, 2, 500, 0.05),
		trade(2, 3, 5, -200, -0.02),
		trade(3, 6, 8, 300, 0.03),
	}
}

func options(bars []types.Bar) Options {
	return Options{
		BaseCapital:  10000,
		DurationUnit: day,
		Axis:         series.NewAxis(types.Timestamps(bars)),
	}
}

func TestComputeSummary_ThreeTradeScenario(t *testing.T) {
	bars := dailyBars(10)
	s := ComputeSummary(scenarioTrades(), bars[0], bars[9], options(bars))

	assert.Equal(t, dayAt(0), s.Start)
	assert.Equal(t, dayAt(9), s.End)
	assert.Equal(t, 9*day, s.Duration)

	assert.Equal(t, 3, s.TradeCount)
	assert.InDelta(t, 10600.0, s.EquityFinal, 1e-9)
	assert.InDelta(t, 10600.0, s.EquityPeak, 1e-9)
	assert.InDelta(t, 0.06, s.ReturnFinal, 1e-12)
	assert.InDelta(t, (109.5-100.0)/100.0, s.ReturnBuyAndHold, 1e-12)
	assert.InDelta(t, 2.0/3.0, s.WinRatio, 1e-12)
	assert.Equal(t, 2, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)

	assert.Equal(t, 500.0, s.BestTradeOnPnL)
	assert.Equal(t, -200.0, s.WorstTradeOnPnL)
	assert.Equal(t, 0.05, s.BestTrade)
	assert.Equal(t, -0.02, s.WorstTrade)
	assert.InDelta(t, 0.02, s.AvgTrade, 1e-12)

	assert.Equal(t, 2*day, s.AvgTradeDuration)
	assert.Equal(t, 2*day, s.MaxTradeDuration)

	assert.InDelta(t, 800.0, s.GrossProfit, 1e-9)
	assert.InDelta(t, -200.0, s.GrossLoss, 1e-9)
	assert.InDelta(t, 4.0, s.ProfitFactor, 1e-12)
	assert.InDelta(t, 400.0, s.AvgWin, 1e-9)
	assert.InDelta(t, -200.0, s.AvgLoss, 1e-9)
	assert.InDelta(t, 200.0, s.Expectancy, 1e-9)

	// Peak 10500 at day 2, trough 10300 at day 5, recovered at day 8
	assert.InDelta(t, 200.0, s.MaxDrawdown, 1e-9)
	assert.InDelta(t, -200.0/10500.0, s.MaxDrawdownPct, 1e-12)
	assert.InDelta(t, -200.0/10500.0, s.AvgDrawdownPct, 1e-12)
	assert.Equal(t, 6*day, s.MaxDrawdownDuration)
	assert.Equal(t, 6*day, s.AvgDrawdownDuration)
	assert.InDelta(t, 0.06/(200.0/10500.0), s.Calmar, 1e-9)

	sd := math.Sqrt((300.0*300.0 + 400.0*400.0 + 100.0*100.0) / 2)
	assert.InDelta(t, math.Sqrt(3)*200.0/sd, s.SQN, 1e-9)

	// Ratios .05, -.02, .03: mean .02, sample stddev sqrt(.0013)
	assert.InDelta(t, 0.02/math.Sqrt(0.0013), s.Sharpe, 1e-9)
	assert.InDelta(t, 0.5547, s.Sharpe, 1e-4)
	// Downside deviation over all three trades: sqrt(.0004/3)
	assert.InDelta(t, 0.02/math.Sqrt(0.0004/3), s.Sortino, 1e-9)
	assert.InDelta(t, 1.7321, s.Sortino, 1e-4)

	// Days 0-2, 3-5 and 6-8 are exposed, day 9 is not
	assert.InDelta(t, 0.9, s.ExposureTime, 1e-12)
}

func TestComputeSummary_NoTrades(t *testing.T) {
	bars := dailyBars(5)
	s := ComputeSummary(nil, bars[0], bars[4], options(bars))

	assert.Equal(t, 0, s.TradeCount)
	assert.Equal(t, 0.0, s.WinRatio)
	assert.Equal(t, 10000.0, s.EquityFinal)
	assert.Equal(t, 10000.0, s.EquityPeak)
	assert.Equal(t, 0.0, s.ReturnFinal)
	assert.Equal(t, 0.0, s.SQN)
	assert.Equal(t, 0.0, s.ExposureTime)
	assert.Equal(t, 4*day, s.Duration)
	assert.False(t, math.IsNaN(s.AvgTrade))
}

func TestComputeSummary_SingleTrade(t *testing.T) {
	bars := dailyBars(5)
	s := ComputeSummary([]account.Trade{trade(1, 1, 3, -75, -0.0075)}, bars[0], bars[4], options(bars))

	assert.Equal(t, -75.0, s.BestTradeOnPnL)
	assert.Equal(t, -75.0, s.WorstTradeOnPnL)
	assert.Equal(t, 0.0, s.SQN, "Single trade SQN uses the zero variance sentinel")
	assert.False(t, math.IsNaN(s.Sharpe) || math.IsInf(s.Sharpe, 0))
	assert.Equal(t, 10000.0, s.EquityPeak, "Peak starts at base capital")
	assert.Equal(t, 0.0, s.ProfitFactor)
	assert.Equal(t, 4*day, s.MaxDrawdownDuration, "Open drawdown lasts from the peak to the end of the range")
}

func TestComputeSummary_ZeroVariancePnL(t *testing.T) {
	bars := dailyBars(10)
	trades := []account.Trade{
		trade(1, 0, 1, 0.1, 0.001),
		trade(2, 2, 3, 0.1, 0.001),
		trade(3, 4, 5, 0.1, 0.001),
	}
	s := ComputeSummary(trades, bars[0], bars[9], options(bars))

	assert.Equal(t, 0.0, s.SQN)
	assert.Equal(t, 0.0, s.Sharpe)
	assert.Equal(t, 0.0, s.Sortino, "No losing trades means no downside deviation")
}

func TestComputeSummary_Deterministic(t *testing.T) {
	bars := dailyBars(10)
	trades := scenarioTrades()
	opts := options(bars)

	a := ComputeSummary(trades, bars[0], bars[9], opts)
	b := ComputeSummary(trades, bars[0], bars[9], opts)

	assert.Equal(t, a, b)
	assert.Equal(t, scenarioTrades(), trades, "Input trades must not be reordered or modified")
}

func TestComputeSummary_SortsByExitBeforePeakTracking(t *testing.T) {
	bars := dailyBars(10)
	shuffled := []account.Trade{
		trade(3, 6, 8, 300, 0.03),
		trade(1, 0, 2, 500, 0.05),
		trade(2, 3, 5, -200, -0.02),
	}

	s := ComputeSummary(shuffled, bars[0], bars[9], options(bars))
	sorted := ComputeSummary(scenarioTrades(), bars[0], bars[9], options(bars))

	assert.Equal(t, sorted, s)
}

func TestComputeSummary_Exposure(t *testing.T) {
	bars := dailyBars(10)
	trades := []account.Trade{
		trade(1, 1, 4, 10, 0.001),
		trade(2, 3, 6, 10, 0.001),  // overlaps trade 1
		trade(3, 8, 20, 10, 0.001), // exits after the last bar
		trade(4, 0, 0, -5, -0.001), // zero duration
	}

	s := ComputeSummary(trades, bars[0], bars[9], options(bars))

	// Marked: 0, 1-6, 8-9. Day 7 is flat.
	assert.InDelta(t, 0.9, s.ExposureTime, 1e-12)
	assert.Equal(t, 4, s.TradeCount)
	assert.InDelta(t, 0.75, s.WinRatio, 1e-12)

	noAxis := options(bars)
	noAxis.Axis = nil
	assert.Equal(t, 0.0, ComputeSummary(trades, bars[0], bars[9], noAxis).ExposureTime)
}

func TestComputeSummary_DurationNormalization(t *testing.T) {
	bars := []types.Bar{
		{Timestamp: t0, Open: 100, Close: 100},
		{Timestamp: t0.Add(36 * time.Hour), Open: 100, Close: 101},
	}
	trades := []account.Trade{
		{ID: 1, EntryTime: t0, ExitTime: t0.Add(30 * time.Hour), PnL: 1},
		{ID: 2, EntryTime: t0, ExitTime: t0.Add(6 * time.Hour), PnL: 1},
	}

	daily := ComputeSummary(trades, bars[0], bars[1], Options{BaseCapital: 10000, DurationUnit: day})
	assert.Equal(t, day, daily.Duration)
	assert.Equal(t, day, daily.MaxTradeDuration)
	assert.Equal(t, 0*day, daily.AvgTradeDuration)

	raw := ComputeSummary(trades, bars[0], bars[1], Options{BaseCapital: 10000})
	assert.Equal(t, 36*time.Hour, raw.Duration)
	assert.Equal(t, 30*time.Hour, raw.MaxTradeDuration)
	assert.Equal(t, 18*time.Hour, raw.AvgTradeDuration)
}

func TestComputeSummary_RandomTradeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bars := dailyBars(60)
	opts := options(bars)

	for run := 0; run < 50; run++ {
		n := 1 + rng.Intn(30)
		trades := make([]account.Trade, n)
		var sum float64
		var wins int
		for i := range trades {
			entry := rng.Intn(59)
			exit := entry + rng.Intn(60-entry)
			pnl := rng.Float64()*2000 - 1000
			trades[i] = trade(i+1, entry, exit, pnl, pnl/10000)
			sum += pnl
			if pnl > 0 {
				wins++
			}
		}

		s := ComputeSummary(trades, bars[0], bars[59], opts)

		assert.InDelta(t, 10000+sum, s.EquityFinal, 1e-6)
		assert.GreaterOrEqual(t, s.EquityPeak, s.EquityFinal-1e-9)
		assert.GreaterOrEqual(t, s.EquityPeak, 10000.0)
		assert.GreaterOrEqual(t, s.WinRatio, 0.0)
		assert.LessOrEqual(t, s.WinRatio, 1.0)
		assert.InDelta(t, float64(wins)/float64(n), s.WinRatio, 1e-12)
		assert.LessOrEqual(t, s.MaxDrawdownPct, 0.0)
		assert.GreaterOrEqual(t, s.ExposureTime, 0.0)
		assert.LessOrEqual(t, s.ExposureTime, 1.0)
		assert.False(t, math.IsNaN(s.SQN) || math.IsInf(s.SQN, 0))
	}
}

func TestSortByExit_StableOnTies(t *testing.T) {
	trades := []account.Trade{
		trade(1, 0, 4, 1, 0),
		trade(2, 1, 2, 1, 0),
		trade(3, 0, 2, 1, 0),
	}

	sorted := SortByExit(trades)

	require.Len(t, sorted, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, 1, trades[0].ID, "Input must not be reordered")
}
