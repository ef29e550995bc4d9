package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	equity      float64
	trades      []account.Trade
	first, last types.Bar
	hasBars     bool
}

func (b *fakeBroker) CurrentEquity() float64        { return b.equity }
func (b *fakeBroker) ClosedTrades() []account.Trade { return b.trades }
func (b *fakeBroker) FirstAndLastBar() (types.Bar, types.Bar, bool) {
	return b.first, b.last, b.hasBars
}

func newEngine(n int) (*Stats, *fakeBroker, *series.Registry) {
	bars := dailyBars(n)
	broker := &fakeBroker{equity: 10000, first: bars[0], last: bars[n-1], hasBars: true}
	reg := registry(n)
	return New(broker, reg, DefaultConfig()), broker, reg
}

func TestStats_RecordSampleCreatesEquitySeriesOnce(t *testing.T) {
	engine, broker, reg := newEngine(3)

	engine.RecordSample(dayAt(0))
	first, ok := reg.Series(series.Equity)
	require.True(t, ok)

	broker.equity = 10250
	engine.RecordSample(dayAt(1))
	second, _ := reg.Series(series.Equity)

	assert.Same(t, first, second, "Equity series is created on the first sample only")
	assert.Equal(t, "Equity", first.Figure)
	assert.Equal(t, "cash", first.Name)
	assert.Equal(t, []float64{10000, 10250}, first.Values)
	assert.Equal(t, []EquitySample{{dayAt(0), 10000}, {dayAt(1), 10250}}, engine.Samples())
}

func TestStats_RecordSampleRejectsOutOfOrder(t *testing.T) {
	engine, _, _ := newEngine(3)

	engine.RecordSample(dayAt(1))
	engine.RecordSample(dayAt(0))
	engine.RecordSample(dayAt(1))

	assert.Len(t, engine.Samples(), 2)
}

func TestStats_OnFinish(t *testing.T) {
	engine, broker, reg := newEngine(10)
	broker.trades = scenarioTrades()

	for i := 0; i < 10; i++ {
		if i == 3 {
			broker.equity = 10500
		}
		engine.RecordSample(dayAt(i))
	}

	_, ok := engine.Summary()
	assert.False(t, ok)
	assert.False(t, engine.Finished())

	summary := engine.OnFinish()

	got, ok := engine.Summary()
	require.True(t, ok)
	assert.Equal(t, summary, got)
	assert.InDelta(t, 10600.0, summary.EquityFinal, 1e-9)
	assert.InDelta(t, 0.9, summary.ExposureTime, 1e-12)

	all := engine.Series()
	require.Len(t, all, 4)
	assert.Equal(t, series.Equity, all[0].Kind)
	assert.Equal(t, series.Trade, all[1].Kind)
	assert.Equal(t, series.EquityCurve, all[2].Kind)
	assert.Equal(t, series.Drawdown, all[3].Kind)
	for _, s := range reg.All() {
		assert.Len(t, s.Values, 10, "series %s", s.Kind)
	}

	curve, _ := reg.Series(series.EquityCurve)
	assert.Equal(t, 10000.0, curve.Values[2])
	assert.Equal(t, 10500.0, curve.Values[3])

	assert.Len(t, engine.Trades(), 3)

	// Finished engine is a snapshot
	broker.trades = nil
	engine.RecordSample(dayAt(10))
	assert.Equal(t, summary, engine.OnFinish())
	assert.Len(t, engine.Samples(), 10)
}

func TestStats_OnFinishWithoutBars(t *testing.T) {
	reg := series.NewRegistry(series.NewAxis(nil))
	engine := New(&fakeBroker{equity: 10000}, reg, DefaultConfig())

	summary := engine.OnFinish()

	assert.Equal(t, 0, summary.TradeCount)
	assert.Equal(t, DefaultBaseCapital, summary.EquityFinal)
	for _, s := range engine.Series() {
		assert.Empty(t, s.Values)
	}
}

func TestSummary_Fprint(t *testing.T) {
	bars := dailyBars(10)
	s := ComputeSummary(scenarioTrades(), bars[0], bars[9], options(bars))

	var buf bytes.Buffer
	s.Fprint(&buf)
	out := buf.String()

	assert.Contains(t, out, "Equity Final [$]")
	assert.Contains(t, out, "10600.00")
	assert.Contains(t, out, "66.67")
	assert.Contains(t, out, "9 days")
	assert.Contains(t, out, "SQN")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "3 days", formatDuration(3*day))
	assert.Equal(t, "0 days", formatDuration(0))
	assert.Equal(t, "1h30m0s", formatDuration(90*time.Minute))
}
