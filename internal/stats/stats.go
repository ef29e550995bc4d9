package stats

import (
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/logging"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/types"
)

const DefaultBaseCapital = 10000.0

var (
	statsLog   = logging.New("stats")
	samplerLog = logging.New("sampler")
	seriesLog  = logging.New("series")
)

// Broker is the read-only view of the simulated broker the engine needs.
type Broker interface {
	CurrentEquity() float64
	ClosedTrades() []account.Trade
	FirstAndLastBar() (first, last types.Bar, ok bool)
}

// Data creates and owns the series the engine writes to.
type Data interface {
	CreateSeries(kind series.Kind) *series.Series
	Axis() *series.Axis
}

type Config struct {
	BaseCapital  float64
	DurationUnit time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseCapital:  DefaultBaseCapital,
		DurationUnit: 24 * time.Hour,
	}
}

// Stats is the statistics engine of one backtest. It samples equity while the
// simulation runs and produces the summary and chart series once it is done.
// Not safe for concurrent use; run one Stats per backtest.
type Stats struct {
	broker Broker
	data   Data
	cfg    Config

	equity  *series.Series
	samples []EquitySample

	summary   *Summary
	generated []*series.Series
	trades    []account.Trade
}

func New(broker Broker, data Data, cfg Config) *Stats {
	return &Stats{
		broker: broker,
		data:   data,
		cfg:    cfg,
	}
}

// OnFinish computes the summary and generates the trade, equity and drawdown
// series. Later calls return the first result unchanged.
func (s *Stats) OnFinish() Summary {
	if s.summary != nil {
		return *s.summary
	}

	trades := s.broker.ClosedTrades()
	first, last, ok := s.broker.FirstAndLastBar()
	if !ok {
		statsLog.Warn("Broker saw no bars, summary will be empty")
	}

	summary := ComputeSummary(trades, first, last, Options{
		BaseCapital:  s.cfg.BaseCapital,
		DurationUnit: s.cfg.DurationUnit,
		Axis:         s.data.Axis(),
	})
	s.summary = &summary
	s.trades = SortByExit(trades)

	tradeSeries := GenerateTradeSeries(s.data, trades)
	equityCurve := GenerateEquitySeries(s.data, s.samples)
	drawdown := GenerateDrawdownSeries(s.data, equityCurve)
	s.generated = []*series.Series{tradeSeries, equityCurve, drawdown}

	return summary
}

// Summary returns the computed summary. ok is false before OnFinish.
func (s *Stats) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// Series returns the sampled equity series followed by the generated series.
func (s *Stats) Series() []*series.Series {
	var out []*series.Series
	if s.equity != nil {
		out = append(out, s.equity)
	}
	return append(out, s.generated...)
}

// Trades returns the closed trades in aggregation order. Empty before OnFinish.
func (s *Stats) Trades() []account.Trade {
	return append([]account.Trade(nil), s.trades...)
}

func (s *Stats) Finished() bool {
	return s.summary != nil
}
