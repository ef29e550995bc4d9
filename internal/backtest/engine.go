package backtest

import (
	"log/slog"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/stats"
	"github.com/jwtly10/tradestats/internal/types"
)

type Engine struct {
	Bars           []types.Bar
	initialBalance float64
	durationUnit   time.Duration
}

func NewEngine(bars []types.Bar, initialBalance float64, durationUnit time.Duration) *Engine {
	return &Engine{
		Bars:           bars,
		initialBalance: initialBalance,
		durationUnit:   durationUnit,
	}
}

type Strategy interface {
	OnBar(bars []types.Bar, currentIndex int, account *account.Account) []types.Signal
}

// Run simulates the strategy over every bar and returns the finished results.
// Equity is sampled once per bar after that bar's exits and signals.
func (e *Engine) Run(strategy Strategy) *Results {
	acc := account.NewAccount(e.initialBalance)
	registry := series.NewRegistry(series.NewAxis(types.Timestamps(e.Bars)))
	engine := stats.New(acc, registry, stats.Config{
		BaseCapital:  e.initialBalance,
		DurationUnit: e.durationUnit,
	})

	slog.Debug("Starting backtest", "initial_balance", e.initialBalance, "total_bars", len(e.Bars))

	for i, bar := range e.Bars {
		acc.CheckExits(bar)

		signals := strategy.OnBar(e.Bars, i, acc)

		for _, signal := range signals {
			switch signal.Type {
			case types.OPEN:
				acc.OpenTrade(signal, bar.Timestamp)
			case types.CLOSE:
				acc.CloseAll(bar, account.ReasonSignal)
			}
		}

		if i == len(e.Bars)-1 {
			// Close anything at the end
			acc.CloseAll(bar, account.ReasonEndOfTest)
		}

		engine.RecordSample(bar.Timestamp)
	}

	summary := engine.OnFinish()

	slog.Info("Backtest finished", "bars", len(e.Bars), "trades", summary.TradeCount, "equity_final", summary.EquityFinal)

	return &Results{
		InitialBalance: e.initialBalance,
		FinalBalance:   acc.Balance,
		Trades:         engine.Trades(),
		Bars:           e.Bars,
		stats:          engine,
		registry:       registry,
	}
}
