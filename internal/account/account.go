package account

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jwtly10/tradestats/internal/logging"
	"github.com/jwtly10/tradestats/internal/types"
)

const (
	LONG  Direction = "LONG"
	SHORT Direction = "SHORT"

	ReasonStopLoss   = "STOP_LOSS"
	ReasonTakeProfit = "TAKE_PROFIT"
	ReasonSignal     = "SIGNAL"
	ReasonEndOfTest  = "END_OF_BACKTEST"
)

var accLog = logging.New("account")

type Direction string

// Account is the simulated broker. It owns open positions, the closed trade
// list and the bar range it has been marked against.
type Account struct {
	Balance        float64
	openPositions  []*Position
	closedTrades   []Trade
	nextPositionID int

	firstBar *types.Bar
	lastBar  *types.Bar
}

type Position struct {
	ID         int
	OpenTime   time.Time
	Direction  Direction
	EntryPrice float64
	Size       float64
	StopLoss   float64
	TakeProfit float64
}

// Unrealized returns the position PnL if it were closed at price.
func (p *Position) Unrealized(price float64) float64 {
	if p.Direction == LONG {
		return (price - p.EntryPrice) * p.Size
	}
	return (p.EntryPrice - price) * p.Size
}

// Trade is one completed round trip. Immutable once closed.
type Trade struct {
	ID          int
	EntryTime   time.Time
	ExitTime    time.Time
	Direction   Direction
	EntryPrice  float64
	ExitPrice   float64
	Size        float64
	StopLoss    float64
	TakeProfit  float64
	PnL         float64
	ProfitRatio float64 // PnL / entry notional
	ExitReason  string
}

// SignedSize is positive for longs and negative for shorts.
func (t Trade) SignedSize() float64 {
	if t.Direction == SHORT {
		return -math.Abs(t.Size)
	}
	return math.Abs(t.Size)
}

func (t Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

func (t Trade) Print() {
	fmt.Printf("#%d | %s | Entry: %.5f @ %s | Exit: %.5f @ %s | P&L: %.2f (%.2f%%) | %s\n",
		t.ID,
		t.Direction,
		t.EntryPrice,
		t.EntryTime.Format("2006-01-02 15:04"),
		t.ExitPrice,
		t.ExitTime.Format("2006-01-02 15:04"),
		t.PnL,
		t.ProfitRatio*100,
		t.ExitReason,
	)
}

// ProfitRatio normalises pnl by the entry notional. A zero notional yields 0.
func ProfitRatio(pnl, entryPrice, size float64) float64 {
	notional := math.Abs(entryPrice * size)
	if notional == 0 {
		return 0
	}
	return pnl / notional
}

func NewAccount(initialBalance float64) *Account {
	return &Account{
		Balance:        initialBalance,
		openPositions:  []*Position{},
		closedTrades:   []Trade{},
		nextPositionID: 1,
	}
}

// MarkBar records bar as the latest market state. The first bar marked is
// remembered as the start of the range.
func (a *Account) MarkBar(bar types.Bar) {
	b := bar
	if a.firstBar == nil {
		a.firstBar = &b
	}
	a.lastBar = &b
}

func (a *Account) OpenTrade(signal types.Signal, timestamp time.Time) *Position {
	slog.Info("Opening trade", "action", signal.Action, "id", a.nextPositionID, "price", signal.Price, "size", signal.Size, "tp", signal.TP, "sl", signal.SL, "timestamp", timestamp)

	var dir Direction
	switch signal.Action {
	case types.BUY:
		dir = LONG
	case types.SELL:
		dir = SHORT
	}

	pos := &Position{
		ID:         a.nextPositionID,
		OpenTime:   timestamp,
		Direction:  dir,
		EntryPrice: signal.Price,
		Size:       signal.Size,
		StopLoss:   signal.SL,
		TakeProfit: signal.TP,
	}

	a.nextPositionID++
	a.openPositions = append(a.openPositions, pos)

	return pos
}

// CheckExits marks the bar and checks all open positions against it for stop
// loss or take profit hits. A zero level is disabled. When both levels fall
// inside the same bar the stop loss wins.
func (a *Account) CheckExits(bar types.Bar) []Trade {
	a.MarkBar(bar)

	var closedTrades []Trade
	remainingPositions := []*Position{}

	for _, pos := range a.openPositions {
		exitPrice, reason, hit := exitLevel(pos, bar)
		if !hit {
			remainingPositions = append(remainingPositions, pos)
			continue
		}
		accLog.Debug("Exit level hit", "position_id", pos.ID, "reason", reason, "price", exitPrice, "timestamp", bar.Timestamp)
		closedTrades = append(closedTrades, a.closePosition(pos, exitPrice, bar.Timestamp, reason))
	}

	a.openPositions = remainingPositions
	return closedTrades
}

func exitLevel(pos *Position, bar types.Bar) (float64, string, bool) {
	if pos.Direction == LONG {
		if pos.StopLoss != 0 && bar.Low <= pos.StopLoss {
			return pos.StopLoss, ReasonStopLoss, true
		}
		if pos.TakeProfit != 0 && bar.High >= pos.TakeProfit {
			return pos.TakeProfit, ReasonTakeProfit, true
		}
		return 0, "", false
	}

	if pos.StopLoss != 0 && bar.High >= pos.StopLoss {
		return pos.StopLoss, ReasonStopLoss, true
	}
	if pos.TakeProfit != 0 && bar.Low <= pos.TakeProfit {
		return pos.TakeProfit, ReasonTakeProfit, true
	}
	return 0, "", false
}

func (a *Account) closePosition(pos *Position, exitPrice float64, exitTime time.Time, reason string) Trade {
	pnl := pos.Unrealized(exitPrice)
	accLog.Debug("Calculated PnL", "direction", pos.Direction, "exit_price", exitPrice, "entry_price", pos.EntryPrice, "size", pos.Size, "pnl", pnl)

	a.Balance += pnl

	slog.Info("Closed position", "id", pos.ID, "exit_price", exitPrice, "pnl", pnl, "reason", reason, "timestamp", exitTime)

	trade := Trade{
		ID:          pos.ID,
		EntryTime:   pos.OpenTime,
		ExitTime:    exitTime,
		Direction:   pos.Direction,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		Size:        pos.Size,
		StopLoss:    pos.StopLoss,
		TakeProfit:  pos.TakeProfit,
		PnL:         pnl,
		ProfitRatio: ProfitRatio(pnl, pos.EntryPrice, pos.Size),
		ExitReason:  reason,
	}
	a.closedTrades = append(a.closedTrades, trade)
	return trade
}

// CloseAll closes every open position at the bar close.
func (a *Account) CloseAll(bar types.Bar, reason string) []Trade {
	var trades []Trade

	for _, pos := range a.openPositions {
		trades = append(trades, a.closePosition(pos, bar.Close, bar.Timestamp, reason))
	}

	a.openPositions = []*Position{}
	return trades
}

// CurrentEquity is cash plus open positions marked at the latest bar close.
func (a *Account) CurrentEquity() float64 {
	equity := a.Balance
	if a.lastBar == nil {
		return equity
	}
	for _, pos := range a.openPositions {
		equity += pos.Unrealized(a.lastBar.Close)
	}
	return equity
}

// ClosedTrades returns a copy of the trades closed so far, in close order.
func (a *Account) ClosedTrades() []Trade {
	out := make([]Trade, len(a.closedTrades))
	copy(out, a.closedTrades)
	return out
}

// FirstAndLastBar returns the bar range seen by the account. ok is false
// before any bar was marked.
func (a *Account) FirstAndLastBar() (first, last types.Bar, ok bool) {
	if a.firstBar == nil {
		return types.Bar{}, types.Bar{}, false
	}
	return *a.firstBar, *a.lastBar, true
}

func (a *Account) OpenPositions() []*Position {
	return a.openPositions
}

func (a *Account) PositionCount() int {
	return len(a.openPositions)
}
