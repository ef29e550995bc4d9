package strategy

import (
	"fmt"
	"strings"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/logging"
	"github.com/jwtly10/tradestats/internal/types"
)

var crossLog = logging.New("macross")

// MAType selects the moving average a crossover is built on.
type MAType string

const (
	MATypeSMA MAType = "sma"
	MATypeEMA MAType = "ema"
)

func newAverage(maType MAType, period int) (Indicator, error) {
	switch maType {
	case MATypeSMA:
		return NewSMA(period), nil
	case MATypeEMA:
		return NewEMA(period), nil
	}
	return nil, fmt.Errorf("unknown moving average type %q", maType)
}

// MACross is always in the market once both averages are ready: long while
// the fast average is above the slow one, short (if allowed) while below.
type MACross struct {
	maType     MAType
	fast       Indicator
	slow       Indicator
	fastPeriod int
	slowPeriod int
	size       float64
	allowShort bool

	prevDiff float64
	primed   bool
}

func NewMACross(maType MAType, fastPeriod, slowPeriod int, size float64, allowShort bool) (*MACross, error) {
	fast, err := newAverage(maType, fastPeriod)
	if err != nil {
		return nil, err
	}
	slow, err := newAverage(maType, slowPeriod)
	if err != nil {
		return nil, err
	}
	return &MACross{
		maType:     maType,
		fast:       fast,
		slow:       slow,
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		size:       size,
		allowShort: allowShort,
	}, nil
}

func NewSmaCross(fastPeriod, slowPeriod int, size float64, allowShort bool) *MACross {
	s, _ := NewMACross(MATypeSMA, fastPeriod, slowPeriod, size, allowShort)
	return s
}

// Name is the label a run is stored under, e.g. "SmaCross(10,20)".
func (s *MACross) Name() string {
	kind := string(s.maType)
	return fmt.Sprintf("%s%sCross(%d,%d)", strings.ToUpper(kind[:1]), kind[1:], s.fastPeriod, s.slowPeriod)
}

func (s *MACross) OnBar(bars []types.Bar, currentIndex int, acc *account.Account) []types.Signal {
	bar := bars[currentIndex]
	s.fast.Update(bar.Close)
	s.slow.Update(bar.Close)

	if !IndicatorsReady(s.fast, s.slow) {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()
	defer func() { s.prevDiff, s.primed = diff, true }()

	if !s.primed {
		return nil
	}

	crossedUp := s.prevDiff <= 0 && diff > 0
	crossedDown := s.prevDiff >= 0 && diff < 0

	switch {
	case crossedUp:
		crossLog.Debug("Fast average crossed above slow", "type", s.maType, "timestamp", bar.Timestamp, "fast", s.fast.Value(), "slow", s.slow.Value())
		return s.flip(bar, acc, OpenLong(bar, s.size))
	case crossedDown:
		crossLog.Debug("Fast average crossed below slow", "type", s.maType, "timestamp", bar.Timestamp, "fast", s.fast.Value(), "slow", s.slow.Value())
		if !s.allowShort {
			if acc.PositionCount() > 0 {
				return []types.Signal{CloseAll(bar)}
			}
			return nil
		}
		return s.flip(bar, acc, OpenShort(bar, s.size))
	}
	return nil
}

func (s *MACross) flip(bar types.Bar, acc *account.Account, open types.Signal) []types.Signal {
	if acc.PositionCount() > 0 {
		return []types.Signal{CloseAll(bar), open}
	}
	return []types.Signal{open}
}
