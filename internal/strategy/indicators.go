package strategy

import (
	"github.com/jwtly10/tradestats/internal/logging"
)

var (
	emaLog = logging.New("ema")
	smaLog = logging.New("sma")
)

type Indicator interface {
	Update(price float64)
	Value() float64
	Ready() bool
}

// EMA - Exponential Moving Average, seeded with the first price
type EMA struct {
	period int
	value  float64
	alpha  float64
	init   bool
}

func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *EMA) Update(price float64) {
	if !e.init {
		e.value = price
		e.init = true
	} else {
		e.value += e.alpha * (price - e.value)
	}
	emaLog.Debug("EMA updated", "period", e.period, "price", price, "value", e.value)
}

func (e *EMA) Value() float64 {
	return e.value
}

func (e *EMA) Ready() bool {
	return e.init
}

// SMA - Simple Moving Average over a ring of the last period prices
type SMA struct {
	period int
	window []float64
	next   int
	count  int
	sum    float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		window: make([]float64, period),
	}
}

func (s *SMA) Update(price float64) {
	if s.count == s.period {
		s.sum -= s.window[s.next]
	} else {
		s.count++
	}
	s.window[s.next] = price
	s.sum += price
	s.next = (s.next + 1) % s.period
	smaLog.Debug("SMA updated", "period", s.period, "price", price, "value", s.Value(), "ready", s.Ready())
}

func (s *SMA) Value() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

func (s *SMA) Ready() bool {
	return s.count >= s.period
}
