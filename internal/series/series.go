package series

import (
	"github.com/jwtly10/tradestats/internal/account"
)

// Kind identifies a series in the registry.
type Kind string

const (
	Equity      Kind = "EQUITY"       // raw per-period equity samples
	Trade       Kind = "TRADE"        // per-bar trade profit ratio, percent
	EquityCurve Kind = "EQUITY_CURVE" // equity aligned to the axis
	Drawdown    Kind = "DRAWDOWN"     // drawdown from running peak, percent
)

// Series is a named, chart ready value sequence.
type Series struct {
	Kind   Kind
	Name   string
	Figure string // display group
	Sign   string // marker style hint for the renderer
	Values []float64

	// Trades is an opaque payload for renderers inspecting the series.
	Trades []account.Trade
	// Dropped counts events that had no exact match on the axis.
	Dropped int

	axis *Axis
}

func (s *Series) Axis() *Axis {
	return s.axis
}

func (s *Series) Append(v float64) {
	s.Values = append(s.Values, v)
}

// Reset sizes Values to the axis length with every value zeroed.
func (s *Series) Reset() {
	s.Values = make([]float64, s.axis.Len())
	s.Dropped = 0
}

// Len is the number of values, not the axis length.
func (s *Series) Len() int {
	return len(s.Values)
}

// Clone returns a deep copy sharing only the immutable axis.
func (s *Series) Clone() *Series {
	c := *s
	c.Values = append([]float64(nil), s.Values...)
	if s.Trades != nil {
		c.Trades = append([]account.Trade(nil), s.Trades...)
	}
	return &c
}
