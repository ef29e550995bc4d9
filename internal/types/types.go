package types

import "time"

const (
	BUY  Action = "BUY"
	SELL Action = "SELL"

	OPEN  Type = "OPEN_TRADE"
	CLOSE Type = "CLOSE_TRADE"
)

// Bar is one sampling interval of market data. Bars are produced once by the
// data source and never modified afterwards.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

type Action string
type Type string

type Signal struct {
	Type   Type   // OPEN_TRADE, CLOSE_TRADE
	Action Action // "BUY", "SELL"
	Price  float64
	TP     float64 // 0 disables
	SL     float64 // 0 disables
	Size   float64 // Units
}

// Timestamps returns the bar timestamps in order, the reference time axis
// for charting.
func Timestamps(bars []Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}
	return out
}
