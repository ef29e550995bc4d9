package strategy

import (
	"github.com/jwtly10/tradestats/internal/types"
)

// IndicatorsReady calls .Ready() on all indicators and returns true if all are ready
func IndicatorsReady(indicators ...Indicator) bool {
	for _, ind := range indicators {
		if !ind.Ready() {
			return false
		}
	}
	return true
}

// OpenLong creates a market buy at the bar close with no exit levels
func OpenLong(bar types.Bar, size float64) types.Signal {
	return types.Signal{
		Type:   types.OPEN,
		Action: types.BUY,
		Price:  bar.Close,
		Size:   size,
	}
}

// OpenShort creates a market sell at the bar close with no exit levels
func OpenShort(bar types.Bar, size float64) types.Signal {
	return types.Signal{
		Type:   types.OPEN,
		Action: types.SELL,
		Price:  bar.Close,
		Size:   size,
	}
}

// CloseAll asks the engine to close every open position at the bar close
func CloseAll(bar types.Bar) types.Signal {
	return types.Signal{
		Type:  types.CLOSE,
		Price: bar.Close,
	}
}
