package stats

import (
	"math"
	"time"
)

type equityPoint struct {
	at     time.Time
	equity float64
}

type drawdowns struct {
	maxAbs      float64
	maxPct      float64 // <= 0
	avgPct      float64 // <= 0
	maxDuration time.Duration
	avgDuration time.Duration
}

// computeDrawdowns walks the equity curve and collects every peak-to-recovery
// period. A period still open at the end lasts until end.
func computeDrawdowns(curve []equityPoint, end time.Time) drawdowns {
	var dd drawdowns
	if len(curve) == 0 {
		return dd
	}

	peak, peakAt := curve[0].equity, curve[0].at
	var inDrawdown bool
	var depth float64
	var depths []float64
	var durations []time.Duration

	closePeriod := func(at time.Time) {
		d := at.Sub(peakAt)
		if d < 0 {
			d = 0
		}
		depths = append(depths, depth)
		durations = append(durations, d)
		inDrawdown = false
		depth = 0
	}

	for _, p := range curve[1:] {
		if p.equity >= peak {
			if inDrawdown {
				closePeriod(p.at)
			}
			peak, peakAt = p.equity, p.at
			continue
		}

		inDrawdown = true
		abs := peak - p.equity
		dd.maxAbs = math.Max(dd.maxAbs, abs)

		var pct float64
		if peak > 0 {
			pct = -abs / peak
		}
		depth = math.Min(depth, pct)
		dd.maxPct = math.Min(dd.maxPct, pct)
	}
	if inDrawdown {
		closePeriod(end)
	}

	if len(depths) == 0 {
		return dd
	}
	dd.avgPct = mean(depths)
	var total time.Duration
	for _, d := range durations {
		total += d
		if d > dd.maxDuration {
			dd.maxDuration = d
		}
	}
	dd.avgDuration = total / time.Duration(len(durations))
	return dd
}

// sqn is sqrt(n) * mean / sample stddev of the trade PnLs. Returns 0 when the
// stddev is undefined or zero.
func sqn(pnls []float64) float64 {
	sd := sampleStddev(pnls)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(float64(len(pnls))) * mean(pnls) / sd
}

// sharpe is the per-trade Sharpe ratio of the profit ratios, no risk free rate.
func sharpe(ratios []float64) float64 {
	sd := sampleStddev(ratios)
	if sd == 0 {
		return 0
	}
	return mean(ratios) / sd
}

// sortino divides the mean profit ratio by the downside deviation, the root
// mean square of the negative ratios over all trades.
func sortino(ratios []float64) float64 {
	if len(ratios) == 0 {
		return 0
	}
	var sq float64
	for _, r := range ratios {
		if r < 0 {
			sq += r * r
		}
	}
	downside := math.Sqrt(sq / float64(len(ratios)))
	if downside == 0 {
		return 0
	}
	return mean(ratios) / downside
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev uses the n-1 denominator. Fewer than two values yield 0, as
// does a spread that is only float rounding noise.
func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	sd := math.Sqrt(sq / float64(len(values)-1))
	if math.IsNaN(sd) || sd <= 1e-12*math.Max(1, math.Abs(m)) {
		return 0
	}
	return sd
}
