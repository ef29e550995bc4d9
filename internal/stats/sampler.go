package stats

import (
	"log/slog"
	"time"

	"github.com/jwtly10/tradestats/internal/series"
)

// EquitySample is the total equity recorded at the end of one period.
type EquitySample struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// RecordSample appends the broker's current equity for the period ending at.
// It must be called once per period after the period's trading is final.
// Samples older than the last one are rejected, as are samples after OnFinish.
func (s *Stats) RecordSample(at time.Time) {
	if s.summary != nil {
		slog.Warn("Equity sample after finish ignored", "time", at)
		return
	}
	if n := len(s.samples); n > 0 && at.Before(s.samples[n-1].Time) {
		slog.Warn("Out of order equity sample ignored", "time", at, "last", s.samples[n-1].Time)
		return
	}

	if s.equity == nil {
		s.equity = s.data.CreateSeries(series.Equity)
		s.equity.Figure = "Equity"
		s.equity.Name = "cash"
	}

	equity := s.broker.CurrentEquity()
	s.equity.Append(equity)
	s.samples = append(s.samples, EquitySample{Time: at, Equity: equity})

	samplerLog.Debug("Recorded equity", "time", at, "equity", equity)
}

// Samples returns a copy of the recorded equity samples.
func (s *Stats) Samples() []EquitySample {
	return append([]EquitySample(nil), s.samples...)
}
