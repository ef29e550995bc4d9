package store

import (
	"time"

	"github.com/jwtly10/tradestats/internal/stats"
)

// Run is one persisted backtest with its summary flattened into columns.
type Run struct {
	ID          string `gorm:"primaryKey;size:36"`
	CreatedAt   time.Time
	Symbol      string `gorm:"index"`
	Strategy    string
	BaseCapital float64
	Bars        int

	Summary stats.Summary `gorm:"embedded;embeddedPrefix:summary_"`

	Trades []TradeRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TradeRecord is a closed trade of a run.
type TradeRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index;size:36"`
	TradeID     int
	Direction   string
	EntryTime   time.Time
	ExitTime    time.Time
	EntryPrice  float64
	ExitPrice   float64
	Size        float64 // signed
	PnL         float64
	ProfitRatio float64
	ExitReason  string
}

// SeriesPoint is one value of a named series at an axis position.
type SeriesPoint struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"index:idx_run_series;size:36"`
	Series string `gorm:"index:idx_run_series"`
	Figure string
	Idx    int
	Time   time.Time
	Value  float64
}
