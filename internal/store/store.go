package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/stats"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrRunNotFound = errors.New("run not found")

const pointBatchSize = 500

// Store persists finished backtests.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Run{}, &TradeRecord{}, &SeriesPoint{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunInput is everything saved for one backtest.
type RunInput struct {
	Symbol      string
	Strategy    string
	BaseCapital float64
	Bars        int
	Summary     stats.Summary
	Trades      []account.Trade
	Series      []*series.Series
}

// SaveRun stores the run, its trades and every series value in one
// transaction and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, in RunInput) (string, error) {
	run := Run{
		ID:          uuid.NewString(),
		Symbol:      in.Symbol,
		Strategy:    in.Strategy,
		BaseCapital: in.BaseCapital,
		Bars:        in.Bars,
		Summary:     in.Summary,
	}
	for _, t := range in.Trades {
		run.Trades = append(run.Trades, TradeRecord{
			TradeID:     t.ID,
			Direction:   string(t.Direction),
			EntryTime:   t.EntryTime,
			ExitTime:    t.ExitTime,
			EntryPrice:  t.EntryPrice,
			ExitPrice:   t.ExitPrice,
			Size:        t.SignedSize(),
			PnL:         t.PnL,
			ProfitRatio: t.ProfitRatio,
			ExitReason:  t.ExitReason,
		})
	}

	var points []SeriesPoint
	for _, sr := range in.Series {
		axis := sr.Axis()
		for i, v := range sr.Values {
			p := SeriesPoint{RunID: run.ID, Series: sr.Name, Figure: sr.Figure, Idx: i, Value: v}
			if i < axis.Len() {
				p.Time = axis.At(i)
			}
			points = append(points, p)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		if len(points) > 0 {
			if err := tx.CreateInBatches(points, pointBatchSize).Error; err != nil {
				return fmt.Errorf("failed to save series: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("Saved run", "id", run.ID, "trades", len(run.Trades), "series_points", len(points))
	return run.ID, nil
}

// GetRun loads a run with its trades in exit order.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Trades", func(db *gorm.DB) *gorm.DB { return db.Order("exit_time, id") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first, without trades.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// SeriesValues returns the stored points of a named series in axis order.
func (s *Store) SeriesValues(ctx context.Context, runID, name string) ([]SeriesPoint, error) {
	var points []SeriesPoint
	err := s.db.WithContext(ctx).
		Where("run_id = ? AND series = ?", runID, name).
		Order("idx").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load series %s: %w", name, err)
	}
	return points, nil
}

// DeleteRun removes a run with its trades and series.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&SeriesPoint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", id).Delete(&TradeRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Run{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRunNotFound
		}
		return nil
	})
}
