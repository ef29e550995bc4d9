package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwtly10/tradestats/internal/backtest"
	"github.com/jwtly10/tradestats/internal/config"
	"github.com/jwtly10/tradestats/internal/export"
	"github.com/jwtly10/tradestats/internal/feed"
	"github.com/jwtly10/tradestats/internal/logging"
	"github.com/jwtly10/tradestats/internal/presenter"
	"github.com/jwtly10/tradestats/internal/store"
	"github.com/jwtly10/tradestats/internal/strategy"
)

func main() {
	var (
		listRuns   int
		showRun    string
		seriesName string
		deleteRun  string
	)
	flag.IntVar(&listRuns, "runs", 0, "list the N most recent stored runs and exit")
	flag.StringVar(&showRun, "run", "", "print a stored run by id and exit")
	flag.StringVar(&seriesName, "series", "", "with -run: print this stored series (e.g. PNL, equity)")
	flag.StringVar(&deleteRun, "delete", "", "delete a stored run by id and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Configure(cfg.Logging.Topics)

	switch {
	case listRuns > 0 || showRun != "" || deleteRun != "":
		err = manageRuns(cfg, listRuns, showRun, seriesName, deleteRun)
	default:
		err = run(cfg)
	}
	if err != nil {
		slog.Error("tradestats failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	bars, err := feed.LoadCSV(cfg.Backtest.DataFile)
	if err != nil {
		return fmt.Errorf("failed to initialise bar data: %w", err)
	}

	bt := cfg.Backtest
	strat, err := strategy.NewMACross(strategy.MAType(bt.MAType), bt.FastPeriod, bt.SlowPeriod, bt.Size, bt.AllowShort)
	if err != nil {
		return err
	}
	engine := backtest.NewEngine(bars, bt.InitialBalance, cfg.Stats.DurationUnit)
	results := engine.Run(strat)

	summary := results.Summary()
	summary.Print()

	fmt.Println()
	results.PrintTradesBetween(len(results.Trades)-5, len(results.Trades))

	prefix := fmt.Sprintf("%s_%s", strings.ToLower(bt.Symbol), time.Now().Format("20060102_150405"))

	if cfg.Database.Enabled {
		if err := saveRun(cfg, strat.Name(), len(bars), results); err != nil {
			return err
		}
	}

	if cfg.Export.Excel || cfg.Export.CSV || cfg.Export.Pine {
		report := export.Report{Summary: summary, Series: results.Stats().Series(), Trades: results.Trades}
		formats := export.Formats{Excel: cfg.Export.Excel, CSV: cfg.Export.CSV, Pine: cfg.Export.Pine}
		paths, err := export.WriteFiles(cfg.Export.Dir, prefix, report, formats)
		if err != nil {
			return err
		}
		slog.Info("Exported results", "files", paths)
	}

	if !cfg.Server.Enabled {
		return nil
	}

	view, err := presenter.NewView(results.Stats())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	return presenter.Serve(ctx, addr, presenter.NewHandler(view, logger).Routes(), logger)
}

func saveRun(cfg config.Config, strategyName string, bars int, results *backtest.Results) error {
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(context.Background(), store.RunInput{
		Symbol:      cfg.Backtest.Symbol,
		Strategy:    strategyName,
		BaseCapital: cfg.Backtest.InitialBalance,
		Bars:        bars,
		Summary:     results.Summary(),
		Trades:      results.Trades,
		Series:      results.Stats().Series(),
	})
	if err != nil {
		return err
	}
	slog.Info("Run stored", "id", id, "dsn", cfg.Database.DSN)
	return nil
}

// manageRuns serves the stored-run flags against database.dsn.
func manageRuns(cfg config.Config, limit int, id, seriesName, deleteID string) error {
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	switch {
	case deleteID != "":
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			return fmt.Errorf("failed to delete run %s: %w", deleteID, err)
		}
		slog.Info("Run deleted", "id", deleteID)
	case id != "":
		r, err := db.GetRun(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s: %s on %s, %d bars\n", r.ID, r.Strategy, r.Symbol, r.Bars)
		r.Summary.Print()
		if seriesName != "" {
			points, err := db.SeriesValues(ctx, id, seriesName)
			if err != nil {
				return err
			}
			fmt.Printf("\n=== Series %s ===\n", seriesName)
			store.FprintSeries(os.Stdout, points)
		}
	default:
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		store.FprintRuns(os.Stdout, runs)
	}
	return nil
}
