package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
	"github.com/jwtly10/tradestats/internal/stats"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	SeriesSheet  = "Series"
	TradesSheet  = "Trades"

	timeLayout = "2006-01-02 15:04:05"
)

// Report is what gets written for one finished run.
type Report struct {
	Summary stats.Summary
	Series  []*series.Series
	Trades  []account.Trade
}

var tradeHeader = []interface{}{
	"ID", "Direction", "Entry Time", "Exit Time", "Entry Price", "Exit Price",
	"Size", "PnL", "Profit Ratio", "Exit Reason",
}

// WriteExcel writes the report as a workbook with Summary, Series and Trades sheets.
func WriteExcel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SeriesSheet, TradesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, r.Summary); err != nil {
		return err
	}
	if err := writeSeriesSheet(f, r.Series); err != nil {
		return err
	}
	if err := writeTradesSheet(f, r.Trades); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s stats.Summary) error {
	if err := setRow(f, SummarySheet, 1, []interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	for i, row := range s.Rows() {
		if err := setRow(f, SummarySheet, i+2, []interface{}{row[0], row[1]}); err != nil {
			return err
		}
	}
	return nil
}

// writeSeriesSheet lays the series out as columns against the shared axis.
func writeSeriesSheet(f *excelize.File, all []*series.Series) error {
	times := axisTimes(all)

	header := []interface{}{"Time"}
	for _, s := range all {
		header = append(header, s.Name)
	}
	if err := setRow(f, SeriesSheet, 1, header); err != nil {
		return err
	}

	rows := len(times)
	for _, s := range all {
		rows = max(rows, s.Len())
	}
	for i := 0; i < rows; i++ {
		row := make([]interface{}, 0, len(all)+1)
		if i < len(times) {
			row = append(row, times[i].UTC().Format(timeLayout))
		} else {
			row = append(row, "")
		}
		for _, s := range all {
			if i < s.Len() {
				row = append(row, s.Values[i])
			} else {
				row = append(row, nil)
			}
		}
		if err := setRow(f, SeriesSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTradesSheet(f *excelize.File, trades []account.Trade) error {
	if err := setRow(f, TradesSheet, 1, tradeHeader); err != nil {
		return err
	}
	for i, t := range trades {
		row := []interface{}{
			t.ID, string(t.Direction),
			t.EntryTime.UTC().Format(timeLayout), t.ExitTime.UTC().Format(timeLayout),
			t.EntryPrice, t.ExitPrice, t.SignedSize(), t.PnL, t.ProfitRatio, t.ExitReason,
		}
		if err := setRow(f, TradesSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// axisTimes returns the timestamps of the first series that has an axis.
func axisTimes(all []*series.Series) []time.Time {
	for _, s := range all {
		if s.Axis() != nil {
			return s.Axis().Times()
		}
	}
	return nil
}
