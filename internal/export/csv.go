package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/jwtly10/tradestats/internal/series"
)

// WriteTradesCSV writes one row per closed trade.
func WriteTradesCSV(w io.Writer, trades []account.Trade) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"id", "direction", "entry_time", "exit_time", "entry_price", "exit_price",
		"size", "pnl", "profit_ratio", "exit_reason",
	})
	for _, t := range trades {
		_ = cw.Write([]string{
			strconv.Itoa(t.ID), string(t.Direction),
			t.EntryTime.UTC().Format(time.RFC3339), t.ExitTime.UTC().Format(time.RFC3339),
			formatF(t.EntryPrice), formatF(t.ExitPrice), formatF(t.SignedSize()),
			formatF(t.PnL), formatF(t.ProfitRatio), t.ExitReason,
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write trades csv: %w", err)
	}
	return nil
}

// WriteSeriesCSV writes the series as columns keyed by axis time. Cells past
// the end of a shorter series are left empty.
func WriteSeriesCSV(w io.Writer, all []*series.Series) error {
	cw := csv.NewWriter(w)
	times := axisTimes(all)

	header := []string{"time"}
	for _, s := range all {
		header = append(header, s.Name)
	}
	_ = cw.Write(header)

	rows := len(times)
	for _, s := range all {
		rows = max(rows, s.Len())
	}
	for i := 0; i < rows; i++ {
		record := make([]string, 0, len(all)+1)
		if i < len(times) {
			record = append(record, times[i].UTC().Format(time.RFC3339))
		} else {
			record = append(record, "")
		}
		for _, s := range all {
			if i < s.Len() {
				record = append(record, formatF(s.Values[i]))
			} else {
				record = append(record, "")
			}
		}
		_ = cw.Write(record)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write series csv: %w", err)
	}
	return nil
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
