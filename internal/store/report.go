package store

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

const createdLayout = "2006-01-02 15:04:05"

// FprintRuns writes stored runs as a table, one row per run.
func FprintRuns(w io.Writer, runs []Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Created", "Symbol", "Strategy", "Trades", "Return [%]", "Equity Final [$]"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.CreatedAt.Local().Format(createdLayout),
			r.Symbol,
			r.Strategy,
			strconv.Itoa(r.Summary.TradeCount),
			strconv.FormatFloat(r.Summary.ReturnFinal*100, 'f', 2, 64),
			strconv.FormatFloat(r.Summary.EquityFinal, 'f', 2, 64),
		})
	}
	table.Render()
}

// FprintSeries writes the stored points of one series.
func FprintSeries(w io.Writer, points []SeriesPoint) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Time", "Value"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range points {
		table.Append([]string{
			strconv.Itoa(p.Idx),
			p.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		})
	}
	table.Render()
}
