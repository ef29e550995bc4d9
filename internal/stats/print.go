package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jwtly10/tradestats/internal/account"
	"github.com/olekukonko/tablewriter"
)

// Rows returns the summary as label/value pairs in report order.
func (s Summary) Rows() [][]string {
	return [][]string{
		{"Start", s.Start.Format("2006-01-02 15:04:05")},
		{"End", s.End.Format("2006-01-02 15:04:05")},
		{"Duration", formatDuration(s.Duration)},
		{"Exposure Time [%]", pct(s.ExposureTime)},
		{"Equity Final [$]", num(s.EquityFinal)},
		{"Equity Peak [$]", num(s.EquityPeak)},
		{"Return [%]", pct(s.ReturnFinal)},
		{"Buy & Hold Return [%]", pct(s.ReturnBuyAndHold)},
		{"Sharpe Ratio", num(s.Sharpe)},
		{"Sortino Ratio", num(s.Sortino)},
		{"Calmar Ratio", num(s.Calmar)},
		{"Max. Drawdown [$]", num(s.MaxDrawdown)},
		{"Max. Drawdown [%]", pct(s.MaxDrawdownPct)},
		{"Avg. Drawdown [%]", pct(s.AvgDrawdownPct)},
		{"Max. Drawdown Duration", formatDuration(s.MaxDrawdownDuration)},
		{"Avg. Drawdown Duration", formatDuration(s.AvgDrawdownDuration)},
		{"# Trades", strconv.Itoa(s.TradeCount)},
		{"Win Rate [%]", pct(s.WinRatio)},
		{"Best Trade [$]", num(s.BestTradeOnPnL)},
		{"Worst Trade [$]", num(s.WorstTradeOnPnL)},
		{"Best Trade [%]", pct(s.BestTrade)},
		{"Worst Trade [%]", pct(s.WorstTrade)},
		{"Avg. Trade [%]", pct(s.AvgTrade)},
		{"Max. Trade Duration", formatDuration(s.MaxTradeDuration)},
		{"Avg. Trade Duration", formatDuration(s.AvgTradeDuration)},
		{"Gross Profit [$]", num(s.GrossProfit)},
		{"Gross Loss [$]", num(s.GrossLoss)},
		{"Profit Factor", num(s.ProfitFactor)},
		{"Avg. Win [$]", num(s.AvgWin)},
		{"Avg. Loss [$]", num(s.AvgLoss)},
		{"Expectancy [$]", num(s.Expectancy)},
		{"SQN", num(s.SQN)},
	}
}

// Fprint writes the summary as a two column table.
func (s Summary) Fprint(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(s.Rows())
	table.Render()
}

func (s Summary) Print() {
	fmt.Println("\n=== Backtest Results ===")
	s.Fprint(os.Stdout)
}

// PrintTrades lists trades[from:to], clamped to the slice bounds.
func PrintTrades(trades []account.Trade, from, to int) {
	from = max(from, 0)
	to = min(to, len(trades))

	fmt.Println("\n=== Trade List ===")
	for i := from; i < to; i++ {
		trades[i].Print()
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64)
}

// formatDuration renders whole days as "N days" and anything shorter with
// time.Duration's own format.
func formatDuration(d time.Duration) string {
	day := 24 * time.Hour
	if d%day == 0 {
		return fmt.Sprintf("%d days", d/day)
	}
	return d.String()
}
