package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls how summaries are displayed
type OutputOptions struct {
	SortField string // "input" (first seen), "name", "total" or "count"
	SortDir   string // "asc" or "desc"
	Format    NumberFormat
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// PrintFullSummaryTable outputs the all-time statistics per organization
func PrintFullSummaryTable(w io.Writer, rows []FullSummary, latest *LatestWindow, opts OutputOptions) {
	fmt.Fprintln(w, text.Bold.Sprint("Descriptive statistics"))
	if len(rows) == 0 || latest == nil {
		fmt.Fprintf(w, "No transactions.\n\n")
		return
	}
	fmt.Fprintf(w, "Latest week: %d, latest month: %s\n", latest.Week, latest.Month)

	rows = sortRows(rows, opts,
		func(r FullSummary) string { return r.Organization },
		func(r FullSummary) float64 { return r.Total },
		func(r FullSummary) int { return r.Count })

	t := newTable(w)
	t.AppendHeader(table.Row{"Organization", "Total", "Average per transaction", "Last week average", "Last month average", "Transactions"})

	var total float64
	var count int
	for _, r := range rows {
		total += r.Total
		count += r.Count
		t.AppendRow(table.Row{
			r.Organization,
			opts.Format.Amount(r.Total),
			opts.Format.Amount(r.Average),
			windowCell(opts.Format, r.LastWeekAverage),
			windowCell(opts.Format, r.LastMonthAverage),
			opts.Format.Count(r.Count),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("Total"),
		text.Bold.Sprint(opts.Format.Amount(total)),
		text.Bold.Sprint(opts.Format.Amount(total / float64(count))),
		"", "",
		text.Bold.Sprint(opts.Format.Count(count)),
	})
	renderNumeric(t, 2, 3, 4, 5, 6)
	fmt.Fprintln(w)
}

// PrintRangeSummaryTable outputs the statistics per organization inside rng.
// A nil rng means no period could be determined.
func PrintRangeSummaryTable(w io.Writer, rows []RangeSummary, rng *DateRange, opts OutputOptions) {
	fmt.Fprintln(w, text.Bold.Sprint("Statistics for selected period"))
	if rng != nil {
		fmt.Fprintf(w, "Period: %s to %s\n", rng.Start, rng.End)
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "No transactions in period.\n\n")
		return
	}

	rows = sortRows(rows, opts,
		func(r RangeSummary) string { return r.Organization },
		func(r RangeSummary) float64 { return r.Total },
		func(r RangeSummary) int { return r.Count })

	t := newTable(w)
	t.AppendHeader(table.Row{"Organization", "Total", "Average per transaction", "Transactions"})

	var total float64
	var count int
	for _, r := range rows {
		total += r.Total
		count += r.Count
		t.AppendRow(table.Row{
			r.Organization,
			opts.Format.Amount(r.Total),
			opts.Format.Amount(r.Average),
			opts.Format.Count(r.Count),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("Total"),
		text.Bold.Sprint(opts.Format.Amount(total)),
		text.Bold.Sprint(opts.Format.Amount(total / float64(count))),
		text.Bold.Sprint(opts.Format.Count(count)),
	})
	renderNumeric(t, 2, 3, 4)
	fmt.Fprintln(w)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// renderNumeric right-aligns the given (1-based) columns and renders the table
func renderNumeric(t table.Writer, columns ...int) {
	var configs []table.ColumnConfig
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func windowCell(f NumberFormat, w WindowAverage) string {
	if !w.Valid {
		return text.FgHiBlack.Sprint(NotApplicable)
	}
	return f.Window(w)
}

// sortRows returns a sorted copy of rows. The default keeps first-seen order.
func sortRows[T any](rows []T, opts OutputOptions, name func(T) string, total func(T) float64, count func(T) int) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)

	var less func(a, b T) bool
	switch opts.SortField {
	case "name":
		less = func(a, b T) bool { return strings.ToLower(name(a)) < strings.ToLower(name(b)) }
	case "total":
		less = func(a, b T) bool { return total(a) < total(b) }
	case "count":
		less = func(a, b T) bool { return count(a) < count(b) }
	default: // "input"
		if opts.SortDir == "desc" {
			for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if opts.SortDir == "desc" {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}
