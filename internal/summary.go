package internal

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// ErrInvalidRange is returned when a range starts after it ends
var ErrInvalidRange = errors.New("invalid date range")

// orgGroup is the set of records belonging to one organization
type orgGroup struct {
	organization string
	records      []Record
}

// groupByOrganization partitions records in a single pass.
// Groups come back in the order their organization was first seen.
func groupByOrganization(records []Record) []orgGroup {
	index := make(map[string]int)
	var groups []orgGroup
	for _, r := range records {
		i, ok := index[r.Organization()]
		if !ok {
			i = len(groups)
			index[r.Organization()] = i
			groups = append(groups, orgGroup{organization: r.Organization()})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// usableRecords drops zero Records. The input is returned as-is when all are valid.
func usableRecords(records []Record) []Record {
	for i, r := range records {
		if !r.IsZero() {
			continue
		}
		kept := append([]Record(nil), records[:i]...)
		for _, r := range records[i+1:] {
			if !r.IsZero() {
				kept = append(kept, r)
			}
		}
		return kept
	}
	return records
}

// sumAmounts returns the total amount and number of records
func sumAmounts(records []Record) (float64, int) {
	total := 0.0
	for _, r := range records {
		total += r.Amount()
	}
	return total, len(records)
}

// windowAverage averages the records accepted by inWindow
func windowAverage(records []Record, inWindow func(Record) bool) WindowAverage {
	sum := 0.0
	n := 0
	for _, r := range records {
		if inWindow(r) {
			sum += r.Amount()
			n++
		}
	}
	if n == 0 {
		return WindowAverage{}
	}
	return WindowAverage{Value: sum / float64(n), Valid: true}
}

// LatestWindowOf returns the highest ISO week and month in the whole dataset.
// Returns false for an empty dataset.
func LatestWindowOf(records []Record) (LatestWindow, bool) {
	records = usableRecords(records)
	if len(records) == 0 {
		return LatestWindow{}, false
	}
	latest := LatestWindow{Week: records[0].ISOWeek(), Month: records[0].Month()}
	for _, r := range records[1:] {
		latest.Week = max(latest.Week, r.ISOWeek())
		latest.Month = max(latest.Month, r.Month())
	}
	return latest, true
}

// SummarizeFullHistory computes per-organization statistics over all records.
// The latest week and month are global to the dataset, so an organization with no
// transactions in them gets an invalid WindowAverage rather than zero.
func SummarizeFullHistory(records []Record) []FullSummary {
	records = usableRecords(records)
	summaries := []FullSummary{}
	latest, ok := LatestWindowOf(records)
	if !ok {
		return summaries
	}

	inLatestWeek := func(r Record) bool { return r.ISOWeek() == latest.Week }
	inLatestMonth := func(r Record) bool { return r.Month() == latest.Month }

	for _, g := range groupByOrganization(records) {
		total, count := sumAmounts(g.records)
		summaries = append(summaries, FullSummary{
			Organization:     g.organization,
			Total:            total,
			Average:          total / float64(count),
			LastWeekAverage:  windowAverage(g.records, inLatestWeek),
			LastMonthAverage: windowAverage(g.records, inLatestMonth),
			Count:            count,
		})
	}
	return summaries
}

// SummarizeRange computes per-organization statistics for records whose day falls
// within [start, end]. Organizations without records in range are left out.
func SummarizeRange(records []Record, start, end civil.Date) ([]RangeSummary, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start, end)
	}
	rng := DateRange{Start: start, End: end}

	var filtered []Record
	for _, r := range records {
		if !r.IsZero() && rng.Contains(r.Day()) {
			filtered = append(filtered, r)
		}
	}

	summaries := []RangeSummary{}
	for _, g := range groupByOrganization(filtered) {
		total, count := sumAmounts(g.records)
		summaries = append(summaries, RangeSummary{
			Organization: g.organization,
			Total:        total,
			Average:      total / float64(count),
			Count:        count,
		})
	}
	return summaries, nil
}

// ObservedSpan returns the first and last day present in records.
// This is the default range for SummarizeRange.
func ObservedSpan(records []Record) (DateRange, bool) {
	records = usableRecords(records)
	if len(records) == 0 {
		return DateRange{}, false
	}
	span := DateRange{Start: records[0].Day(), End: records[0].Day()}
	for _, r := range records[1:] {
		if r.Day().Before(span.Start) {
			span.Start = r.Day()
		}
		if r.Day().After(span.End) {
			span.End = r.Day()
		}
	}
	return span, true
}
