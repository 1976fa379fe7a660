package internal

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report bundles both summaries computed from one dataset
type Report struct {
	ID      uuid.UUID      `json:"report_id"`
	Records int            `json:"records"`
	Span    *DateRange     `json:"span,omitempty"`
	Latest  *LatestWindow  `json:"latest,omitempty"`
	Full    []FullSummary  `json:"full_history"`
	Range   *DateRange     `json:"range,omitempty"`
	InRange []RangeSummary `json:"range_summary"`
}

// BuildReport runs the full-history and range summaries concurrently.
// Both only read records, so no coordination is needed beyond waiting.
// A nil range means there is no period to summarize and leaves InRange empty.
func BuildReport(ctx context.Context, records []Record, rng *DateRange) (*Report, error) {
	records = usableRecords(records)
	report := &Report{
		ID:      uuid.New(),
		Records: len(records),
		Range:   rng,
		InRange: []RangeSummary{},
	}
	if span, ok := ObservedSpan(records); ok {
		report.Span = &span
	}
	if latest, ok := LatestWindowOf(records); ok {
		report.Latest = &latest
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Full = SummarizeFullHistory(records)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rng == nil {
			return nil
		}
		rows, err := SummarizeRange(records, rng.Start, rng.End)
		if err != nil {
			return err
		}
		report.InRange = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
