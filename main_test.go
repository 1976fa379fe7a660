package main

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gigurra/org-transfer-summary/internal"
)

func mustRecord(t *testing.T, org, date string) internal.Record {
	t.Helper()
	ts, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	r, err := internal.NewRecord(org, ts, 1)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestResolveRange(t *testing.T) {
	records := []internal.Record{
		mustRecord(t, "OrgA", "2024-01-03"),
		mustRecord(t, "OrgB", "2024-01-10"),
	}

	tests := []struct {
		name       string
		records    []internal.Record
		from, to   string
		wantNil    bool
		start, end string
	}{
		{"observed span", records, "", "", false, "2024-01-03", "2024-01-10"},
		{"only from", records, "2024-01-05", "", false, "2024-01-05", "2024-01-10"},
		{"only to", records, "", "2024-01-05", false, "2024-01-03", "2024-01-05"},
		{"no data and no bounds", nil, "", "", true, "", ""},
		{"no data with from", nil, "2024-02-01", "", false, "2024-02-01", "2024-02-01"},
		{"no data with to", nil, "", "2024-02-01", false, "2024-02-01", "2024-02-01"},
		{"only zero records", []internal.Record{{}}, "", "", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := resolveRange(tt.records, tt.from, tt.to)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if rng != nil {
					t.Errorf("expected no range, got %s..%s", rng.Start, rng.End)
				}
				return
			}
			if rng == nil {
				t.Fatal("expected a range")
			}
			start, _ := civil.ParseDate(tt.start)
			end, _ := civil.ParseDate(tt.end)
			if rng.Start != start || rng.End != end {
				t.Errorf("got %s..%s, want %s..%s", rng.Start, rng.End, start, end)
			}
		})
	}
}

func TestResolveRange_Errors(t *testing.T) {
	if _, err := resolveRange(nil, "2024-02-10", "2024-02-01"); !errors.Is(err, internal.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := resolveRange(nil, "yesterday", ""); err == nil {
		t.Error("expected error for an unparseable date")
	}
}
