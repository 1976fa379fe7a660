package internal

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(t *testing.T, org, timestamp string, amount float64) Record {
	t.Helper()
	r, err := NewRecord(org, ts(timestamp), amount)
	if err != nil {
		t.Fatalf("NewRecord(%q, %q): %v", org, timestamp, err)
	}
	return r
}

func TestNewRecord_DerivedFields(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		wantDay   string
		wantWeek  int
		wantMonth time.Month
	}{
		{"first monday of 2024", "2024-01-01T00:00", "2024-01-01", 1, time.January},
		{"week 2 of 2024", "2024-01-10T10:00", "2024-01-10", 2, time.January},
		{"late evening keeps the day", "2024-01-14T23:59", "2024-01-14", 2, time.January},
		{"jan 1st belonging to previous iso year", "2021-01-01T12:00", "2021-01-01", 53, time.January},
		{"dec 30th belonging to next iso year", "2024-12-30T08:00", "2024-12-30", 1, time.December},
		{"thursday jan 1st is week 1", "2026-01-01T09:00", "2026-01-01", 1, time.January},
		{"sunday ends the week", "2024-01-07T18:00", "2024-01-07", 1, time.January},
		{"monday starts the next week", "2024-01-08T06:00", "2024-01-08", 2, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec(t, "Org", tt.timestamp, 1)
			if r.Day() != day(tt.wantDay) {
				t.Errorf("Day() = %s, want %s", r.Day(), tt.wantDay)
			}
			if r.ISOWeek() != tt.wantWeek {
				t.Errorf("ISOWeek() = %d, want %d", r.ISOWeek(), tt.wantWeek)
			}
			if r.Month() != tt.wantMonth {
				t.Errorf("Month() = %s, want %s", r.Month(), tt.wantMonth)
			}
		})
	}
}

func TestNewRecord_Validation(t *testing.T) {
	tests := []struct {
		name      string
		org       string
		timestamp time.Time
		wantErr   error
	}{
		{"valid", "OrgA", ts("2024-01-03T10:00"), nil},
		{"empty organization", "", ts("2024-01-03T10:00"), ErrEmptyOrganization},
		{"blank organization", "  \t ", ts("2024-01-03T10:00"), ErrEmptyOrganization},
		{"zero timestamp", "OrgA", time.Time{}, ErrMalformedTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.org, tt.timestamp, 10)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRecord_KeepsAmountAndTrimsOrganization(t *testing.T) {
	for _, amount := range []float64{0, -12.5, 1e9} {
		r, err := NewRecord("  Acme S.A. ", ts("2024-03-01T12:00"), amount)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Amount() != amount {
			t.Errorf("Amount() = %v, want %v", r.Amount(), amount)
		}
		if r.Organization() != "Acme S.A." {
			t.Errorf("Organization() = %q, want %q", r.Organization(), "Acme S.A.")
		}
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string // expected timestamp in 2006-01-02T15:04
		wantErr bool
	}{
		{"export format pm", "10/01/2024 03:30PM", "2024-01-10T15:30", false},
		{"export format lowercase am", "03/01/2024 10:00am", "2024-01-03T10:00", false},
		{"export format single digits", "3/1/2024 9:05AM", "2024-01-03T09:05", false},
		{"export format with space before pm", "10/01/2024 03:30 PM", "2024-01-10T15:30", false},
		{"iso minutes", "2024-01-10T10:00", "2024-01-10T10:00", false},
		{"iso with zone", "2024-01-10T10:00:00Z", "2024-01-10T10:00", false},
		{"date only", "2024-01-10", "2024-01-10T00:00", false},
		{"garbage", "yesterday", "", true},
		{"empty", "", "", true},
		{"impossible date", "31/02/2024 10:00AM", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecord("Org", tt.raw, 1, DefaultTimestampLayouts...)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTimestamp) {
					t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := r.Timestamp().Format("2006-01-02T15:04"); got != tt.want {
				t.Errorf("Timestamp() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecord_WithOrganization(t *testing.T) {
	r := rec(t, "Acme SA", "2024-01-10T10:00", 42)

	renamed, err := r.WithOrganization("Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Organization() != "Acme" {
		t.Errorf("Organization() = %q, want Acme", renamed.Organization())
	}
	if renamed.Amount() != 42 || renamed.ISOWeek() != 2 || renamed.Day() != day("2024-01-10") {
		t.Errorf("renamed record lost its fields: %+v", renamed)
	}
	if r.Organization() != "Acme SA" {
		t.Errorf("original record was modified")
	}

	if _, err := r.WithOrganization(" "); !errors.Is(err, ErrEmptyOrganization) {
		t.Errorf("expected ErrEmptyOrganization, got %v", err)
	}
}

func TestRecord_IsZero(t *testing.T) {
	if !(Record{}).IsZero() {
		t.Error("expected the zero Record to report IsZero")
	}
	if rec(t, "OrgA", "2024-01-03T10:00", 0).IsZero() {
		t.Error("expected a built record not to report IsZero")
	}
}
