package internal

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
)

// WindowAverage is the mean amount inside a latest-week or latest-month window.
// Valid is false when the organization has no transactions in the window,
// which is not the same thing as an average of zero.
type WindowAverage struct {
	Value float64
	Valid bool
}

func (w WindowAverage) MarshalJSON() ([]byte, error) {
	if !w.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(w.Value)
}

func (w *WindowAverage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = WindowAverage{}
		return nil
	}
	if err := json.Unmarshal(data, &w.Value); err != nil {
		return err
	}
	w.Valid = true
	return nil
}

// FullSummary is one organization's statistics over the whole dataset
type FullSummary struct {
	Organization     string        `json:"organization"`
	Total            float64       `json:"total"`
	Average          float64       `json:"average"`
	LastWeekAverage  WindowAverage `json:"last_week_average"`
	LastMonthAverage WindowAverage `json:"last_month_average"`
	Count            int           `json:"count"`
}

// RangeSummary is one organization's statistics inside a date range
type RangeSummary struct {
	Organization string  `json:"organization"`
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

// LatestWindow holds the highest ISO week and calendar month seen in a dataset.
// Year is ignored: week 1 of a new year is "older" than week 52 of the previous one.
type LatestWindow struct {
	Week  int        `json:"week"`
	Month time.Month `json:"month"`
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Contains reports whether d lies within the range, bounds included
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
