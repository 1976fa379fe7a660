package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	// ErrMalformedTimestamp is returned when a timestamp can't be interpreted as a date-time
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrEmptyOrganization is returned when the organization is blank after trimming
	ErrEmptyOrganization = errors.New("empty organization")
)

// Record is one transaction attributed to an organization.
// Calendar fields are derived from the timestamp when the record is built
// and can't be set independently. Only records returned by NewRecord or
// ParseRecord are valid; the zero Record is ignored by every summary.
type Record struct {
	organization string
	timestamp    time.Time
	amount       float64

	day     civil.Date
	isoWeek int
	month   time.Month
}

// NewRecord validates the organization and timestamp and derives the calendar fields.
// The amount is accepted as-is.
func NewRecord(organization string, timestamp time.Time, amount float64) (Record, error) {
	org := strings.TrimSpace(organization)
	if org == "" {
		return Record{}, ErrEmptyOrganization
	}
	if timestamp.IsZero() {
		return Record{}, ErrMalformedTimestamp
	}

	_, week := timestamp.ISOWeek()
	return Record{
		organization: org,
		timestamp:    timestamp,
		amount:       amount,
		day:          civil.DateOf(timestamp),
		isoWeek:      week,
		month:        timestamp.Month(),
	}, nil
}

// ParseRecord parses rawTimestamp with the first matching layout and builds a Record.
// AM/PM markers are matched case-insensitively.
func ParseRecord(organization, rawTimestamp string, amount float64, layouts ...string) (Record, error) {
	ts, err := ParseTimestamp(rawTimestamp, layouts)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(organization, ts, amount)
}

// ParseTimestamp tries each layout in order
func ParseTimestamp(raw string, layouts []string) (time.Time, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}

// WithOrganization returns a copy of the record grouped under another organization
func (r Record) WithOrganization(organization string) (Record, error) {
	return NewRecord(organization, r.timestamp, r.amount)
}

// IsZero reports whether r was not built by NewRecord
func (r Record) IsZero() bool { return r.organization == "" }

func (r Record) Organization() string { return r.organization }
func (r Record) Timestamp() time.Time { return r.timestamp }
func (r Record) Amount() float64      { return r.amount }

// Day is the calendar date of the timestamp
func (r Record) Day() civil.Date { return r.day }

// ISOWeek is the ISO-8601 week number (1-53)
func (r Record) ISOWeek() int { return r.isoWeek }

func (r Record) Month() time.Month { return r.month }
