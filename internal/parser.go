package internal

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMalformedAmount is returned when an amount cell isn't a number
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMissingColumns is returned when the header row can't be found
	ErrMissingColumns = errors.New("missing required columns")
)

// ParseOptions controls how rows are turned into records
type ParseOptions struct {
	Columns          Columns
	Sheet            string
	TimestampLayouts []string
	SkipInvalidRows  bool
	DecimalSeparator string // "." (default) or ","
}

// RowError is a validation failure for a single input row
type RowError struct {
	Row int // 1-based, as shown by spreadsheet tools
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ParseResult holds the parsed records and the rows that were skipped
type ParseResult struct {
	Records []Record
	Skipped []*RowError
}

// Parser parses transaction files into a list of records
type Parser interface {
	Parse(path string, opts ParseOptions) (ParseResult, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string, opts ParseOptions) (ParseResult, error)

func (f ParserFunc) Parse(path string, opts ParseOptions) (ParseResult, error) {
	return f(path, opts)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// extensions maps file extensions to parser names
var extensions = map[string]string{}

// RegisterParser registers a parser with the given name and the file extensions it handles
func RegisterParser(name string, p Parser, exts ...string) {
	parsers[name] = p
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns a sorted list of registered source types
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "simple-json:data.json" → ("simple-json", "data.json")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx")
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// DetectFormat returns the parser registered for the file's extension
func DetectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("cannot detect format of %q, use --source (available: %v)", path, AvailableSources())
	}
	return name, nil
}

// ParseAmount parses an amount written with the given decimal separator ("." or ",";
// empty means "."). The other character is accepted only as a thousands separator in
// the integer part with groups of exactly three digits, so "1,234" is 1234 with "."
// and "1.234,56" is rejected instead of being read as 1.23456.
func ParseAmount(raw, decimalSeparator string) (float64, error) {
	if decimalSeparator == "" {
		decimalSeparator = "."
	}
	group := ","
	if decimalSeparator == "," {
		group = "."
	}

	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedAmount)
	}

	intPart, fracPart, hasFrac := strings.Cut(s, decimalSeparator)
	if strings.Contains(fracPart, decimalSeparator) || strings.Contains(fracPart, group) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if strings.Contains(intPart, group) {
		if !validGrouping(intPart, group) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
		}
		intPart = strings.ReplaceAll(intPart, group, "")
	}

	s = intPart
	if hasFrac {
		s += "." + fracPart
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	return amount, nil
}

// validGrouping checks "1,234,567" style digit groups, with an optional sign
func validGrouping(intPart, group string) bool {
	digits := strings.TrimLeft(intPart, "+-")
	if len(intPart)-len(digits) > 1 {
		return false
	}
	chunks := strings.Split(digits, group)
	for i, chunk := range chunks {
		if i == 0 && (len(chunk) < 1 || len(chunk) > 3) {
			return false
		}
		if i > 0 && len(chunk) != 3 {
			return false
		}
		for _, r := range chunk {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// rowCollector applies the skip-or-fail policy shared by all parsers
type rowCollector struct {
	opts   ParseOptions
	result ParseResult
}

// add records either the built record or the row failure.
// Returns a non-nil error when the failure should abort parsing.
func (c *rowCollector) add(row int, rec Record, err error) error {
	if err == nil {
		c.result.Records = append(c.result.Records, rec)
		return nil
	}
	rowErr := &RowError{Row: row, Err: err}
	if !c.opts.SkipInvalidRows {
		return rowErr
	}
	c.result.Skipped = append(c.result.Skipped, rowErr)
	return nil
}

// headerIndex finds the configured columns in a header row
func headerIndex(header []string, cols Columns) (org, ts, amount int, ok bool) {
	org, ts, amount = -1, -1, -1
	for j, cell := range header {
		switch strings.TrimSpace(cell) {
		case cols.Organization:
			org = j
		case cols.Timestamp:
			ts = j
		case cols.Amount:
			amount = j
		}
	}
	return org, ts, amount, org >= 0 && ts >= 0 && amount >= 0
}

func missingColumnsError(cols Columns) error {
	return fmt.Errorf("%w (%s, %s, %s)", ErrMissingColumns, cols.Organization, cols.Timestamp, cols.Amount)
}

// cell returns the trimmed cell at index i, or "" if the row is short
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
