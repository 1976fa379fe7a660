package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseCSV reads records from a CSV export with a header row naming the configured columns
func ParseCSV(path string, opts ParseOptions) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return ParseResult{}, missingColumnsError(opts.Columns)
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	orgCol, tsCol, amountCol, ok := headerIndex(header, opts.Columns)
	if !ok {
		return ParseResult{}, missingColumnsError(opts.Columns)
	}

	c := rowCollector{opts: opts}
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{}, fmt.Errorf("reading row %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}

		rec, err := buildRecord(cell(row, orgCol), cell(row, tsCol), cell(row, amountCol), opts)
		if err := c.add(line, rec, err); err != nil {
			return ParseResult{}, err
		}
	}

	return c.result, nil
}

// buildRecord turns the raw text of one row into a record
func buildRecord(org, rawTimestamp, rawAmount string, opts ParseOptions) (Record, error) {
	amount, err := ParseAmount(rawAmount, opts.DecimalSeparator)
	if err != nil {
		return Record{}, err
	}
	return ParseRecord(org, rawTimestamp, amount, opts.TimestampLayouts...)
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}

func init() {
	RegisterParser("csv", ParserFunc(ParseCSV), ".csv")
}
