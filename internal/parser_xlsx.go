package internal

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads records from an Excel export.
// The header row is the first row containing all three configured column names;
// anything above it (titles, notes) is ignored.
// Cells are read raw, so timestamps stored as real Excel dates arrive as serial
// numbers and are converted, while text timestamps go through the layouts.
func ParseXLSX(path string, opts ParseOptions) (ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParseResult{}, fmt.Errorf("no sheets found in file")
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		if !slices.Contains(sheets, opts.Sheet) {
			return ParseResult{}, fmt.Errorf("sheet %q not found (available: %v)", opts.Sheet, sheets)
		}
		sheet = opts.Sheet
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row and column indices
	orgCol, tsCol, amountCol := -1, -1, -1
	dataStartRow := -1
	for i, row := range rows {
		var ok bool
		if orgCol, tsCol, amountCol, ok = headerIndex(row, opts.Columns); ok {
			dataStartRow = i + 1
			break
		}
	}
	if dataStartRow < 0 {
		return ParseResult{}, missingColumnsError(opts.Columns)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	c := rowCollector{opts: opts}
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		amount, err := xlsxAmount(f, sheet, amountCol, i, cell(row, amountCol), opts.DecimalSeparator)
		var rec Record
		if err == nil {
			rec, err = xlsxRecord(cell(row, orgCol), cell(row, tsCol), amount, opts.TimestampLayouts, date1904)
		}
		if err := c.add(i+1, rec, err); err != nil {
			return ParseResult{}, err
		}
	}

	return c.result, nil
}

// xlsxAmount reads an amount cell. Numeric cells are stored with a "." decimal point
// regardless of the workbook's display locale; only text cells use the configured separator.
func xlsxAmount(f *excelize.File, sheet string, col, row int, raw, decimalSeparator string) (float64, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return 0, err
	}
	if typ, err := f.GetCellType(sheet, name); err == nil && (typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset) {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			return amount, nil
		}
	}
	return ParseAmount(raw, decimalSeparator)
}

// xlsxRecord builds a record from a timestamp cell that is either text or an Excel serial date
func xlsxRecord(org, rawTimestamp string, amount float64, layouts []string, date1904 bool) (Record, error) {
	rec, err := ParseRecord(org, rawTimestamp, amount, layouts...)
	if !errors.Is(err, ErrMalformedTimestamp) {
		return rec, err
	}

	serial, parseErr := strconv.ParseFloat(rawTimestamp, 64)
	if parseErr != nil || serial <= 0 {
		return Record{}, err
	}
	ts, convErr := excelize.ExcelDateToTime(serial, date1904)
	if convErr != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, convErr)
	}
	return NewRecord(org, ts, amount)
}

func init() {
	RegisterParser("xlsx", ParserFunc(ParseXLSX), ".xlsx", ".xlsm")
}
