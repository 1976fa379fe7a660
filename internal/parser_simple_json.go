package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for importing transfers
// Example:
//
//	{
//	  "transactions": [
//	    {"organization": "OrgA", "timestamp": "2024-01-03T10:00", "amount": 100},
//	    {"organization": "OrgB", "timestamp": "10/01/2024 10:00AM", "amount": 50}
//	  ]
//	}
//
// Timestamps are parsed with the configured layouts, like spreadsheet cells.
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	Organization string  `json:"organization"`
	Timestamp    string  `json:"timestamp"`
	Amount       float64 `json:"amount"`
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string, opts ParseOptions) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return ParseResult{}, fmt.Errorf("parsing JSON: %w", err)
	}

	c := rowCollector{opts: opts}
	for i, tx := range jsonData.Transactions {
		rec, err := ParseRecord(tx.Organization, tx.Timestamp, tx.Amount, opts.TimestampLayouts...)
		if err := c.add(i+1, rec, err); err != nil {
			return ParseResult{}, err
		}
	}

	return c.result, nil
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON), ".json")
}
