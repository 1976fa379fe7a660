package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Columns != DefaultColumns {
		t.Errorf("Columns = %+v, want defaults", cfg.Columns)
	}
	if len(cfg.TimestampLayouts) != len(DefaultTimestampLayouts) {
		t.Errorf("expected default timestamp layouts, got %v", cfg.TimestampLayouts)
	}
	if cfg.PrecisionOrDefault() != DefaultPrecision {
		t.Errorf("PrecisionOrDefault() = %d, want %d", cfg.PrecisionOrDefault(), DefaultPrecision)
	}
}

func TestLoadConfig_Full(t *testing.T) {
	content := `
columns:
  organization: Company
  amount: Amount
sheet: Transfers
timestamp_layouts: ["2006-01-02 15:04"]
skip_invalid_rows: true
decimal_separator: ","
aliases:
  - name: Acme
    patterns: ["^acme"]
exclude:
  - "^TEST"
locale: sv_SE.UTF-8
precision: 4
unit: BTC
`
	cfg, err := LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Columns{Organization: "Company", Timestamp: DefaultColumns.Timestamp, Amount: "Amount"}
	if cfg.Columns != want {
		t.Errorf("Columns = %+v, want %+v", cfg.Columns, want)
	}
	opts := cfg.ParseOptions()
	if opts.Sheet != "Transfers" || !opts.SkipInvalidRows || len(opts.TimestampLayouts) != 1 || opts.DecimalSeparator != "," {
		t.Errorf("unexpected parse options: %+v", opts)
	}
	if cfg.PrecisionOrDefault() != 4 || cfg.Unit != "BTC" || cfg.Locale != "sv_SE.UTF-8" {
		t.Errorf("unexpected display settings: %d %q %q", cfg.PrecisionOrDefault(), cfg.Unit, cfg.Locale)
	}
	if got := cfg.ResolveAlias("ACME Holdings"); got != "Acme" {
		t.Errorf("ResolveAlias() = %q, want Acme (case-insensitive)", got)
	}
	if got := cfg.ResolveAlias("Other"); got != "Other" {
		t.Errorf("ResolveAlias() = %q, want Other", got)
	}
	if !cfg.ShouldExclude("TEST org") || cfg.ShouldExclude("test org") {
		t.Error("exclude patterns should be case-sensitive")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "columns: [unclosed"},
		{"invalid alias pattern", "aliases:\n  - name: X\n    patterns: ['(']"},
		{"alias without name", "aliases:\n  - patterns: ['x']"},
		{"invalid exclude pattern", "exclude: ['[']"},
		{"negative precision", "precision: -1"},
		{"unknown decimal separator", "decimal_separator: \"'\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
aliases:
  - name: Acme
    patterns: ["^acme"]
  - name: Internal
    patterns: ["^sandbox"]
exclude:
  - "^Internal$"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := []Record{
		rec(t, "ACME SA", "2024-01-03T10:00", 10),
		rec(t, "Globex", "2024-01-04T10:00", 20),
		rec(t, "acme s.a.", "2024-01-05T10:00", 30),
		rec(t, "Sandbox Corp", "2024-01-06T10:00", 40),
	}

	got, err := cfg.Apply(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records after exclusion, got %d", len(got))
	}

	rows := SummarizeFullHistory(got)
	if len(rows) != 2 || rows[0].Organization != "Acme" || rows[0].Total != 40 || rows[1].Organization != "Globex" {
		t.Errorf("unexpected summary after aliases: %+v", rows)
	}
}

func TestConfig_ApplyNil(t *testing.T) {
	var cfg *Config
	records := scenarioRecords(t)
	got, err := cfg.Apply(records)
	if err != nil || len(got) != len(records) {
		t.Errorf("nil config should pass records through, got %d, %v", len(got), err)
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := NewDefaultConfig().Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Columns != DefaultColumns || cfg.PrecisionOrDefault() != DefaultPrecision {
		t.Errorf("unexpected config after round trip: %+v", cfg)
	}
}
