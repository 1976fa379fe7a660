package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"cloud.google.com/go/civil"
	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/org-transfer-summary/internal"
	"github.com/joho/godotenv"
)

type Params struct {
	File       string `descr:"Path to the transfer file, optionally prefixed with its format (e.g. csv:export.txt)" positional:"true" optional:"true"`
	Source     string `descr:"Data source type (xlsx, simple-json, csv); detected from the file extension if omitted" optional:"true"`
	Config     string `descr:"Path to config file (default ~/.org-transfer-summary/config.yaml)" env:"ORG_SUMMARY_CONFIG" optional:"true"`
	From       string `descr:"First day of the selected period (YYYY-MM-DD), defaults to the first transaction day" optional:"true"`
	To         string `descr:"Last day of the selected period (YYYY-MM-DD), defaults to the last transaction day" optional:"true"`
	Output     string `descr:"Output format" alts:"table,json" strict:"true" default:"table" env:"ORG_SUMMARY_OUTPUT"`
	Sort       string `descr:"Sort rows by field" alts:"input,name,total,count" strict:"true" default:"input"`
	SortDir    string `descr:"Sort direction" alts:"asc,desc" strict:"true" default:"asc"`
	Verbose    bool   `descr:"Log debug details to stderr" optional:"true"`
	InitConfig bool   `descr:"Write a config template to the config path and exit" optional:"true"`
}

func main() {
	// Values from .env feed the env-backed flags above
	_ = godotenv.Load()

	boa.NewCmdT[Params]("org-transfer-summary").
		WithShort("Summarize transfers per organization").
		WithLong("Reads a transfer export (xlsx, JSON or CSV) and prints per-organization totals, averages and transaction counts, " +
			"both over the full history (with latest week and month averages) and over a selected period.").
		WithRunFunc(func(params *Params) {
			if err := run(context.Background(), params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(ctx context.Context, params *Params, w io.Writer) error {
	level := slog.LevelInfo
	if params.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	configPath := params.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	if params.InitConfig {
		if err := internal.NewDefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote config template to %s\n", configPath)
		return nil
	}

	if params.File == "" {
		return errors.New("no input file given")
	}

	cfg, err := loadConfig(configPath, params.Config != "", logger)
	if err != nil {
		return err
	}

	records, err := loadRecords(params, cfg, logger)
	if err != nil {
		return err
	}

	rng, err := resolveRange(records, params.From, params.To)
	if err != nil {
		return err
	}
	if rng != nil {
		logger.Debug("selected period", "from", rng.Start, "to", rng.End)
	}

	report, err := internal.BuildReport(ctx, records, rng)
	if err != nil {
		return err
	}

	if params.Output == "json" {
		return internal.PrintReportJSON(w, report)
	}

	format, err := internal.NewNumberFormat(cfg.Locale, cfg.PrecisionOrDefault(), cfg.Unit)
	if err != nil {
		return err
	}
	opts := internal.OutputOptions{
		SortField: params.Sort,
		SortDir:   params.SortDir,
		Format:    format,
	}

	fmt.Fprintf(w, "Loaded %d transactions\n", report.Records)
	if report.Span != nil {
		fmt.Fprintf(w, "Data range: %s to %s\n", report.Span.Start, report.Span.End)
	}
	fmt.Fprintln(w)

	internal.PrintFullSummaryTable(w, report.Full, report.Latest, opts)
	internal.PrintRangeSummaryTable(w, report.InRange, report.Range, opts)
	return nil
}

// loadConfig reads the config file. A missing default config means built-in defaults,
// a missing explicit one is an error.
func loadConfig(path string, explicit bool, logger *slog.Logger) (*internal.Config, error) {
	if path == "" {
		return internal.NewDefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !explicit {
		logger.Debug("no config file, using defaults", "path", path)
		return internal.NewDefaultConfig(), nil
	}

	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// loadRecords parses the input file and applies aliases and exclusions
func loadRecords(params *Params, cfg *internal.Config, logger *slog.Logger) ([]internal.Record, error) {
	format, path := internal.ParseFileArg(params.File)
	if params.Source != "" {
		format = params.Source
	}
	if format == "" {
		detected, err := internal.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	parser, err := internal.GetParser(format)
	if err != nil {
		return nil, err
	}

	result, err := parser.Parse(path, cfg.ParseOptions())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, skipped := range result.Skipped {
		logger.Warn("skipped invalid row", "file", path, "row", skipped.Row, "error", skipped.Err)
	}
	logger.Debug("parsed file", "file", path, "format", format, "records", len(result.Records), "skipped", len(result.Skipped))

	return cfg.Apply(result.Records)
}

// resolveRange parses the selected period, defaulting missing bounds to the observed span.
// Returns nil when there is no data and no bound was given.
func resolveRange(records []internal.Record, from, to string) (*internal.DateRange, error) {
	span, hasData := internal.ObservedSpan(records)
	if !hasData && from == "" && to == "" {
		return nil, nil
	}
	rng := span

	if from != "" {
		d, err := civil.ParseDate(from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		rng.Start = d
		if !hasData {
			rng.End = d
		}
	}
	if to != "" {
		d, err := civil.ParseDate(to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		rng.End = d
		if !hasData && from == "" {
			rng.Start = d
		}
	}

	if rng.Start.After(rng.End) {
		return nil, fmt.Errorf("%w: --from %s is after --to %s", internal.ErrInvalidRange, rng.Start, rng.End)
	}
	return &rng, nil
}
