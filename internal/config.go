package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Columns names the header cells holding each record field
type Columns struct {
	Organization string `yaml:"organization"`
	Timestamp    string `yaml:"timestamp"`
	Amount       string `yaml:"amount"`
}

// Alias merges every organization matching one of the patterns under a single name
type Alias struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`

	// compiled patterns
	regexes []*regexp.Regexp `yaml:"-"`
}

// DefaultColumns matches the headers of the original transfer export
var DefaultColumns = Columns{
	Organization: "Razon_Social_Empresa",
	Timestamp:    "Fecha_De_Registro",
	Amount:       "Crypto transferido por empresa",
}

// DefaultTimestampLayouts are tried in order when parsing timestamp cells.
// Values are upper-cased before parsing, so "10:30am" matches the PM layouts.
var DefaultTimestampLayouts = []string{
	"2/1/2006 3:04PM",
	"2/1/2006 3:04 PM",
	"2/1/2006 15:04",
	"2/1/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

const DefaultPrecision = 2

type Config struct {
	Columns Columns `yaml:"columns"`

	// Sheet is the xlsx sheet to read; empty means the first one
	Sheet string `yaml:"sheet,omitempty"`

	TimestampLayouts []string `yaml:"timestamp_layouts,omitempty"`

	// SkipInvalidRows drops rows that fail validation instead of aborting the load
	SkipInvalidRows bool `yaml:"skip_invalid_rows,omitempty"`

	// DecimalSeparator is how text amounts mark decimals: "." (default) or ","
	DecimalSeparator string `yaml:"decimal_separator,omitempty"`

	Aliases []Alias `yaml:"aliases,omitempty"`

	// Exclude is a list of regex patterns; matching organizations are dropped
	Exclude []string `yaml:"exclude,omitempty"`

	// Display settings
	Locale    string `yaml:"locale,omitempty"`
	Precision *int   `yaml:"precision,omitempty"`
	Unit      string `yaml:"unit,omitempty"`

	// compiled exclude patterns (not serialized)
	excludePatterns []*regexp.Regexp `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.org-transfer-summary/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".org-transfer-summary", "config.yaml")
}

// NewDefaultConfig returns the config used when no config file exists
func NewDefaultConfig() *Config {
	precision := DefaultPrecision
	cfg := &Config{
		Columns:          DefaultColumns,
		TimestampLayouts: make([]string, len(DefaultTimestampLayouts)),
		Precision:        &precision,
	}
	copy(cfg.TimestampLayouts, DefaultTimestampLayouts)
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// compile fills in defaults and compiles regex patterns
func (c *Config) compile() error {
	if c.Columns.Organization == "" {
		c.Columns.Organization = DefaultColumns.Organization
	}
	if c.Columns.Timestamp == "" {
		c.Columns.Timestamp = DefaultColumns.Timestamp
	}
	if c.Columns.Amount == "" {
		c.Columns.Amount = DefaultColumns.Amount
	}
	if len(c.TimestampLayouts) == 0 {
		c.TimestampLayouts = append([]string(nil), DefaultTimestampLayouts...)
	}
	if c.DecimalSeparator != "" && c.DecimalSeparator != "." && c.DecimalSeparator != "," {
		return fmt.Errorf("invalid decimal_separator %q: must be \".\" or \",\"", c.DecimalSeparator)
	}
	if c.Precision != nil && *c.Precision < 0 {
		return fmt.Errorf("invalid precision %d: must be >= 0", *c.Precision)
	}

	for i := range c.Aliases {
		if c.Aliases[i].Name == "" {
			return fmt.Errorf("alias #%d has no name", i+1)
		}
		c.Aliases[i].regexes = nil
		for _, pattern := range c.Aliases[i].Patterns {
			re, err := regexp.Compile("(?i)" + pattern) // case-insensitive
			if err != nil {
				return fmt.Errorf("invalid alias pattern %q: %w", pattern, err)
			}
			c.Aliases[i].regexes = append(c.Aliases[i].regexes, re)
		}
	}

	c.excludePatterns = nil
	for _, pattern := range c.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		c.excludePatterns = append(c.excludePatterns, re)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// PrecisionOrDefault returns the configured number of decimals
func (c *Config) PrecisionOrDefault() int {
	if c == nil || c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}

// ShouldExclude returns true if the organization matches any exclude pattern
func (c *Config) ShouldExclude(organization string) bool {
	if c == nil {
		return false
	}
	for _, re := range c.excludePatterns {
		if re.MatchString(organization) {
			return true
		}
	}
	return false
}

// ResolveAlias returns the alias name for an organization, or the organization itself
func (c *Config) ResolveAlias(organization string) string {
	if c == nil {
		return organization
	}
	for _, alias := range c.Aliases {
		for _, re := range alias.regexes {
			if re.MatchString(organization) {
				return alias.Name
			}
		}
	}
	return organization
}

// Apply renames aliased organizations and drops excluded ones.
// Exclusion is checked against the resolved name.
func (c *Config) Apply(records []Record) ([]Record, error) {
	if c == nil || (len(c.Aliases) == 0 && len(c.excludePatterns) == 0) {
		return records, nil
	}

	result := make([]Record, 0, len(records))
	for _, r := range records {
		name := c.ResolveAlias(r.Organization())
		if c.ShouldExclude(name) {
			continue
		}
		if name != r.Organization() {
			renamed, err := r.WithOrganization(name)
			if err != nil {
				return nil, fmt.Errorf("applying alias %q: %w", name, err)
			}
			r = renamed
		}
		result = append(result, r)
	}
	return result, nil
}

// ParseOptions derives parser options from the config
func (c *Config) ParseOptions() ParseOptions {
	if c == nil {
		c = NewDefaultConfig()
	}
	return ParseOptions{
		Columns:          c.Columns,
		Sheet:            c.Sheet,
		TimestampLayouts: c.TimestampLayouts,
		SkipInvalidRows:  c.SkipInvalidRows,
		DecimalSeparator: c.DecimalSeparator,
	}
}
