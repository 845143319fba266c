// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"strings"
)

// Data source kinds.
const (
	SourceGoogle   = "google"
	SourceWorkbook = "workbook"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the text or json handler.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Source selects where sheet data comes from: google or workbook.
	Source string `koanf:"source"`
	// SpreadsheetID is the Google Sheets document id.
	SpreadsheetID string `koanf:"spreadsheet_id"`
	// CredentialsFile and CredentialsJSON hold the service account key.
	CredentialsFile string `koanf:"credentials_file"`
	CredentialsJSON string `koanf:"credentials_json"`
	// WorkbookPath is the local .xlsx used by the workbook source.
	WorkbookPath string `koanf:"workbook_path"`

	// PexRange and SalesRange are the A1 ranges of the data sheets.
	PexRange   string `koanf:"pex_range"`
	SalesRange string `koanf:"sales_range"`

	// SalesTargets names the config table holding sales targets and
	// SalesTargetField the column read from it.
	SalesTargets     string `koanf:"sales_targets"`
	SalesTargetField string `koanf:"sales_target_field"`

	// Tables are the editable configuration sheets by name.
	Tables map[string]Table `koanf:"tables"`

	// AuditPath is the SQLite file of the edit trail. Empty disables it.
	AuditPath string `koanf:"audit_path"`

	// PageSize is the default table page size.
	PageSize int `koanf:"page_size"`
	// ChartLimit caps the bars of the ranking chart.
	ChartLimit int `koanf:"chart_limit"`
	// MaxAuditLimit caps GET /api/audit?limit.
	MaxAuditLimit int `koanf:"max_audit_limit"`
}

// Table describes one editable configuration sheet.
type Table struct {
	// Range is the A1 range, header row first.
	Range string `koanf:"range"`
	// Key is the header of the entity column. Empty means the first column.
	Key string `koanf:"key"`
	// Format is the write format of every field: text, currency, percent,
	// integer or decimal.
	Format string `koanf:"format"`
	// Formats overrides Format per field header.
	Formats map[string]string `koanf:"formats"`
	// Weights marks indicator weight tables whose period columns must sum to 10.
	Weights bool `koanf:"weights"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		Source:           SourceGoogle,
		PexRange:         "PEX!A:Z",
		SalesRange:       "VENDAS!A:Z",
		SalesTargets:     "metas_vendas",
		SalesTargetField: "META",
		Tables:           DefaultTables(),
		PageSize:         10,
		ChartLimit:       20,
		MaxAuditLimit:    500,
	}
}

// DefaultTables returns the configuration sheets known out of the box.
func DefaultTables() map[string]Table {
	return map[string]Table{
		"metas":        {Range: "METAS!A:Z", Format: "decimal"},
		"pesos":        {Range: "PESOS!A:Z", Format: "decimal", Weights: true},
		"bonus":        {Range: "BONUS!A:Z", Format: "decimal"},
		"clusters":     {Range: "CLUSTERS!A:B", Format: "text"},
		"consultores":  {Range: "CONSULTORES!A:B", Format: "text"},
		"metas_vendas": {Range: "METAS_VENDAS!A:Z", Format: "currency"},
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Source {
	case SourceGoogle, SourceWorkbook:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	if c.PexRange == "" || c.SalesRange == "" {
		return fmt.Errorf("%w: pex_range and sales_range are required", ErrInvalidConfig)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	}
	if c.ChartLimit <= 0 || c.MaxAuditLimit <= 0 {
		return fmt.Errorf("%w: chart_limit and max_audit_limit must be positive", ErrInvalidConfig)
	}
	for name, t := range c.Tables {
		if !strings.Contains(t.Range, "!") {
			return fmt.Errorf("%w: table %s: range %q must name a sheet", ErrInvalidConfig, name, t.Range)
		}
	}
	return nil
}
