package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/painel/internal/adapters/audit"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/pkg/logger"
)

// Assignment table names used to fill blank cluster and consultant cells.
const (
	clusterTable    = "clusters"
	consultantTable = "consultores"
)

// OpenSource builds the spreadsheet source selected by cfg, wrapped with
// logging and metrics. A missing id, credential or path yields a source
// that fails every call with sheets.ErrNotConfigured so the process can
// still start.
func OpenSource(ctx context.Context, cfg *config.Config, log logger.Logger) (sheets.Source, func() error, error) {
	var (
		src    sheets.Source
		closer = func() error { return nil }
		err    error
	)
	switch cfg.Source {
	case config.SourceWorkbook:
		var wb *sheets.WorkbookSource
		wb, err = sheets.OpenWorkbook(cfg.WorkbookPath)
		if err == nil {
			src, closer = wb, wb.Close
		}
	default:
		src, err = sheets.NewGoogleSource(ctx, sheets.GoogleConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			CredentialsFile: cfg.CredentialsFile,
			CredentialsJSON: cfg.CredentialsJSON,
		})
	}
	if errors.Is(err, sheets.ErrNotConfigured) {
		log.Warn(ctx, "spreadsheet source not configured; data endpoints will answer 503",
			logger.String("source", cfg.Source), logger.Error(err))
		src, err = sheets.Unconfigured{Reason: err}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s source: %w", cfg.Source, err)
	}
	return sheets.Instrument(src, log), closer, nil
}

// StoreOptions converts the configured ranges and tables to repository options.
func StoreOptions(cfg *config.Config, log logger.Logger) []repository.Option {
	opts := []repository.Option{
		repository.WithPexRange(cfg.PexRange),
		repository.WithSalesRange(cfg.SalesRange),
		repository.WithLogger(log),
	}
	var clusters, consultants string
	for name, t := range cfg.Tables {
		def := repository.TableDef{
			Range:   t.Range,
			Key:     t.Key,
			Format:  normalize.ParseKind(t.Format),
			Weights: t.Weights,
		}
		if len(t.Formats) > 0 {
			def.Formats = make(map[string]normalize.Kind, len(t.Formats))
			for field, kind := range t.Formats {
				def.Formats[field] = normalize.ParseKind(kind)
			}
		}
		opts = append(opts, repository.WithTable(name, def))
		switch name {
		case clusterTable:
			clusters = name
		case consultantTable:
			consultants = name
		}
	}
	return append(opts, repository.WithAssignments(clusters, consultants))
}

// Open wires source, repository, audit log and service from cfg. The
// returned function releases the workbook and the audit database.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, func() error, error) {
	src, closeSource, err := OpenSource(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	rec, err := audit.Open(ctx, cfg.AuditPath)
	if err != nil {
		_ = closeSource()
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}
	store := repository.NewSheetStore(src, StoreOptions(cfg, log)...)
	svc := New(store,
		WithLogger(log.Named("service")),
		WithAudit(rec),
		WithSourceName(cfg.Source),
		WithSalesTargets(cfg.SalesTargets, cfg.SalesTargetField),
		WithPageSize(cfg.PageSize),
		WithChartLimit(cfg.ChartLimit),
		WithMaxAuditLimit(cfg.MaxAuditLimit),
	)
	closeAll := func() error {
		return errors.Join(rec.Close(), closeSource())
	}
	return svc, closeAll, nil
}
