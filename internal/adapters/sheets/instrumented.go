package sheets

import (
	"context"
	"time"

	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// Instrumented logs and records metrics for every call of the wrapped Source.
type Instrumented struct {
	next Source
	log  logger.Logger
}

// Instrument wraps next. A nil log discards output.
func Instrument(next Source, log logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Nop()
	}
	return &Instrumented{next: next, log: log.Named("sheets")}
}

// Values implements Source.
func (s *Instrumented) Values(ctx context.Context, readRange string) ([][]string, error) {
	start := time.Now()
	rows, err := s.next.Values(ctx, readRange)
	elapsed := time.Since(start)

	sheet := sheetLabel(readRange)
	metrics.RecordSheetRead(sheet, float64(elapsed.Microseconds())/1000, err)
	if err != nil {
		metrics.RecordErrorByComponent("sheets", "read")
		s.log.Error(ctx, "range read failed", logger.String("range", readRange), logger.Duration("elapsed", elapsed), logger.Error(err))
		return nil, err
	}
	metrics.UpdateSheetRows(sheet, max(len(rows)-1, 0))
	s.log.Debug(ctx, "range read", logger.String("range", readRange), logger.Int("rows", len(rows)), logger.Duration("elapsed", elapsed))
	return rows, nil
}

// Update implements Source.
func (s *Instrumented) Update(ctx context.Context, cell, value string) error {
	err := s.next.Update(ctx, cell, value)
	metrics.RecordSheetWrite(sheetLabel(cell), err)
	if err != nil {
		metrics.RecordErrorByComponent("sheets", "write")
		s.log.Error(ctx, "cell write failed", logger.String("cell", cell), logger.Error(err))
		return err
	}
	s.log.Info(ctx, "cell written", logger.String("cell", cell), logger.String("value", value))
	return nil
}

func sheetLabel(a1 string) string {
	r, err := ParseRange(a1)
	if err != nil {
		return "invalid"
	}
	return r.Sheet
}
