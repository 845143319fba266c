package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/sales"
	"github.com/okian/painel/internal/domain/table"
	"github.com/okian/painel/pkg/logger"
	"github.com/okian/painel/pkg/metrics"
)

// SalesQuery selects the rows and grouping of a sales report.
type SalesQuery struct {
	Filter  filter.Filter
	GroupBy sales.GroupBy
}

// SalesReport is a grouped sales summary with its grand total.
type SalesReport struct {
	GroupBy   sales.GroupBy   `json:"group_by"`
	Filter    filter.Filter   `json:"filter"`
	Rows      int             `json:"rows"`
	Summaries []sales.Summary `json:"summaries"`
	Totals    sales.Summary   `json:"totals"`
}

// SalesSummary filters the Vendas rows and summarizes them against targets.
func (s *Service) SalesSummary(ctx context.Context, q SalesQuery) (SalesReport, error) {
	if q.GroupBy == "" {
		q.GroupBy = sales.ByUnit
	}
	rows, err := s.store.Sales(ctx)
	if err != nil {
		return SalesReport{}, err
	}
	rows = filter.Apply(rows, q.Filter)
	metrics.UpdateSalesRows(len(rows))

	summaries := sales.Summarize(rows, q.GroupBy, s.targets(ctx))
	return SalesReport{
		GroupBy:   q.GroupBy,
		Filter:    q.Filter,
		Rows:      len(rows),
		Summaries: summaries,
		Totals:    sales.Totals(summaries),
	}, nil
}

// targets reads the sales target table keyed by entity. A missing or
// unreadable table yields no targets.
func (s *Service) targets(ctx context.Context) map[string]float64 {
	if s.salesTargets == "" {
		return nil
	}
	t, err := s.store.Table(ctx, s.salesTargets)
	if err != nil {
		if !errors.Is(err, repository.ErrUnknownTable) {
			s.logger.Warn(ctx, "sales targets unavailable",
				logger.String("table", s.salesTargets), logger.Error(err))
		}
		return nil
	}
	field, ok := t.Field(s.salesTargetField)
	if !ok {
		s.logger.Warn(ctx, "sales target column missing",
			logger.String("table", s.salesTargets), logger.String("field", s.salesTargetField))
		return nil
	}
	out := make(map[string]float64, len(t.Rows))
	for entity, v := range t.Column(field) {
		out[entity] = normalize.Number(v)
	}
	return out
}

// Columns returns the table columns of the report.
func (r SalesReport) Columns() []table.Column {
	label := map[sales.GroupBy]string{
		sales.ByUnit:       "Unidade",
		sales.ByConsultant: "Consultor",
		sales.ByCluster:    "Cluster",
		sales.ByMonth:      "Mês",
		sales.ByProduct:    "Produto",
	}[r.GroupBy]
	return []table.Column{
		{Key: "position", Label: "Posição", Format: normalize.KindInteger},
		{Key: "key", Label: label},
		{Key: "total", Label: "Total", Format: normalize.KindCurrency},
		{Key: "count", Label: "Vendas", Format: normalize.KindInteger},
		{Key: "quantity", Label: "Quantidade", Format: normalize.KindInteger},
		{Key: "average_ticket", Label: "Ticket médio", Format: normalize.KindCurrency},
		{Key: "target", Label: "Meta", Format: normalize.KindCurrency},
		{Key: "percent_of_target", Label: "% da meta", Format: normalize.KindPercent},
	}
}

// TableRows converts the summaries to table rows.
func (r SalesReport) TableRows() []table.Row {
	rows := make([]table.Row, 0, len(r.Summaries))
	for _, sm := range r.Summaries {
		rows = append(rows, table.Row{
			"position":          sm.Position,
			"key":               sm.Key,
			"total":             sm.Total,
			"count":             sm.Count,
			"quantity":          sm.Quantity,
			"average_ticket":    sm.AverageTicket,
			"target":            sm.Target,
			"percent_of_target": sm.PercentOfTarget,
		})
	}
	return rows
}

// Context describes the report for export file names.
func (r SalesReport) Context() string {
	parts := []string{string(r.GroupBy)}
	if !r.Filter.From.IsZero() {
		parts = append(parts, r.Filter.From.Format("2006-01-02"))
	}
	if !r.Filter.To.IsZero() {
		parts = append(parts, r.Filter.To.Format("2006-01-02"))
	}
	for _, v := range []string{r.Filter.Unit, r.Filter.Cluster, r.Filter.Consultant, r.Filter.Product} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "_")
}
