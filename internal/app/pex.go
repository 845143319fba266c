package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/table"
	"github.com/okian/painel/pkg/metrics"
)

// ErrUnknownIndicator is returned for indicator ids missing from the alias table.
var ErrUnknownIndicator = fmt.Errorf("%w: unknown indicator", ErrInvalidQuery)

// Filters lists the distinct values available to the PEX filter dropdowns.
type Filters struct {
	Periods     []string `json:"periods"`
	Units       []string `json:"units"`
	Clusters    []string `json:"clusters"`
	Consultants []string `json:"consultants"`
	Indicators  []Choice `json:"indicators"`
}

// Choice is one entry of a dropdown.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RankingQuery selects what a ranking covers.
type RankingQuery struct {
	// Periods restricts the aggregated quarters; empty means all.
	Periods []string
	// Filter applies to the records before aggregation.
	Filter filter.Filter
	// Indicator is averaged; empty means the total score.
	Indicator indicator.ID
	// Scope narrows the ranking after aggregation.
	Scope ranking.Scope
	// GroupBy adds the position of each unit within its group.
	GroupBy ranking.GroupBy
}

// Ranking is a computed ranking plus its presentation context.
type Ranking struct {
	Indicator indicator.ID    `json:"indicator"`
	Label     string          `json:"label"`
	Periods   []string        `json:"periods"`
	Scope     ranking.Scope   `json:"scope"`
	GroupBy   ranking.GroupBy `json:"group_by,omitempty"`
	Entries   []ranking.Entry `json:"entries"`
	Global    []ranking.Entry `json:"-"`
	Groups    map[string]int  `json:"group_positions,omitempty"`
}

// UnitRank is one unit's standing.
type UnitRank struct {
	Entry         ranking.Entry   `json:"entry"`
	Units         int             `json:"units"`
	GroupBy       ranking.GroupBy `json:"group_by"`
	GroupPosition int             `json:"group_position"`
	GroupSize     int             `json:"group_size"`
}

// Records returns the PEX rows matching f.
func (s *Service) Records(ctx context.Context, f filter.Filter) ([]model.Record, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records, f), nil
}

// Filters returns the dropdown values of the PEX page.
func (s *Service) Filters(ctx context.Context) (Filters, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return Filters{}, err
	}
	periods := filter.Distinct(records, model.FieldPeriod)
	slices.Sort(periods)
	out := Filters{
		Periods:     nonNil(periods),
		Units:       sorted(filter.Distinct(records, model.FieldUnit)),
		Clusters:    sorted(filter.Distinct(records, model.FieldCluster)),
		Consultants: sorted(filter.Distinct(records, model.FieldConsultant)),
	}
	for _, id := range indicator.Indicators() {
		out.Indicators = append(out.Indicators, Choice{Value: string(id), Label: indicator.Label(id)})
	}
	return out, nil
}

// ParseIndicator validates an indicator id. Empty means the total score.
func ParseIndicator(s string) (indicator.ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return indicator.Total, nil
	}
	id := indicator.ID(s)
	if !slices.Contains(indicator.Indicators(), id) {
		return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
	}
	return id, nil
}

// Ranking computes the ranking described by q.
func (s *Service) Ranking(ctx context.Context, q RankingQuery) (Ranking, error) {
	if q.Indicator == "" {
		q.Indicator = indicator.Total
	}
	records, err := s.store.Records(ctx)
	if err != nil {
		return Ranking{}, err
	}
	records = filter.Apply(records, q.Filter)
	periods := make([]string, 0, len(q.Periods))
	if len(q.Periods) > 0 {
		want := make(map[string]struct{}, len(q.Periods))
		for _, p := range q.Periods {
			p = model.NormalizePeriod(p)
			if _, dup := want[p]; !dup && p != "" {
				want[p] = struct{}{}
				periods = append(periods, p)
			}
		}
		kept := records[:0:0]
		for _, r := range records {
			if _, ok := want[r.Period]; ok {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	global := ranking.Compute(records, q.Indicator)
	metrics.UpdateRankingUnits(string(q.Indicator), len(global))

	out := Ranking{
		Indicator: q.Indicator,
		Label:     indicator.Label(q.Indicator),
		Periods:   periods,
		Scope:     q.Scope,
		GroupBy:   q.GroupBy,
		Entries:   global,
		Global:    global,
	}
	if !q.Scope.IsZero() {
		out.Entries = ranking.Scoped(global, q.Scope)
	}
	if q.GroupBy != "" {
		out.Groups = ranking.GroupPositions(global, q.GroupBy)
	}
	return out, nil
}

// Rank returns one unit's global and group position.
func (s *Service) Rank(ctx context.Context, unit string, q RankingQuery) (UnitRank, error) {
	if q.GroupBy == "" {
		q.GroupBy = ranking.ByCluster
	}
	q.Scope = ranking.Scope{}
	r, err := s.Ranking(ctx, q)
	if err != nil {
		return UnitRank{}, err
	}
	e, err := ranking.Find(r.Global, unit)
	if err != nil {
		return UnitRank{}, err
	}
	scope := ranking.Scope{Cluster: e.Cluster}
	if q.GroupBy == ranking.ByConsultant {
		scope = ranking.Scope{Consultant: e.Consultant}
	}
	return UnitRank{
		Entry:         e,
		Units:         len(r.Global),
		GroupBy:       q.GroupBy,
		GroupPosition: r.Groups[e.Unit],
		GroupSize:     len(ranking.Scoped(r.Global, scope)),
	}, nil
}

// Columns returns the table columns of the ranking.
func (r Ranking) Columns() []table.Column {
	cols := []table.Column{
		{Key: "position", Label: "Posição", Format: normalize.KindInteger},
		{Key: "unit", Label: "Unidade"},
		{Key: "cluster", Label: "Cluster"},
		{Key: "consultant", Label: "Consultor"},
		{Key: "mean", Label: r.Label, Format: normalize.KindDecimal},
		{Key: "periods", Label: "Quarters", Format: normalize.KindInteger},
	}
	switch r.GroupBy {
	case ranking.ByCluster:
		cols = append(cols, table.Column{Key: "group_position", Label: "Posição no cluster", Format: normalize.KindInteger})
	case ranking.ByConsultant:
		cols = append(cols, table.Column{Key: "group_position", Label: "Posição no consultor", Format: normalize.KindInteger})
	}
	return cols
}

// Rows converts the ranking entries to table rows.
func (r Ranking) Rows() []table.Row {
	rows := make([]table.Row, 0, len(r.Entries))
	for _, e := range r.Entries {
		row := table.Row{
			"position":   e.Position,
			"unit":       e.Unit,
			"cluster":    e.Cluster,
			"consultant": e.Consultant,
			"mean":       e.Mean,
			"periods":    e.Periods,
		}
		if r.Groups != nil {
			row["group_position"] = r.Groups[e.Unit]
		}
		rows = append(rows, row)
	}
	return rows
}

// Context describes the ranking for export file names, e.g. "Q1-Q2_Cluster A".
func (r Ranking) Context() string {
	var parts []string
	if len(r.Periods) > 0 {
		parts = append(parts, "Q"+strings.Join(r.Periods, "-Q"))
	}
	if r.Scope.Cluster != "" {
		parts = append(parts, r.Scope.Cluster)
	}
	if r.Scope.Consultant != "" {
		parts = append(parts, r.Scope.Consultant)
	}
	return strings.Join(parts, "_")
}

func sorted(v []string) []string {
	slices.SortFunc(v, func(a, b string) int { return table.Compare(a, b) })
	return nonNil(v)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
