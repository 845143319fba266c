// Package sales aggregates Vendas rows and compares them against targets.
package sales

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/painel/internal/domain/model"
)

// GroupBy selects the summary dimension.
type GroupBy string

const (
	ByUnit       GroupBy = "unit"
	ByConsultant GroupBy = "consultant"
	ByCluster    GroupBy = "cluster"
	ByMonth      GroupBy = "month"
	ByProduct    GroupBy = "product"
)

// ParseGroupBy validates a grouping name. Empty means ByUnit.
func ParseGroupBy(s string) (GroupBy, error) {
	g := GroupBy(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case "":
		return ByUnit, nil
	case ByUnit, ByConsultant, ByCluster, ByMonth, ByProduct:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadGroup, s)
}

func (g GroupBy) key(s model.Sale) string {
	switch g {
	case ByConsultant:
		return s.Consultant
	case ByCluster:
		return s.Cluster
	case ByMonth:
		if s.SoldAt.IsZero() {
			return ""
		}
		return s.SoldAt.Format("2006-01")
	case ByProduct:
		return s.Product
	default:
		return s.Unit
	}
}

// Summary is the aggregate of one group.
type Summary struct {
	Key             string  `json:"key"`
	Total           float64 `json:"total"`
	Count           int     `json:"count"`
	Quantity        float64 `json:"quantity"`
	AverageTicket   float64 `json:"average_ticket"`
	Target          float64 `json:"target"`
	PercentOfTarget float64 `json:"percent_of_target"`
	Position        int     `json:"position"`
}

// Summarize groups sales by g, attaches targets by key and ranks the groups
// by total descending. Ties keep first-seen order.
func Summarize(sales []model.Sale, g GroupBy, targets map[string]float64) []Summary {
	index := make(map[string]int)
	out := make([]Summary, 0)
	for _, s := range sales {
		k := g.key(s)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Summary{Key: k})
		}
		out[i].Total += s.Value
		out[i].Quantity += s.Quantity
		out[i].Count++
	}

	for i := range out {
		finish(&out[i], targets[out[i].Key])
	}
	slices.SortStableFunc(out, func(a, b Summary) int { return cmp.Compare(b.Total, a.Total) })
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// Totals is the grand total across summaries.
func Totals(summaries []Summary) Summary {
	t := Summary{Key: "Total"}
	for _, s := range summaries {
		t.Total += s.Total
		t.Count += s.Count
		t.Quantity += s.Quantity
		t.Target += s.Target
	}
	finish(&t, t.Target)
	return t
}

// PercentOfTarget returns total as a percentage of target, 0 without one.
func PercentOfTarget(total, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return total / target * 100
}

func finish(s *Summary, target float64) {
	s.Target = target
	s.PercentOfTarget = PercentOfTarget(s.Total, target)
	if s.Count > 0 {
		s.AverageTicket = s.Total / float64(s.Count)
	}
}
