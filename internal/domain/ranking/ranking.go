// Package ranking groups PEX records by unit, averages an indicator across
// periods and assigns dense 1-based positions.
package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/model"
)

// Entry is one ranked unit.
type Entry struct {
	Unit       string  `json:"unit"`
	Cluster    string  `json:"cluster"`
	Consultant string  `json:"consultant"`
	Sum        float64 `json:"sum"`
	Periods    int     `json:"periods"`
	Mean       float64 `json:"mean"`
	Position   int     `json:"position"`

	// Set when a unit's cluster or consultant differs between the periods
	// it aggregates. The last seen value is kept either way.
	ClusterChanged    bool `json:"cluster_changed,omitempty"`
	ConsultantChanged bool `json:"consultant_changed,omitempty"`
}

// Compute ranks units by the mean of id across their records.
// Groups keep first-seen order so ties resolve by input order.
func Compute(records []model.Record, id indicator.ID) []Entry {
	index := make(map[string]int, len(records))
	entries := make([]Entry, 0, len(records))

	for _, r := range records {
		i, ok := index[r.Unit]
		if !ok {
			index[r.Unit] = len(entries)
			entries = append(entries, Entry{
				Unit:       r.Unit,
				Cluster:    r.Cluster,
				Consultant: r.Consultant,
			})
			i = len(entries) - 1
		}
		e := &entries[i]
		if e.Cluster != r.Cluster {
			e.ClusterChanged = true
			e.Cluster = r.Cluster
		}
		if e.Consultant != r.Consultant {
			e.ConsultantChanged = true
			e.Consultant = r.Consultant
		}
		e.Sum += r.Score(id)
		e.Periods++
	}

	for i := range entries {
		entries[i].Mean = entries[i].Sum / float64(entries[i].Periods)
	}
	return Rank(entries)
}

// Rank returns a copy of entries stably sorted by mean descending with
// positions reassigned from 1.
func Rank(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Mean, a.Mean)
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// Scope narrows a ranking to one cluster and/or consultant.
type Scope struct {
	Cluster    string `json:"cluster,omitempty"`
	Consultant string `json:"consultant,omitempty"`
}

// IsZero reports whether the scope is inactive.
func (s Scope) IsZero() bool { return s.Cluster == "" && s.Consultant == "" }

func (s Scope) match(e Entry) bool {
	if s.Cluster != "" && e.Cluster != s.Cluster {
		return false
	}
	if s.Consultant != "" && e.Consultant != s.Consultant {
		return false
	}
	return true
}

// Scoped filters entries by s and ranks the subset from scratch.
func Scoped(entries []Entry, s Scope) []Entry {
	subset := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if s.match(e) {
			subset = append(subset, e)
		}
	}
	return Rank(subset)
}

// GroupBy selects the dimension used by GroupPositions.
type GroupBy string

const (
	ByCluster    GroupBy = "cluster"
	ByConsultant GroupBy = "consultant"
)

// ParseGroupBy maps "cluster" and "consultant" to a GroupBy.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cluster":
		return ByCluster, nil
	case "consultant", "consultor":
		return ByConsultant, nil
	default:
		return ByCluster, fmt.Errorf("%w: %q", ErrBadGroup, s)
	}
}

// GroupPositions returns every unit's position within its own cluster or
// consultant portfolio.
func GroupPositions(entries []Entry, by GroupBy) map[string]int {
	groups := make(map[string][]Entry)
	var order []string
	for _, e := range entries {
		key := e.Cluster
		if by == ByConsultant {
			key = e.Consultant
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	out := make(map[string]int, len(entries))
	for _, key := range order {
		for _, e := range Rank(groups[key]) {
			out[e.Unit] = e.Position
		}
	}
	return out
}

// Find returns the entry for unit.
func Find(entries []Entry, unit string) (Entry, error) {
	for _, e := range entries {
		if e.Unit == unit {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%q: %w", unit, ErrNotFound)
}

// Top returns at most n leading entries. n <= 0 returns all of them.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
