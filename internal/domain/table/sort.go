package table

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/painel/internal/domain/normalize"
)

// Direction is a column sort direction.
type Direction int

const (
	None Direction = iota
	Asc
	Desc
)

// ParseDirection maps "asc" and "desc" to a Direction. Anything else is None.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	default:
		return None
	}
}

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return ""
	}
}

// SortState is the active sort column. The zero value is unsorted.
type SortState struct {
	Key string    `json:"key,omitempty"`
	Dir Direction `json:"-"`
}

// Active reports whether the state sorts anything.
func (s SortState) Active() bool { return s.Key != "" && s.Dir != None }

// Cycle returns the state after a header click on key: a new key starts
// ascending, the same key goes asc, desc, then back to unsorted.
func (s SortState) Cycle(key string) SortState {
	if key != s.Key || s.Dir == None {
		return SortState{Key: key, Dir: Asc}
	}
	if s.Dir == Asc {
		return SortState{Key: key, Dir: Desc}
	}
	return SortState{}
}

// Sort returns rows ordered by s. Equal rows keep their relative order and
// an inactive state returns rows as given.
func Sort(rows []Row, s SortState) []Row {
	if !s.Active() {
		return rows
	}
	c := newComparer()
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		r := c.compare(a[s.Key], b[s.Key])
		if s.Dir == Desc {
			return -r
		}
		return r
	})
	return out
}

// Compare orders two cell values: numerically when both parse as numbers,
// by Brazilian Portuguese collation otherwise.
func Compare(a, b any) int {
	return newComparer().compare(a, b)
}

type comparer struct {
	coll *collate.Collator
}

// Collators are not safe for concurrent use, so each sort builds its own.
func newComparer() comparer {
	return comparer{coll: collate.New(language.BrazilianPortuguese)}
}

func (c comparer) compare(a, b any) int {
	x, xok := number(a)
	y, yok := number(b)
	if xok && yok {
		return cmp.Compare(x, y)
	}
	return c.coll.CompareString(raw(a), raw(b))
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		return normalize.Parse(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return normalize.Number(x), true
	default:
		return 0, false
	}
}
