package indicator

import "strings"

// Columns maps canonical IDs to zero-based column indexes of one header row.
type Columns map[ID]int

// Resolve matches every header cell against the alias table. When two
// headers map to the same ID the leftmost wins.
func Resolve(header []string) Columns {
	cols := make(Columns, len(header))
	for i, h := range header {
		id, ok := Lookup(h)
		if !ok {
			continue
		}
		if _, seen := cols[id]; !seen {
			cols[id] = i
		}
	}
	return cols
}

// Has reports whether id was found in the header.
func (c Columns) Has(id ID) bool {
	_, ok := c[id]
	return ok
}

// Missing returns the ids from want that the header lacks.
func (c Columns) Missing(want ...ID) []ID {
	var out []ID
	for _, id := range want {
		if !c.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Cell returns the trimmed cell for id in row. Short rows and unresolved
// ids report false.
func (c Columns) Cell(row []string, id ID) (string, bool) {
	i, ok := c[id]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}
