// Package normalize turns raw spreadsheet cells into numbers and formats
// numbers back into the Brazilian-locale strings the sheets expect.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number converts an arbitrary cell value to float64.
// Unparseable, empty or non-finite input yields 0; it never fails.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		f, _ = Parse(x.String())
	case string:
		f, _ = Parse(x)
	case *string:
		if x == nil {
			return 0
		}
		f, _ = Parse(*x)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Parse is the strict variant of Number for strings: ok is false when the
// cleaned text is empty or not a finite number.
func Parse(s string) (float64, bool) {
	cleaned := clean(s)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// clean strips currency and percent markers, whitespace and thousands
// separators, and rewrites the decimal comma as a dot.
func clean(s string) string {
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '%', ' ', '\t', '\n', '\r', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return ""
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	}

	switch dots := strings.Count(s, "."); {
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case dots == 1:
		head, tail, _ := strings.Cut(s, ".")
		if len(tail) == 3 && isGroupHead(head) {
			return head + tail
		}
	}
	return s
}

// isGroupHead reports whether head can be the leading group of a
// dot-grouped integer ("1" in "1.234", but not "0" in "0.125").
func isGroupHead(head string) bool {
	head = strings.TrimPrefix(head, "-")
	if head == "" || len(head) > 3 || strings.TrimLeft(head, "0") == "" {
		return false
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
