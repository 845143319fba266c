package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Kind selects how a value is rendered when written back to a sheet.
type Kind int

const (
	KindText Kind = iota
	KindCurrency
	KindPercent
	KindInteger
	KindDecimal
)

// ParseKind maps a config name to a Kind. Unknown names are text.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "currency", "moeda":
		return KindCurrency
	case "percent", "percentual":
		return KindPercent
	case "integer", "inteiro":
		return KindInteger
	case "decimal":
		return KindDecimal
	default:
		return KindText
	}
}

// String returns the config name of k.
func (k Kind) String() string {
	switch k {
	case KindCurrency:
		return "currency"
	case KindPercent:
		return "percent"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	default:
		return "text"
	}
}

// Format renders raw according to kind. Text passes through trimmed.
func Format(kind Kind, raw string) string {
	switch kind {
	case KindCurrency:
		return Currency(Number(raw))
	case KindPercent:
		return Percent(Number(raw))
	case KindInteger:
		return Integer(Number(raw))
	case KindDecimal:
		return Decimal(Number(raw))
	default:
		return strings.TrimSpace(raw)
	}
}

// Currency formats v as "R$ 1.234,56".
func Currency(v float64) string {
	if v < 0 {
		return "-R$ " + grouped(-v, 2)
	}
	return "R$ " + grouped(v, 2)
}

// Percent formats v (already in percent units) as "12,34%".
func Percent(v float64) string {
	if v < 0 {
		return "-" + grouped(-v, 2) + "%"
	}
	return grouped(v, 2) + "%"
}

// Integer formats v rounded to a plain digit string.
func Integer(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// Decimal formats v with the shortest representation and a decimal comma.
func Decimal(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// grouped renders a non-negative v with dot thousands and comma decimals.
func grouped(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
