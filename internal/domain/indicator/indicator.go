// Package indicator holds the declarative alias table that maps canonical
// column identifiers to the header spellings found in the source sheets.
//
// Headers are resolved once per load with Resolve; callers then read cells
// by canonical ID instead of probing spelling variants.
package indicator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ID is a canonical column identifier.
type ID string

// Dimension columns shared by PEX and sales sheets.
const (
	Unit       ID = "unit"
	Period     ID = "period"
	Cluster    ID = "cluster"
	Consultant ID = "consultant"
)

// PEX indicator columns.
const (
	VVR          ID = "vvr"
	MAC          ID = "mac"
	Indebtedness ID = "indebtedness"
	NPS          ID = "nps"
	Margin       ID = "margin"
	ENPS         ID = "enps"
	Conformity   ID = "conformity"
	Bonus        ID = "bonus"
	Total        ID = "total"
)

// Sales columns.
const (
	Date     ID = "date"
	Value    ID = "value"
	Product  ID = "product"
	Quantity ID = "quantity"
)

type definition struct {
	label   string
	aliases []string
}

var definitions = map[ID]definition{
	Unit:         {"Unidade", []string{"UNIDADE", "NOME DA UNIDADE", "UNIDADES", "NOME UNIDADE", "FILIAL"}},
	Period:       {"Quarter", []string{"QUARTER", "TRIMESTRE", "PERIODO", "Q"}},
	Cluster:      {"Cluster", []string{"CLUSTER", "CLUSTER ATUAL"}},
	Consultant:   {"Consultor", []string{"CONSULTOR", "CONSULTOR RESPONSAVEL", "CONSULTORA", "VENDEDOR"}},
	VVR:          {"VVR", []string{"VVR", "VVR (%)", "% VVR", "VALOR VENDAS REALIZADAS"}},
	MAC:          {"MAC", []string{"MAC", "MAC (%)", "% MAC", "ATINGIMENTO MAC"}},
	Indebtedness: {"Endividamento", []string{"ENDIVIDAMENTO", "% ENDIVIDAMENTO", "ENDIVIDAMENTO (%)", "INDICE ENDIVIDAMENTO"}},
	NPS:          {"NPS", []string{"NPS", "NPS (%)"}},
	Margin:       {"Margem", []string{"MARGEM", "% MARGEM", "MARGEM (%)", "MARGEM EBITDA"}},
	ENPS:         {"e-NPS", []string{"E-NPS", "ENPS", "E NPS", "SATISFACAO COLABORADOR", "SATISFACAO DO COLABORADOR"}},
	Conformity:   {"Conformidade", []string{"CONFORMIDADE", "CONFORMIDADES", "% CONFORMIDADES", "% CONFORMIDADE"}},
	Bonus:        {"Bônus", []string{"BONUS", "BONIFICACAO"}},
	Total:        {"Pontuação Total", []string{"PONTUACAO TOTAL", "TOTAL", "PONTUACAO", "PONTUACAO COM BONUS", "NOTA FINAL"}},
	Date:         {"Data", []string{"DATA", "DATA DA VENDA", "DATA VENDA", "DT VENDA"}},
	Value:        {"Valor", []string{"VALOR", "VALOR DA VENDA", "VALOR VENDA", "VALOR TOTAL", "FATURAMENTO"}},
	Product:      {"Produto", []string{"PRODUTO", "CURSO", "PRODUTO VENDIDO"}},
	Quantity:     {"Quantidade", []string{"QUANTIDADE", "QTD", "QTDE"}},
}

// byAlias is the folded alias -> ID index, built once.
var byAlias = func() map[string]ID {
	idx := make(map[string]ID)
	for id, def := range definitions {
		for _, a := range def.aliases {
			idx[Fold(a)] = id
		}
	}
	return idx
}()

// Indicators lists the numeric PEX indicators in display order.
func Indicators() []ID {
	return []ID{Total, VVR, MAC, Indebtedness, NPS, Margin, ENPS, Conformity, Bonus}
}

// Known reports whether id is in the alias table.
func Known(id ID) bool {
	_, ok := definitions[id]
	return ok
}

// Label returns the display label for id.
func Label(id ID) string {
	if def, ok := definitions[id]; ok {
		return def.label
	}
	return string(id)
}

// Lookup maps a single header spelling to its canonical ID.
func Lookup(header string) (ID, bool) {
	id, ok := byAlias[Fold(header)]
	return id, ok
}

// Fold normalizes a header for comparison: accents removed, upper case,
// inner whitespace collapsed.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}
