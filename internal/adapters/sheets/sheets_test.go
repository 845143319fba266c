package sheets_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/painel/internal/adapters/sheets"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRange(t *testing.T) {
	Convey("Given A1 ranges", t, func() {
		Convey("When only columns are given", func() {
			r, err := sheets.ParseRange("PEX!A:H")
			So(err, ShouldBeNil)
			So(r, ShouldResemble, sheets.Range{Sheet: "PEX", FromCol: 1, ToCol: 8})
			So(r.FirstRow(), ShouldEqual, 1)
		})

		Convey("When the sheet name is quoted", func() {
			r, err := sheets.ParseRange("'Metas 2025'!B3:C9")
			So(err, ShouldBeNil)
			So(r, ShouldResemble, sheets.Range{Sheet: "Metas 2025", FromCol: 2, FromRow: 3, ToCol: 3, ToRow: 9})
			So(r.String(), ShouldEqual, "'Metas 2025'!B3:C9")
		})

		Convey("When an unquoted name has spaces", func() {
			r, err := sheets.ParseRange("PESOS 2025!A:F")
			So(err, ShouldBeNil)
			So(r.Sheet, ShouldEqual, "PESOS 2025")
			So(r.String(), ShouldEqual, "'PESOS 2025'!A:F")
		})

		Convey("When only a sheet is given", func() {
			r, err := sheets.ParseRange("VENDAS")
			So(err, ShouldBeNil)
			So(r.String(), ShouldEqual, "VENDAS")
		})

		Convey("When a single cell is given", func() {
			r, err := sheets.ParseRange("METAS!$C$5")
			So(err, ShouldBeNil)
			So(r.FromCol, ShouldEqual, 3)
			So(r.FromRow, ShouldEqual, 5)
		})

		Convey("When the range is malformed", func() {
			for _, in := range []string{"", "!A:B", "PEX!A:1B", "PEX!C:A", "'open!A:B"} {
				_, err := sheets.ParseRange(in)
				So(errors.Is(err, sheets.ErrBadRange), ShouldBeTrue)
			}
		})
	})
}

func TestClip(t *testing.T) {
	Convey("Given rows read from A1", t, func() {
		rows := [][]string{
			{"h1", "h2", "h3", "h4"},
			{"a", "b", "", ""},
			{"c", "d", "e", "f"},
		}

		Convey("When clipping columns B:C", func() {
			r, _ := sheets.ParseRange("S!B:C")
			So(r.Clip(rows), ShouldResemble, [][]string{{"h2", "h3"}, {"b"}, {"d", "e"}})
		})

		Convey("When clipping rows 2 onwards", func() {
			r, _ := sheets.ParseRange("S!A2:B")
			So(r.Clip(rows), ShouldResemble, [][]string{{"a", "b"}, {"c", "d"}})
		})

		Convey("When the range starts past the data", func() {
			r, _ := sheets.ParseRange("S!A10:B")
			So(r.Clip(rows), ShouldBeEmpty)
		})
	})
}

func TestCell(t *testing.T) {
	Convey("Cell addresses quote sheet names when needed", t, func() {
		c, err := sheets.Cell("METAS", 3, 5)
		So(err, ShouldBeNil)
		So(c, ShouldEqual, "METAS!C5")

		c, err = sheets.Cell("Metas D'Or", 28, 2)
		So(err, ShouldBeNil)
		So(c, ShouldEqual, "'Metas D''Or'!AB2")

		_, err = sheets.Cell("METAS", 0, 1)
		So(errors.Is(err, sheets.ErrBadRange), ShouldBeTrue)
	})
}

func TestMemory(t *testing.T) {
	Convey("Given an in-memory source", t, func() {
		ctx := context.Background()
		m := sheets.NewMemory(map[string][][]string{
			"METAS": {{"CLUSTER", "1"}, {"Graduado", "10"}},
		})

		Convey("When updating beyond the current size", func() {
			So(m.Update(ctx, "METAS!D3", "7"), ShouldBeNil)
			rows, err := m.Values(ctx, "METAS!A:D")
			So(err, ShouldBeNil)
			So(rows[2], ShouldResemble, []string{"", "", "", "7"})
			So(m.Writes(), ShouldResemble, []string{"METAS!D3"})
		})

		Convey("When reading an unknown sheet", func() {
			_, err := m.Values(ctx, "NOPE!A:B")
			So(errors.Is(err, sheets.ErrNoSheet), ShouldBeTrue)
		})

		Convey("When writing a whole column", func() {
			So(errors.Is(m.Update(ctx, "METAS!A:A", "x"), sheets.ErrBadRange), ShouldBeTrue)
		})
	})
}

func TestWorkbook(t *testing.T) {
	Convey("Given a workbook on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "painel.xlsx")
		wb, err := sheets.CreateWorkbook(path, map[string][][]string{
			"PEX":          {{"UNIDADE", "TRIMESTRE", "PONTUAÇÃO TOTAL"}, {"Curitiba", "1", "85,5"}},
			"METAS VENDAS": {{"UNIDADE", "META"}, {"Curitiba", "1000"}},
		})
		So(err, ShouldBeNil)
		defer func() { _ = wb.Close() }()

		Convey("When reading a range", func() {
			rows, err := wb.Values(ctx, "PEX!A:C")
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, [][]string{{"UNIDADE", "TRIMESTRE", "PONTUAÇÃO TOTAL"}, {"Curitiba", "1", "85,5"}})
		})

		Convey("When updating a cell on a quoted sheet", func() {
			So(wb.Update(ctx, "'METAS VENDAS'!B2", "1500"), ShouldBeNil)

			Convey("Then the change is saved to disk", func() {
				reopened, err := sheets.OpenWorkbook(path)
				So(err, ShouldBeNil)
				defer func() { _ = reopened.Close() }()
				rows, err := reopened.Values(ctx, "'METAS VENDAS'!A:B")
				So(err, ShouldBeNil)
				So(rows[1], ShouldResemble, []string{"Curitiba", "1500"})
			})
		})

		Convey("When the sheet does not exist", func() {
			_, err := wb.Values(ctx, "NOPE!A:B")
			So(errors.Is(err, sheets.ErrNoSheet), ShouldBeTrue)
			So(errors.Is(wb.Update(ctx, "NOPE!A1", "x"), sheets.ErrNoSheet), ShouldBeTrue)
		})
	})

	Convey("Opening without a path is not configured", t, func() {
		_, err := sheets.OpenWorkbook("")
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
	})
}

func TestGoogleSourceConfig(t *testing.T) {
	Convey("Given incomplete Google settings", t, func() {
		ctx := context.Background()

		_, err := sheets.NewGoogleSource(ctx, sheets.GoogleConfig{CredentialsFile: "sa.json"})
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)

		_, err = sheets.NewGoogleSource(ctx, sheets.GoogleConfig{SpreadsheetID: "abc"})
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
	})
}

func TestDecorators(t *testing.T) {
	Convey("Given an unconfigured source", t, func() {
		ctx := context.Background()
		var src sheets.Source = sheets.Unconfigured{}
		_, err := src.Values(ctx, "PEX!A:B")
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
		So(errors.Is(src.Update(ctx, "PEX!A1", "x"), sheets.ErrNotConfigured), ShouldBeTrue)
	})

	Convey("Given an instrumented source", t, func() {
		ctx := context.Background()
		mem := sheets.NewMemory(map[string][][]string{"PEX": {{"UNIDADE"}, {"A"}}})
		src := sheets.Instrument(mem, nil)

		Convey("Then calls pass through", func() {
			rows, err := src.Values(ctx, "PEX!A:A")
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(src.Update(ctx, "PEX!A2", "B"), ShouldBeNil)
			So(mem.Writes(), ShouldResemble, []string{"PEX!A2"})
		})

		Convey("Then errors are returned unchanged", func() {
			_, err := src.Values(ctx, "NOPE!A:A")
			So(errors.Is(err, sheets.ErrNoSheet), ShouldBeTrue)
		})
	})
}
