package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *sheets.Memory {
	return sheets.NewMemory(map[string][][]string{
		"PEX": {
			{"Nome da Unidade", "Trimestre", "Cluster", "Consultor", "VVR", "Pontuação Total"},
			{"Curitiba", "1º Quarter", "Graduado", "Ana", "90", "85,5"},
			{"", "", "", "", "", ""},
			{"Londrina", "Q1", "", "", "70", "60"},
			{"", "2", "", "", "", "99"},
		},
		"VENDAS": {
			{"Data", "Unidade", "Produto", "Valor"},
			{"09/03/2024", "Curitiba", "Graduação", "R$ 1.200,50"},
			{"ontem", "Londrina", "Pós", "300"},
		},
		"PESOS": {
			{"INDICADOR", "1º TRI", "2º TRI"},
			{"VVR", "5", "4"},
			{"NPS", "5", "6"},
		},
		"CLUSTERS": {
			{"UNIDADE", "CLUSTER"},
			{"Londrina", "Pós Graduado"},
		},
	})
}

func newStore(src sheets.Source) *repository.SheetStore {
	return repository.NewSheetStore(src,
		repository.WithPexRange("PEX!A:F"),
		repository.WithSalesRange("VENDAS!A:D"),
		repository.WithTable("pesos", repository.TableDef{Range: "PESOS!A:C", Format: normalize.KindDecimal, Weights: true}),
		repository.WithTable("clusters", repository.TableDef{Range: "CLUSTERS!A:B", Key: "unidade"}),
		repository.WithAssignments("clusters", ""),
	)
}

func TestRecords(t *testing.T) {
	Convey("Given a PEX sheet", t, func() {
		ctx := context.Background()
		store := newStore(fixture())

		Convey("When loading records", func() {
			recs, err := store.Records(ctx)
			So(err, ShouldBeNil)

			Convey("Then blank rows and rows without a unit are skipped", func() {
				So(len(recs), ShouldEqual, 2)
			})

			Convey("Then headers resolve through aliases", func() {
				So(recs[0].Unit, ShouldEqual, "Curitiba")
				So(recs[0].Period, ShouldEqual, "1")
				So(recs[0].Score(indicator.Total), ShouldEqual, 85.5)
				So(recs[0].Score(indicator.VVR), ShouldEqual, 90)
				So(recs[0].Row, ShouldEqual, 2)
				So(recs[1].Row, ShouldEqual, 4)
			})

			Convey("Then blank clusters come from the assignment table", func() {
				So(recs[0].Cluster, ShouldEqual, "Graduado")
				So(recs[1].Cluster, ShouldEqual, "Pós Graduado")
			})
		})

		Convey("When the unit column is missing", func() {
			src := sheets.NewMemory(map[string][][]string{"PEX": {{"Trimestre", "Total"}, {"1", "3"}}})
			_, err := newStore(src).Records(ctx)
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
		})

		Convey("When the sheet is empty", func() {
			src := sheets.NewMemory(map[string][][]string{"PEX": {}})
			_, err := newStore(src).Records(ctx)
			So(errors.Is(err, repository.ErrNoHeader), ShouldBeTrue)
		})

		Convey("When the source is not configured", func() {
			_, err := newStore(sheets.Unconfigured{}).Records(ctx)
			So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func TestSales(t *testing.T) {
	Convey("Given a Vendas sheet", t, func() {
		out, err := newStore(fixture()).Sales(context.Background())
		So(err, ShouldBeNil)
		So(len(out), ShouldEqual, 2)

		Convey("Then values are normalized and quantity defaults to one", func() {
			So(out[0].Value, ShouldEqual, 1200.5)
			So(out[0].Quantity, ShouldEqual, 1)
			So(out[0].SoldAt.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(out[0].Product, ShouldEqual, "Graduação")
		})

		Convey("Then unparseable dates stay zero", func() {
			So(out[1].SoldAt.IsZero(), ShouldBeTrue)
			So(out[1].Cluster, ShouldEqual, "Pós Graduado")
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a weights table", t, func() {
		ctx := context.Background()
		store := newStore(fixture())

		Convey("When loading it", func() {
			tbl, err := store.Table(ctx, "pesos")
			So(err, ShouldBeNil)
			So(tbl.KeyHeader, ShouldEqual, "INDICADOR")
			So(tbl.Fields, ShouldResemble, []string{"1º TRI", "2º TRI"})
			So(tbl.Columns, ShouldResemble, map[string]int{"1º TRI": 2, "2º TRI": 3})
			So(tbl.Rows[1].Entity, ShouldEqual, "NPS")
			So(tbl.Rows[1].Row, ShouldEqual, 3)
			So(tbl.Rows[1].Values["2º TRI"], ShouldEqual, "6")
		})

		Convey("When the table is unknown", func() {
			_, err := store.Table(ctx, "nope")
			So(errors.Is(err, repository.ErrUnknownTable), ShouldBeTrue)
		})

		Convey("When listing tables", func() {
			So(store.Tables(), ShouldResemble, []string{"clusters", "pesos"})
			def, ok := store.Definition("pesos")
			So(ok, ShouldBeTrue)
			So(def.Weights, ShouldBeTrue)
		})
	})
}

func TestWriteConfig(t *testing.T) {
	Convey("Given a weights table", t, func() {
		ctx := context.Background()
		src := fixture()
		store := newStore(src)

		Convey("When writing a single change", func() {
			w, err := store.WriteConfig(ctx, "pesos", edits.Change{Entity: "nps", Field: "2º tri", Value: "5.5"})

			Convey("Then the formatted value lands in the right cell", func() {
				So(err, ShouldBeNil)
				So(w.Cell, ShouldEqual, "PESOS!C3")
				So(w.Value, ShouldEqual, "5,5")
				rows, _ := src.Values(ctx, "PESOS!C3")
				So(rows, ShouldResemble, [][]string{{"5,5"}})
			})
		})

		Convey("When the entity is unknown", func() {
			_, err := store.WriteConfig(ctx, "pesos", edits.Change{Entity: "MAC", Field: "1º TRI", Value: "1"})
			So(errors.Is(err, repository.ErrUnknownEntity), ShouldBeTrue)
			So(src.Writes(), ShouldBeEmpty)
		})

		Convey("When the field is unknown", func() {
			_, err := store.WriteConfig(ctx, "pesos", edits.Change{Entity: "VVR", Field: "3º TRI", Value: "1"})
			So(errors.Is(err, repository.ErrUnknownField), ShouldBeTrue)
		})

		Convey("When committing through a table writer", func() {
			tw, err := store.Writer(ctx, "pesos")
			So(err, ShouldBeNil)
			res := edits.Commit(ctx, tw, []edits.Change{
				{Entity: "VVR", Field: "1º TRI", Value: "6"},
				{Entity: "NPS", Field: "1º TRI", Value: "4"},
			})

			Convey("Then every cell is written in order and the table reflects it", func() {
				So(res.OK(), ShouldBeTrue)
				So(src.Writes(), ShouldResemble, []string{"PESOS!B2", "PESOS!B3"})
				So(tw.Table().Rows[0].Values["1º TRI"], ShouldEqual, "6")
			})
		})
	})
}
