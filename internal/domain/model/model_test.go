package model_test

import (
	"testing"
	"time"

	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	Convey("Given a PEX record", t, func() {
		r := model.Record{
			Unit:    "Centro",
			Period:  "1",
			Cluster: "Graduado",
			Values: map[indicator.ID]string{
				indicator.Total: "85,5",
				indicator.NPS:   "n/a",
			},
		}

		Convey("Then scores are normalized", func() {
			So(r.Score(indicator.Total), ShouldAlmostEqual, 85.5)
			So(r.Score(indicator.NPS), ShouldEqual, 0)
			So(r.Score(indicator.VVR), ShouldEqual, 0)
		})

		Convey("Then filter fields are exposed", func() {
			v, ok := r.Field(model.FieldCluster)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "Graduado")

			_, ok = r.Field(model.FieldConsultant)
			So(ok, ShouldBeFalse)

			_, ok = r.Field("unknown")
			So(ok, ShouldBeFalse)

			_, ok = r.Date()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSale(t *testing.T) {
	Convey("Given a sale", t, func() {
		s := model.Sale{Unit: "Centro", SoldAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
		d, ok := s.Date()
		So(ok, ShouldBeTrue)
		So(d.Day(), ShouldEqual, 10)

		_, ok = model.Sale{}.Date()
		So(ok, ShouldBeFalse)

		_, ok = s.Field(model.FieldPeriod)
		So(ok, ShouldBeFalse)
	})
}

func TestNormalizePeriod(t *testing.T) {
	Convey("Given quarter spellings", t, func() {
		So(model.NormalizePeriod("1"), ShouldEqual, "1")
		So(model.NormalizePeriod("2º"), ShouldEqual, "2")
		So(model.NormalizePeriod("Q3"), ShouldEqual, "3")
		So(model.NormalizePeriod("4º QUARTER"), ShouldEqual, "4")
		So(model.NormalizePeriod(" Trimestre 1 "), ShouldEqual, "1")
		So(model.NormalizePeriod("2024"), ShouldEqual, "2024")
		So(model.NormalizePeriod("QUARTER"), ShouldEqual, "QUARTER")
		So(model.NormalizePeriod("Q5"), ShouldEqual, "Q5")
	})
}

func TestConfigTable(t *testing.T) {
	Convey("Given a weights table", t, func() {
		tbl := &model.ConfigTable{
			Name:    "pesos",
			Fields:  []string{"1º QUARTER", "2º QUARTER"},
			Formats: map[string]normalize.Kind{"1º QUARTER": normalize.KindDecimal},
			Default: normalize.KindText,
			Rows: []model.ConfigRow{
				{Entity: "VVR", Values: map[string]string{"1º QUARTER": "3", "2º QUARTER": "2"}, Row: 2},
				{Entity: "NPS", Values: map[string]string{"1º QUARTER": "7", "2º QUARTER": "8"}, Row: 3},
			},
		}

		Convey("Then rows are found case-insensitively", func() {
			r, ok := tbl.Find(" vvr ")
			So(ok, ShouldBeTrue)
			So(r.Row, ShouldEqual, 2)
			_, ok = tbl.Find("MAC")
			So(ok, ShouldBeFalse)
		})

		Convey("Then fields resolve ignoring accents and case", func() {
			f, ok := tbl.Field("1o quarter")
			So(ok, ShouldBeFalse)
			f, ok = tbl.Field("1º quarter")
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, "1º QUARTER")
		})

		Convey("Then formats fall back to the default", func() {
			So(tbl.Format("1º QUARTER"), ShouldEqual, normalize.KindDecimal)
			So(tbl.Format("2º QUARTER"), ShouldEqual, normalize.KindText)
		})

		Convey("Then a column is keyed by entity", func() {
			So(tbl.Column("2º QUARTER"), ShouldResemble, map[string]string{"VVR": "2", "NPS": "8"})
		})

		Convey("Then values can be replaced by entity", func() {
			So(tbl.Set("nps", "1º QUARTER", "6"), ShouldBeTrue)
			So(tbl.Rows[1].Values["1º QUARTER"], ShouldEqual, "6")
			So(tbl.Set("MAC", "1º QUARTER", "1"), ShouldBeFalse)
		})
	})
}
