package indicator_test

import (
	"testing"

	"github.com/okian/painel/internal/domain/indicator"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFold(t *testing.T) {
	Convey("Given header spellings with accents and odd spacing", t, func() {
		So(indicator.Fold("  Pontuação   Total "), ShouldEqual, "PONTUACAO TOTAL")
		So(indicator.Fold("Satisfação do colaborador"), ShouldEqual, "SATISFACAO DO COLABORADOR")
		So(indicator.Fold("bônus"), ShouldEqual, "BONUS")
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a header row with spelling variants", t, func() {
		header := []string{"Nome da Unidade", "TRIMESTRE", "Cluster", "Consultor Responsável", "% Endividamento", "Pontuação Total", "Observações"}
		cols := indicator.Resolve(header)

		Convey("Then every known variant maps to its canonical id", func() {
			So(cols[indicator.Unit], ShouldEqual, 0)
			So(cols[indicator.Period], ShouldEqual, 1)
			So(cols[indicator.Cluster], ShouldEqual, 2)
			So(cols[indicator.Consultant], ShouldEqual, 3)
			So(cols[indicator.Indebtedness], ShouldEqual, 4)
			So(cols[indicator.Total], ShouldEqual, 5)
		})

		Convey("Then unknown headers are ignored", func() {
			So(len(cols), ShouldEqual, 6)
		})

		Convey("Then missing ids are reported", func() {
			So(cols.Missing(indicator.Unit, indicator.NPS), ShouldResemble, []indicator.ID{indicator.NPS})
		})

		Convey("Then cells are read by id", func() {
			row := []string{" Centro ", "1", "Graduado"}
			v, ok := cols.Cell(row, indicator.Unit)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "Centro")

			_, ok = cols.Cell(row, indicator.Total)
			So(ok, ShouldBeFalse)

			_, ok = cols.Cell(row, indicator.NPS)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given duplicate headers for the same id", t, func() {
		cols := indicator.Resolve([]string{"TOTAL", "PONTUAÇÃO"})
		So(cols[indicator.Total], ShouldEqual, 0)
	})
}

func TestLabels(t *testing.T) {
	Convey("Given the indicator list", t, func() {
		for _, id := range indicator.Indicators() {
			So(indicator.Known(id), ShouldBeTrue)
			So(indicator.Label(id), ShouldNotBeEmpty)
		}
		So(indicator.Known("bogus"), ShouldBeFalse)
		So(indicator.Label("bogus"), ShouldEqual, "bogus")
	})
}
