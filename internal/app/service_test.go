package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/painel/internal/adapters/audit"
	"github.com/okian/painel/internal/adapters/repository"
	"github.com/okian/painel/internal/adapters/sheets"
	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/edits"
	"github.com/okian/painel/internal/domain/filter"
	"github.com/okian/painel/internal/domain/indicator"
	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/sales"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *sheets.Memory {
	return sheets.NewMemory(map[string][][]string{
		"PEX": {
			{"Unidade", "Quarter", "Cluster", "Consultor", "Pontuação Total", "NPS"},
			{"A", "1", "Norte", "Ana", "80", "70"},
			{"B", "1", "Sul", "Bia", "70", "90"},
			{"C", "1", "Norte", "Ana", "95", "50"},
			{"A", "2", "Norte", "Ana", "90", "70"},
			{"B", "2º", "Sul", "Bia", "100", "90"},
		},
		"VENDAS": {
			{"Data", "Unidade", "Consultor", "Produto", "Valor"},
			{"01/03/2024", "A", "Ana", "Graduação", "R$ 1.000,00"},
			{"15/03/2024", "A", "Ana", "Pós", "500"},
			{"02/04/2024", "B", "Bia", "Graduação", "2.000"},
		},
		"METAS_VENDAS": {
			{"UNIDADE", "META"},
			{"A", "R$ 3.000,00"},
			{"B", "1000"},
		},
		"PESOS": {
			{"INDICADOR", "1º TRI", "2º TRI"},
			{"VVR", "6", "5"},
			{"NPS", "4", "5"},
		},
	})
}

// flaky fails every Update after the first n.
type flaky struct {
	sheets.Source
	n     int32
	calls atomic.Int32
}

func (f *flaky) Update(ctx context.Context, cell, value string) error {
	if f.calls.Add(1) > f.n {
		return errors.New("quota exceeded")
	}
	return f.Source.Update(ctx, cell, value)
}

func newService(t *testing.T, src sheets.Source) (*service.Service, audit.Recorder) {
	store := repository.NewSheetStore(src,
		repository.WithPexRange("PEX!A:F"),
		repository.WithSalesRange("VENDAS!A:E"),
		repository.WithTable("pesos", repository.TableDef{Range: "PESOS!A:C", Format: normalize.KindDecimal, Weights: true}),
		repository.WithTable("metas_vendas", repository.TableDef{Range: "METAS_VENDAS!A:B", Format: normalize.KindCurrency}),
	)
	rec, err := audit.Open(context.Background(), filepath.Join(t.TempDir(), "audit.db"))
	So(err, ShouldBeNil)
	svc := service.New(store,
		service.WithAudit(rec),
		service.WithSalesTargets("metas_vendas", "meta"),
		service.WithClock(func() time.Time { return time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC) }),
	)
	return svc, rec
}

func units(entries []ranking.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Unit
	}
	return out
}

func TestRanking(t *testing.T) {
	Convey("Given a service over a PEX sheet", t, func() {
		ctx := context.Background()
		svc, rec := newService(t, fixture())
		defer func() { _ = rec.Close() }()

		Convey("When ranking every quarter by total score", func() {
			r, err := svc.Ranking(ctx, service.RankingQuery{})
			So(err, ShouldBeNil)

			Convey("Then means are ranked and ties keep sheet order", func() {
				So(units(r.Entries), ShouldResemble, []string{"C", "A", "B"})
				So(r.Entries[1].Mean, ShouldEqual, 85)
				So(r.Entries[2].Mean, ShouldEqual, 85)
				So(r.Label, ShouldEqual, indicator.Label(indicator.Total))
			})
		})

		Convey("When restricting to the first quarter", func() {
			r, err := svc.Ranking(ctx, service.RankingQuery{Periods: []string{"1º"}})
			So(err, ShouldBeNil)
			So(units(r.Entries), ShouldResemble, []string{"C", "A", "B"})
			So(r.Entries[1].Mean, ShouldEqual, 80)
			So(r.Periods, ShouldResemble, []string{"1"})
			So(r.Context(), ShouldEqual, "Q1")
		})

		Convey("When the records are filtered to one unit", func() {
			r, err := svc.Ranking(ctx, service.RankingQuery{Filter: filter.Filter{Unit: "A"}})
			So(err, ShouldBeNil)
			So(units(r.Entries), ShouldResemble, []string{"A"})
			So(r.Entries[0].Mean, ShouldEqual, 85)
			So(r.Entries[0].Position, ShouldEqual, 1)
		})

		Convey("When ranking by another indicator", func() {
			r, err := svc.Ranking(ctx, service.RankingQuery{Indicator: indicator.NPS})
			So(err, ShouldBeNil)
			So(units(r.Entries), ShouldResemble, []string{"B", "A", "C"})
		})

		Convey("When scoping to a cluster with group positions", func() {
			r, err := svc.Ranking(ctx, service.RankingQuery{
				Scope:   ranking.Scope{Cluster: "Norte"},
				GroupBy: ranking.ByCluster,
			})
			So(err, ShouldBeNil)

			Convey("Then positions restart within the scope", func() {
				So(units(r.Entries), ShouldResemble, []string{"C", "A"})
				So(r.Entries[1].Position, ShouldEqual, 2)
				So(len(r.Global), ShouldEqual, 3)
				So(r.Groups["B"], ShouldEqual, 1)
			})

			Convey("Then rows carry the group position column", func() {
				rows := r.Rows()
				So(rows[0]["group_position"], ShouldEqual, 1)
				So(r.Columns()[len(r.Columns())-1].Key, ShouldEqual, "group_position")
			})
		})

		Convey("When asking for one unit", func() {
			u, err := svc.Rank(ctx, "B", service.RankingQuery{})
			So(err, ShouldBeNil)
			So(u.Entry.Position, ShouldEqual, 3)
			So(u.Units, ShouldEqual, 3)
			So(u.GroupPosition, ShouldEqual, 1)
			So(u.GroupSize, ShouldEqual, 1)

			_, err = svc.Rank(ctx, "Z", service.RankingQuery{})
			So(errors.Is(err, ranking.ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing filters", func() {
			f, err := svc.Filters(ctx)
			So(err, ShouldBeNil)
			So(f.Periods, ShouldResemble, []string{"1", "2"})
			So(f.Clusters, ShouldResemble, []string{"Norte", "Sul"})
			So(f.Indicators[0].Value, ShouldEqual, string(indicator.Total))
		})

		Convey("When listing records of one cluster", func() {
			recs, err := svc.Records(ctx, filter.Filter{Cluster: "Sul"})
			So(err, ShouldBeNil)
			So(len(recs), ShouldEqual, 2)
		})
	})
}

func TestParseIndicator(t *testing.T) {
	Convey("Given indicator names", t, func() {
		id, err := service.ParseIndicator("")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, indicator.Total)

		id, err = service.ParseIndicator(" NPS ")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, indicator.NPS)

		_, err = service.ParseIndicator("unit")
		So(errors.Is(err, service.ErrInvalidQuery), ShouldBeTrue)
	})
}

func TestSalesSummary(t *testing.T) {
	Convey("Given a service over a Vendas sheet with targets", t, func() {
		ctx := context.Background()
		svc, rec := newService(t, fixture())
		defer func() { _ = rec.Close() }()

		Convey("When summarizing by unit", func() {
			r, err := svc.SalesSummary(ctx, service.SalesQuery{})
			So(err, ShouldBeNil)

			Convey("Then groups rank by total and compare with targets", func() {
				So(r.Rows, ShouldEqual, 3)
				So(r.Summaries[0].Key, ShouldEqual, "B")
				So(r.Summaries[0].PercentOfTarget, ShouldEqual, 200)
				So(r.Summaries[1].Total, ShouldEqual, 1500)
				So(r.Summaries[1].PercentOfTarget, ShouldEqual, 50)
				So(r.Totals.Total, ShouldEqual, 3500)
			})
		})

		Convey("When filtering by a date range", func() {
			r, err := svc.SalesSummary(ctx, service.SalesQuery{
				Filter:  filter.Filter{From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
				GroupBy: sales.ByMonth,
			})
			So(err, ShouldBeNil)
			So(len(r.Summaries), ShouldEqual, 1)
			So(r.Summaries[0].Key, ShouldEqual, "2024-03")
			So(r.Summaries[0].Count, ShouldEqual, 2)
			So(r.Context(), ShouldEqual, "month_2024-03-01_2024-03-31")
			So(len(r.TableRows()), ShouldEqual, 1)
		})
	})
}

func TestCommitConfig(t *testing.T) {
	Convey("Given a weight table", t, func() {
		ctx := context.Background()
		mem := fixture()
		svc, rec := newService(t, mem)
		defer func() { _ = rec.Close() }()

		Convey("When the batch keeps the period at 10", func() {
			res, err := svc.CommitConfig(ctx, "pesos", []edits.Change{
				{Entity: "vvr", Field: "1º tri", Value: "7"},
				{Entity: "NPS", Field: "1º TRI", Value: "3"},
			})
			So(err, ShouldBeNil)

			Convey("Then every cell is written in order and audited", func() {
				So(res.OK(), ShouldBeTrue)
				So(len(res.Applied), ShouldEqual, 2)
				So(mem.Writes(), ShouldResemble, []string{"PESOS!B2", "PESOS!B3"})

				entries, err := svc.Audit(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Batch, ShouldEqual, res.Batch)
				So(entries[0].Outcome, ShouldEqual, audit.Applied)
			})

			Convey("Then the table reflects the new values", func() {
				tbl, err := svc.ConfigTable(ctx, "pesos")
				So(err, ShouldBeNil)
				So(tbl.Column("1º TRI")["VVR"], ShouldEqual, "7")
			})
		})

		Convey("When two edits name the same cell with different spellings", func() {
			res, err := svc.CommitConfig(ctx, "pesos", []edits.Change{
				{Entity: "vvr", Field: "1º TRI", Value: "7"},
				{Entity: "VVR", Field: "1º tri", Value: "6"},
			})
			So(err, ShouldBeNil)

			Convey("Then they merge into one write with the last value", func() {
				So(res.OK(), ShouldBeTrue)
				So(mem.Writes(), ShouldResemble, []string{"PESOS!B2"})
				So(res.Applied, ShouldResemble, []edits.Change{{Entity: "VVR", Field: "1º TRI", Value: "6"}})

				entries, err := svc.Audit(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(svc.GetStats(ctx)["writes"], ShouldEqual, 1)
			})
		})

		Convey("When the batch breaks the sum", func() {
			_, err := svc.CommitConfig(ctx, "pesos", []edits.Change{{Entity: "VVR", Field: "1º TRI", Value: "7"}})

			Convey("Then nothing is written", func() {
				So(errors.Is(err, edits.ErrWeightSum), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "sums to 11")
				So(mem.Writes(), ShouldBeEmpty)
			})
		})

		Convey("When a change names an unknown entity", func() {
			_, err := svc.CommitConfig(ctx, "pesos", []edits.Change{{Entity: "XYZ", Field: "1º TRI", Value: "1"}})
			So(errors.Is(err, repository.ErrUnknownEntity), ShouldBeTrue)
			So(mem.Writes(), ShouldBeEmpty)
		})

		Convey("When the batch is empty", func() {
			_, err := svc.CommitConfig(ctx, "pesos", nil)
			So(errors.Is(err, edits.ErrEmpty), ShouldBeTrue)
		})

		Convey("When the table is unknown", func() {
			_, err := svc.CommitConfig(ctx, "nope", []edits.Change{{Entity: "A", Field: "B", Value: "1"}})
			So(errors.Is(err, repository.ErrUnknownTable), ShouldBeTrue)
		})
	})

	Convey("Given a source that fails on the second write", t, func() {
		ctx := context.Background()
		mem := fixture()
		svc, rec := newService(t, &flaky{Source: mem, n: 1})
		defer func() { _ = rec.Close() }()

		res, err := svc.CommitConfig(ctx, "pesos", []edits.Change{
			{Entity: "VVR", Field: "1º TRI", Value: "5"},
			{Entity: "NPS", Field: "1º TRI", Value: "5"},
			{Entity: "VVR", Field: "2º TRI", Value: "5"},
		})

		Convey("Then the commit stops and reports what was applied", func() {
			So(err, ShouldBeNil)
			So(res.OK(), ShouldBeFalse)
			So(len(res.Applied), ShouldEqual, 1)
			So(res.Failed.Entity, ShouldEqual, "NPS")
			So(len(res.Pending), ShouldEqual, 1)
			So(res.Message, ShouldContainSubstring, "1 pending")
			So(mem.Writes(), ShouldResemble, []string{"PESOS!B2"})
		})

		Convey("Then the failed write is audited", func() {
			entries, err := svc.Audit(ctx, 0)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].Outcome, ShouldEqual, audit.Failed)
			So(entries[0].Error, ShouldContainSubstring, "quota")
		})
	})
}

func TestUpdateConfig(t *testing.T) {
	Convey("Given a sales target table", t, func() {
		ctx := context.Background()
		mem := fixture()
		svc, rec := newService(t, mem)
		defer func() { _ = rec.Close() }()

		Convey("When updating one target", func() {
			wr, err := svc.UpdateConfig(ctx, "metas_vendas", edits.Change{Entity: "B", Field: "META", Value: "2500"})

			Convey("Then the value is written in currency format", func() {
				So(err, ShouldBeNil)
				So(wr.Cell, ShouldEqual, "METAS_VENDAS!B3")
				So(wr.Value, ShouldEqual, "R$ 2.500,00")
			})
		})

		Convey("When stats are requested", func() {
			stats := svc.GetStats(ctx)
			So(stats["auditEnabled"], ShouldEqual, true)
			So(stats["tables"], ShouldResemble, []string{"metas_vendas", "pesos"})
		})
	})
}
