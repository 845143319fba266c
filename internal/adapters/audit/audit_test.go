package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpen(t *testing.T) {
	Convey("Given no path", t, func() {
		rec, err := Open(context.Background(), "")

		Convey("Then a no-op recorder is returned", func() {
			So(err, ShouldBeNil)
			So(rec, ShouldHaveSameTypeAs, Nop{})
			So(rec.Record(context.Background(), Entry{}), ShouldBeNil)
			out, err := rec.Recent(context.Background(), 10)
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})
	})
}

func TestSQLite(t *testing.T) {
	Convey("Given a SQLite audit log", t, func() {
		ctx := context.Background()
		db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "audit.db"))
		So(err, ShouldBeNil)
		defer func() { _ = db.Close() }()

		base := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
		tick := 0
		db.now = func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}

		batch := NewBatch()
		So(db.Record(ctx, Entry{Batch: batch, Table: "pesos", Entity: "VVR", Field: "1º TRI", Cell: "PESOS!B2", Value: "6", Outcome: Applied}), ShouldBeNil)
		So(db.Record(ctx, Entry{Batch: batch, Table: "pesos", Entity: "NPS", Field: "1º TRI", Cell: "PESOS!B3", Value: "4", Outcome: Failed, Error: "quota"}), ShouldBeNil)

		Convey("When listing recent entries", func() {
			out, err := db.Recent(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then the newest comes first with every field kept", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].Entity, ShouldEqual, "NPS")
				So(out[0].Outcome, ShouldEqual, Failed)
				So(out[0].Error, ShouldEqual, "quota")
				So(out[0].Batch, ShouldEqual, batch)
				So(out[0].ID, ShouldNotBeEmpty)
				So(out[0].At.Equal(base.Add(2*time.Second)), ShouldBeTrue)
				So(out[1].Field, ShouldEqual, "1º TRI")
			})
		})

		Convey("When the limit is smaller than the log", func() {
			out, err := db.Recent(ctx, 1)
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 1)
		})

		Convey("When closing twice", func() {
			So(db.Close(), ShouldBeNil)
			So(db.Close(), ShouldEqual, ErrClosed)
		})
	})
}
