package edits_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/painel/internal/domain/edits"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	written []edits.Change
	failOn  string
}

func (r *recorder) Write(_ context.Context, c edits.Change) error {
	if c.Entity == r.failOn {
		return errors.New("quota exceeded")
	}
	r.written = append(r.written, c)
	return nil
}

func TestChangeSet(t *testing.T) {
	Convey("Given a change set", t, func() {
		s := edits.NewChangeSet()
		s.Set(edits.Change{Entity: "Graduado", Field: "1", Value: "100"})
		s.Set(edits.Change{Entity: "Pós", Field: "1", Value: "200"})

		Convey("When the same pair is edited again", func() {
			s.Set(edits.Change{Entity: "Graduado", Field: "1", Value: "150"})

			Convey("Then the value is replaced in place", func() {
				So(s.Len(), ShouldEqual, 2)
				So(s.Changes()[0].Value, ShouldEqual, "150")
				v, ok := s.Get("Graduado", "1")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "150")
			})
		})

		Convey("When a different field is edited", func() {
			s.Set(edits.Change{Entity: "Graduado", Field: "2", Value: "1"})
			So(s.Len(), ShouldEqual, 3)
		})
	})

	Convey("Changes without entity or field are invalid", t, func() {
		So(errors.Is(edits.Change{Field: "1"}.Validate(), edits.ErrInvalid), ShouldBeTrue)
		So(errors.Is(edits.Change{Entity: "x"}.Validate(), edits.ErrInvalid), ShouldBeTrue)
		So(edits.Change{Entity: "x", Field: "1"}.Validate(), ShouldBeNil)
	})
}

func TestCommit(t *testing.T) {
	changes := []edits.Change{
		{Entity: "a", Field: "1", Value: "1"},
		{Entity: "b", Field: "1", Value: "2"},
		{Entity: "c", Field: "1", Value: "3"},
	}

	Convey("Given a writer that always succeeds", t, func() {
		w := &recorder{}
		res := edits.Commit(context.Background(), w, changes)

		Convey("Then every change is written in order", func() {
			So(res.OK(), ShouldBeTrue)
			So(w.written, ShouldResemble, changes)
			So(res.Applied, ShouldResemble, changes)
			So(res.Pending, ShouldBeEmpty)
			So(res.Failed, ShouldBeNil)
		})
	})

	Convey("Given a writer that fails on the second change", t, func() {
		w := &recorder{failOn: "b"}
		res := edits.Commit(context.Background(), w, changes)

		Convey("Then the commit stops and reports the split", func() {
			So(res.OK(), ShouldBeFalse)
			So(res.Applied, ShouldResemble, changes[:1])
			So(*res.Failed, ShouldResemble, changes[1])
			So(res.Pending, ShouldResemble, changes[2:])
			So(res.Err.Error(), ShouldContainSubstring, "quota exceeded")
			So(w.written, ShouldResemble, changes[:1])
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := &recorder{}
		res := edits.Commit(ctx, w, changes)

		So(errors.Is(res.Err, context.Canceled), ShouldBeTrue)
		So(w.written, ShouldBeEmpty)
		So(len(res.Pending), ShouldEqual, 2)
	})

	Convey("WriterFunc adapts a function", t, func() {
		var n int
		res := edits.Commit(context.Background(), edits.WriterFunc(func(context.Context, edits.Change) error {
			n++
			return nil
		}), changes)
		So(res.OK(), ShouldBeTrue)
		So(n, ShouldEqual, 3)
	})
}

func TestWeights(t *testing.T) {
	Convey("Given weights for one period", t, func() {
		Convey("When they sum to ten", func() {
			err := edits.ValidateWeightSum(map[string]string{"VVR": "2,5", "MAC": "2.5", "NPS": "5"}, "1")
			So(err, ShouldBeNil)
		})

		Convey("When floating point noise is present", func() {
			err := edits.ValidateWeightSum(map[string]string{"a": "0.1", "b": "0.2", "c": "9.7"}, "1")
			So(err, ShouldBeNil)
		})

		Convey("When they do not sum to ten", func() {
			err := edits.ValidateWeightSum(map[string]string{"VVR": "3", "MAC": "3"}, "2")
			So(errors.Is(err, edits.ErrWeightSum), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "period 2 sums to 6")
		})
	})

	Convey("Given a weight table and pending edits", t, func() {
		current := map[string]map[string]string{
			"1": {"VVR": "5", "MAC": "5"},
			"2": {"VVR": "4", "MAC": "4"},
		}

		Convey("When edits keep the touched period at ten", func() {
			err := edits.ValidateWeights(current, []edits.Change{
				{Entity: "VVR", Field: "1", Value: "6"},
				{Entity: "MAC", Field: "1", Value: "4"},
			})
			So(err, ShouldBeNil)
		})

		Convey("When an edit breaks the sum", func() {
			err := edits.ValidateWeights(current, []edits.Change{{Entity: "VVR", Field: "1", Value: "6"}})
			So(errors.Is(err, edits.ErrWeightSum), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "period 1 sums to 11")
		})

		Convey("Then the current table is not modified", func() {
			_ = edits.ValidateWeights(current, []edits.Change{{Entity: "VVR", Field: "1", Value: "9"}})
			So(current["1"]["VVR"], ShouldEqual, "5")
		})
	})
}
