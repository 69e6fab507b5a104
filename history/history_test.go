package history

import (
	"testing"
	"time"

	"github.com/pagevault/pagevault/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		now := time.Now()
		older := &Record{ID: "a", URL: "http://example.com", Handler: "default", Path: "/archive/Example.html", Outcome: OutcomeSuccess, At: now.Add(-time.Hour)}
		newer := &Record{ID: "b", URL: "http://other.org", Handler: "other", Path: "/archive/Other.html", Outcome: OutcomeToolError, At: now}

		Convey("When saving two records", func() {
			So(Save(older), ShouldBeNil)
			So(Save(newer), ShouldBeNil)

			Convey("Then they are returned newest first", func() {
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].ID, ShouldEqual, "b")
				So(records[1].ID, ShouldEqual, "a")
				So(records[1].Succeeded(), ShouldBeTrue)
				So(records[0].Succeeded(), ShouldBeFalse)
			})

			Convey("And saving the same ID replaces the record", func() {
				So(Save(&Record{ID: "a", URL: "http://example.com", Outcome: OutcomeVerification, At: now.Add(time.Hour)}), ShouldBeNil)
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Outcome, ShouldEqual, OutcomeVerification)
			})

			Convey("And removing one keeps the other", func() {
				So(Remove("a"), ShouldBeNil)
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].ID, ShouldEqual, "b")
			})

			Convey("And clearing empties the history", func() {
				So(Clear(), ShouldBeNil)
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("A record without an ID is rejected", func() {
			So(Save(&Record{URL: "x"}), ShouldNotBeNil)
		})
	})
}
