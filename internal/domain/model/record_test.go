package model_test

import (
	"testing"

	model "github.com/okian/leadrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordColumnAccess(t *testing.T) {
	Convey("Given a fully populated record", t, func() {
		r := model.Record{
			CustomerID:           "c-1",
			Industry:             "fintech",
			Country:              "de",
			JobTitle:             "Head of Data",
			Bio:                  "builds pipelines",
			CompanySize:          250,
			WebActivityScore:     0.7,
			EmailEngagementScore: 0.4,
		}

		Convey("Then canonical columns resolve to their fields", func() {
			So(r.Text(model.ColJobTitle), ShouldEqual, "Head of Data")
			So(r.Text(model.ColBio), ShouldEqual, "builds pipelines")
			So(r.Categorical(model.ColIndustry), ShouldEqual, "fintech")
			So(r.Categorical(model.ColCountry), ShouldEqual, "de")
			So(r.Numeric(model.ColCompanySize), ShouldEqual, 250)
			So(r.Numeric(model.ColWebActivityScore), ShouldEqual, 0.7)
			So(r.Numeric(model.ColEmailEngagementScore), ShouldEqual, 0.4)
		})

		Convey("Then unknown columns yield neutral defaults, not errors", func() {
			So(r.Text("linkedin_url"), ShouldEqual, "")
			So(r.Categorical("region"), ShouldEqual, "")
			So(r.Numeric("revenue"), ShouldEqual, 0)
		})
	})

	Convey("Given a zero-value record", t, func() {
		var r model.Record

		Convey("Then every column reads as empty or zero", func() {
			So(r.Text(model.ColJobTitle), ShouldEqual, "")
			So(r.Categorical(model.ColIndustry), ShouldEqual, "")
			So(r.Numeric(model.ColCompanySize), ShouldEqual, 0)
		})
	})
}
