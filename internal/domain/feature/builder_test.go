package feature_test

import (
	"testing"

	feature "github.com/okian/leadrank/internal/domain/feature"
	model "github.com/okian/leadrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func refRecords() []model.Record {
	return []model.Record{
		{CustomerID: "1", Industry: "saas", Country: "us", JobTitle: "CTO", Bio: "scaling infra", CompanySize: 50, WebActivityScore: 0.9, EmailEngagementScore: 0.8},
		{CustomerID: "2", Industry: "saas", Country: "de", JobTitle: "VP Eng", Bio: "platform teams", CompanySize: 200, WebActivityScore: 0.5, EmailEngagementScore: 0.2},
		{CustomerID: "3", Industry: "retail", Country: "us", JobTitle: "Buyer", Bio: "", CompanySize: 1000, WebActivityScore: 0.1, EmailEngagementScore: 0.3},
		{CustomerID: "4", Industry: "saas", Country: "us", JobTitle: "CEO", Bio: "founder", CompanySize: 10, WebActivityScore: 0.7, EmailEngagementScore: 0.6},
	}
}

func TestBuilderFrequencyEncoding(t *testing.T) {
	Convey("Given a builder fitted on the reference population", t, func() {
		b := feature.NewBuilder(feature.DefaultSchema())
		b.Fit(refRecords())

		Convey("Then per-column frequencies sum to 1.0", func() {
			for _, table := range b.Encoders() {
				sum := 0.0
				for _, f := range table {
					sum += f
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			}
		})

		Convey("Then observed values carry their population fraction", func() {
			So(b.Encoders()["industry"]["saas"], ShouldAlmostEqual, 0.75)
			So(b.Encoders()["industry"]["retail"], ShouldAlmostEqual, 0.25)
			So(b.Encoders()["country"]["us"], ShouldAlmostEqual, 0.75)
		})

		Convey("When transforming a record with an unseen category", func() {
			rows, err := b.Transform([]model.Record{{Industry: "mining", Country: "us", CompanySize: 5}})
			So(err, ShouldBeNil)

			Convey("Then the unseen value encodes to 0, not an error", func() {
				So(rows[0][0], ShouldEqual, 0.0)
				So(rows[0][1], ShouldAlmostEqual, 0.75)
			})
		})

		Convey("Then matrix columns follow categorical-then-numeric schema order", func() {
			rows, err := b.Transform(refRecords()[:1])
			So(err, ShouldBeNil)
			So(len(rows[0]), ShouldEqual, 5)
			So(rows[0][2], ShouldEqual, 50.0)  // company_size
			So(rows[0][3], ShouldEqual, 0.9)   // web_activity_score
			So(rows[0][4], ShouldEqual, 0.8)   // email_engagement_score
		})

		Convey("Then query-time frequencies come from the frozen table", func() {
			// A skewed query batch must not change the encoding.
			query := []model.Record{
				{Industry: "retail"}, {Industry: "retail"}, {Industry: "retail"},
			}
			rows, err := b.Transform(query)
			So(err, ShouldBeNil)
			So(rows[0][0], ShouldAlmostEqual, 0.25)
		})
	})

	Convey("Given a schema naming a column records do not carry", t, func() {
		schema := feature.Schema{
			Text:        []string{model.ColJobTitle, model.ColBio},
			Categorical: []string{"segment"},
			Numeric:     []string{"revenue"},
		}
		b := feature.NewBuilder(schema)
		b.Fit(refRecords())

		Convey("Then the absent categorical fits to the all-empty column", func() {
			So(b.Encoders()["segment"][""], ShouldAlmostEqual, 1.0)
		})

		Convey("Then the absent numeric transforms to zeros", func() {
			rows, err := b.Transform(refRecords())
			So(err, ShouldBeNil)
			for _, row := range rows {
				So(row[1], ShouldEqual, 0.0)
			}
		})
	})

	Convey("Given an unfitted builder", t, func() {
		b := feature.NewBuilder(feature.DefaultSchema())

		Convey("Then transform fails with ErrNotFitted", func() {
			_, err := b.Transform(refRecords())
			So(err, ShouldEqual, feature.ErrNotFitted)
		})
	})
}

func TestBuilderTextBlobs(t *testing.T) {
	Convey("Given the canonical text pair schema", t, func() {
		b := feature.NewBuilder(feature.DefaultSchema())

		Convey("Then blobs use the dedicated title-period-bio join", func() {
			blobs := b.TextBlobs([]model.Record{{JobTitle: "CTO", Bio: "scaling infra"}})
			So(blobs[0], ShouldEqual, "CTO. scaling infra")
		})

		Convey("Then a missing bio leaves a trailing period after trimming", func() {
			blobs := b.TextBlobs([]model.Record{{JobTitle: "CTO"}})
			So(blobs[0], ShouldEqual, "CTO.")
		})
	})

	Convey("Given a non-canonical text configuration", t, func() {
		b := feature.NewBuilder(feature.Schema{Text: []string{model.ColBio, model.ColJobTitle}})

		Convey("Then empty parts are skipped by the generic join", func() {
			blobs := b.TextBlobs([]model.Record{{JobTitle: "CTO"}})
			So(blobs[0], ShouldEqual, "CTO")
			blobs = b.TextBlobs([]model.Record{{JobTitle: "CTO", Bio: "infra"}})
			So(blobs[0], ShouldEqual, "infra. CTO")
		})
	})
}

func TestBuilderRestoredFromArtifacts(t *testing.T) {
	Convey("Given encoders restored from a persisted bundle", t, func() {
		fitted := feature.NewBuilder(feature.DefaultSchema())
		fitted.Fit(refRecords())

		restored := feature.NewFittedBuilder(feature.DefaultSchema(), fitted.Encoders())

		Convey("Then restored transforms match the original builder", func() {
			a, errA := fitted.Transform(refRecords())
			b, errB := restored.Transform(refRecords())
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(b, ShouldResemble, a)
		})
	})
}
