package normalize_test

import (
	"testing"

	normalize "github.com/okian/leadrank/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEmail(t *testing.T) {
	Convey("Given raw email input", t, func() {
		Convey("Then it is trimmed and lowercased", func() {
			So(normalize.Email("  Jane.Doe@Example.COM "), ShouldEqual, "jane.doe@example.com")
		})

		Convey("Then absent input yields the empty string", func() {
			So(normalize.Email(""), ShouldEqual, "")
			So(normalize.Email("   "), ShouldEqual, "")
		})

		Convey("Then normalization is idempotent", func() {
			for _, in := range []string{"A@B.io", "  x@y.z ", "", "weird @ mail"} {
				once := normalize.Email(in)
				So(normalize.Email(once), ShouldEqual, once)
			}
		})
	})
}

func TestName(t *testing.T) {
	Convey("Given raw name input", t, func() {
		Convey("Then internal whitespace runs collapse to one space", func() {
			So(normalize.Name("  Jane \t  DOE  "), ShouldEqual, "jane doe")
		})

		Convey("Then absent input yields the empty string", func() {
			So(normalize.Name(""), ShouldEqual, "")
		})

		Convey("Then normalization is idempotent", func() {
			for _, in := range []string{"Jane Doe", "  A  B\tC ", "é È"} {
				once := normalize.Name(in)
				So(normalize.Name(once), ShouldEqual, once)
			}
		})
	})
}

func TestCompany(t *testing.T) {
	Convey("Given raw company input", t, func() {
		Convey("Then commas become spaces and whitespace collapses", func() {
			So(normalize.Company("Acme,  Widgets"), ShouldEqual, "acme widgets")
		})

		Convey("Then one trailing legal suffix is stripped", func() {
			So(normalize.Company("Acme Inc"), ShouldEqual, "acme")
			So(normalize.Company("Acme LLC"), ShouldEqual, "acme")
			So(normalize.Company("Beispiel GmbH"), ShouldEqual, "beispiel")
			So(normalize.Company("Ejemplo S.A."), ShouldEqual, "ejemplo")
		})

		Convey("Then only the first matching suffix in list order is stripped", func() {
			// " limited" matches; the remaining " ltd" survives this pass.
			So(normalize.Company("Foo Ltd Limited"), ShouldEqual, "foo ltd")
		})

		Convey("Then a suffix in the middle of the name is untouched", func() {
			So(normalize.Company("Inc Magazine"), ShouldEqual, "inc magazine")
		})

		Convey("Then absent input yields the empty string", func() {
			So(normalize.Company(""), ShouldEqual, "")
		})
	})
}
