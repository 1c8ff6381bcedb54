package embed_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	embed "github.com/okian/leadrank/internal/domain/embed"
	. "github.com/smartystreets/goconvey/convey"
)

func rowNorm(row []float32) float64 {
	var sum float64
	for _, v := range row {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// embedServer fakes the embedding server for a set of servable models.
func embedServer(servable map[string]int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		dim, ok := servable[req.Model]
		if !ok {
			http.Error(w, "model not found", http.StatusNotFound)
			return
		}
		rows := make([][]float32, len(req.Input))
		for i := range req.Input {
			row := make([]float32, dim)
			row[i%dim] = 1
			rows[i] = row
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": rows})
	}))
}

func TestTextEncoderVariantChain(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server that serves the primary model", t, func() {
		srv := embedServer(map[string]int{embed.DefaultPrimaryModel: 8})
		defer srv.Close()

		enc := embed.NewTextEncoder(ctx, embed.TextConfig{BaseURL: srv.URL})

		Convey("Then the primary variant is selected with the probed dimension", func() {
			So(enc.Variant(), ShouldEqual, embed.VariantPrimary)
			So(enc.ModelName(), ShouldEqual, embed.DefaultPrimaryModel)
			So(enc.Dim(), ShouldEqual, 8)
		})
	})

	Convey("Given a server that only serves the secondary model", t, func() {
		srv := embedServer(map[string]int{embed.DefaultSecondaryModel: 6})
		defer srv.Close()

		enc := embed.NewTextEncoder(ctx, embed.TextConfig{BaseURL: srv.URL})

		Convey("Then the chain falls through to the secondary variant", func() {
			So(enc.Variant(), ShouldEqual, embed.VariantSecondary)
			So(enc.Dim(), ShouldEqual, 6)
		})
	})

	Convey("Given a server with neither model", t, func() {
		srv := embedServer(map[string]int{})
		defer srv.Close()

		enc := embed.NewTextEncoder(ctx, embed.TextConfig{BaseURL: srv.URL, HashingDim: 64})

		Convey("Then the hashed fallback is selected", func() {
			So(enc.Variant(), ShouldEqual, embed.VariantHashed)
			So(enc.Dim(), ShouldEqual, 64)
		})
	})

	Convey("Given no server at all", t, func() {
		enc := embed.NewTextEncoder(ctx, embed.TextConfig{})

		Convey("Then the hashed fallback with the default dimension is selected", func() {
			So(enc.Variant(), ShouldEqual, embed.VariantHashed)
			So(enc.Dim(), ShouldEqual, embed.DefaultHashingDim)
		})
	})
}

func TestRemoteEncoderNormalizesRows(t *testing.T) {
	Convey("Given a remote encoder over un-normalized server output", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Input []string `json:"input"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			rows := make([][]float32, len(req.Input))
			for i := range req.Input {
				rows[i] = []float32{3, 4} // norm 5
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": rows})
		}))
		defer srv.Close()

		enc := embed.NewTextEncoder(context.Background(), embed.TextConfig{BaseURL: srv.URL})
		So(enc.Variant(), ShouldEqual, embed.VariantPrimary)

		Convey("Then encoded rows are re-normalized to unit length", func() {
			rows, err := enc.Encode(context.Background(), []string{"a", "b"})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rowNorm(rows[0]), ShouldAlmostEqual, 1.0, 1e-5)
		})
	})
}

func TestHashedEncoder(t *testing.T) {
	ctx := context.Background()

	Convey("Given the hashed fallback encoder", t, func() {
		enc := embed.NewTextEncoder(ctx, embed.TextConfig{HashingDim: 32})

		Convey("When encoding a batch", func() {
			rows, err := enc.Encode(ctx, []string{
				"VP of Engineering. Runs platform teams",
				"CTO. scaling infra",
				"",
			})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 3)

			Convey("Then non-empty rows are unit length", func() {
				So(rowNorm(rows[0]), ShouldAlmostEqual, 1.0, 1e-5)
				So(rowNorm(rows[1]), ShouldAlmostEqual, 1.0, 1e-5)
			})

			Convey("Then the empty blob yields a zero vector, not NaN", func() {
				So(rowNorm(rows[2]), ShouldEqual, 0.0)
				for _, v := range rows[2] {
					So(math.IsNaN(float64(v)), ShouldBeFalse)
				}
			})

			Convey("Then every row has the configured width", func() {
				for _, row := range rows {
					So(len(row), ShouldEqual, 32)
				}
			})
		})

		Convey("Then identical texts encode identically", func() {
			a, err := enc.Encode(ctx, []string{"growth marketer"})
			So(err, ShouldBeNil)
			b, err := enc.Encode(ctx, []string{"growth marketer"})
			So(err, ShouldBeNil)
			So(b[0], ShouldResemble, a[0])
		})
	})
}
