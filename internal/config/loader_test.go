package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/leadrank/internal/config"
	"github.com/okian/leadrank/internal/domain/embed"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no config file and no env overrides", t, func() {
		os.Unsetenv("LEADRANK_CONFIG")
		os.Unsetenv("LEADRANK_ADDR")
		os.Unsetenv("LEADRANK_TOPK")

		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then defaults mirror the reference deployment", func() {
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.TopK, ShouldEqual, 20)
			So(cfg.PCAComponents, ShouldEqual, 16)
			So(cfg.HashingDim, ShouldEqual, 384)
			So(cfg.PrimaryModel, ShouldEqual, embed.DefaultPrimaryModel)
			So(cfg.SecondaryModel, ShouldEqual, embed.DefaultSecondaryModel)
		})

		Convey("Then the default schema carries the canonical column roles", func() {
			So(cfg.Schema.Text, ShouldResemble, []string{"job_title", "bio"})
			So(cfg.Schema.Categorical, ShouldResemble, []string{"industry", "country"})
			So(cfg.Schema.Numeric, ShouldResemble, []string{"company_size", "web_activity_score", "email_engagement_score"})
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	Convey("Given LEADRANK_ env overrides", t, func() {
		t.Setenv("LEADRANK_ADDR", ":7777")
		t.Setenv("LEADRANK_TOPK", "5")
		t.Setenv("LEADRANK_ARTIFACTS_DIR", "/tmp/leadrank-artifacts")

		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7777")
			So(cfg.TopK, ShouldEqual, 5)
			So(cfg.ArtifactsDir, ShouldEqual, "/tmp/leadrank-artifacts")
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "leadrank.yaml")
		So(os.WriteFile(path, []byte("addr: \":8111\"\ntopk: 7\nembed_server_url: \"http://models.internal:8080\"\n"), 0o600), ShouldBeNil)
		t.Setenv("LEADRANK_CONFIG", path)

		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.Addr, ShouldEqual, ":8111")
			So(cfg.TopK, ShouldEqual, 7)
			So(cfg.EmbedServerURL, ShouldEqual, "http://models.internal:8080")
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given an invalid topk override", t, func() {
		t.Setenv("LEADRANK_TOPK", "0")

		_, err := config.Load(context.Background())

		Convey("Then loading fails with ErrInvalidConfig", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "topk")
		})
	})
}
