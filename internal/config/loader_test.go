package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nwept/bggstats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		cfg := config.New()

		convey.Convey("Then the defaults are sensible", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "bgg.db")
			convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://boardgamegeek.com/xmlapi2")
			convey.So(cfg.ThingChunkSize, convey.ShouldEqual, 20)
			convey.So(cfg.QueueRetries, convey.ShouldEqual, 10)
			convey.So(cfg.QueueRetryDelayMS, convey.ShouldEqual, 5_000)
			convey.So(cfg.StartYear, convey.ShouldEqual, 1990)
			convey.So(cfg.OutputDir, convey.ShouldEqual, ".")
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
		})
	})
}

func TestLoadDefaults(t *testing.T) {
	convey.Convey("Given no overrides", t, func() {
		cfg, err := config.Load()

		convey.Convey("Then the defaults load cleanly", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "bgg.db")
			convey.So(cfg.Username, convey.ShouldEqual, "NormandyWept")
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BGG_USERNAME", "someoneelse")
	t.Setenv("BGG_LOG_LEVEL", "debug")
	t.Setenv("BGG_OUTPUT_DIR", "/tmp/reports")

	convey.Convey("Given environment overrides", t, func() {
		cfg, err := config.Load()

		convey.Convey("Then they win over the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Username, convey.ShouldEqual, "someoneelse")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "/tmp/reports")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "username: filed\ndatabase_path: filed.db\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BGG_CONFIG", path)

	convey.Convey("Given a config file", t, func() {
		cfg, err := config.Load()

		convey.Convey("Then the file values apply over the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Username, convey.ShouldEqual, "filed")
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "filed.db")
			convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://boardgamegeek.com/xmlapi2")
		})
	})
}

func TestLoadEnvShadowsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("username: filed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BGG_CONFIG", path)
	t.Setenv("BGG_USERNAME", "enved")

	convey.Convey("Given a file value shadowed by an env var", t, func() {
		cfg, err := config.Load()

		convey.Convey("Then the env var wins", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Username, convey.ShouldEqual, "enved")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BGG_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	convey.Convey("Given a missing config file", t, func() {
		_, err := config.Load()

		convey.Convey("Then loading fails with the load sentinel", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("BGG_DATABASE_PATH", "")

	convey.Convey("Given an empty database path", t, func() {
		_, err := config.Load()

		convey.Convey("Then validation rejects it", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
