package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/melodex/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := config.New()

		Convey("Then sensible defaults are set", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.StoreBackend, ShouldEqual, "memory")
			So(cfg.EventQueueSize, ShouldEqual, 10_000)
			So(cfg.MinVotes, ShouldEqual, 2)
			So(cfg.MinMean, ShouldEqual, 7.0)
			So(cfg.FavoriteThreshold, ShouldEqual, 8)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the loader", t, func() {
		ctx := context.Background()

		Convey("When no file or env overrides exist", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults come through", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
			})
		})

		Convey("When env vars override fields", func() {
			t.Setenv("MELODEX_ADDR", ":7070")
			t.Setenv("MELODEX_QUEUE_SIZE", "123")
			t.Setenv("MELODEX_MIN_MEAN", "8.5")

			cfg, err := config.Load(ctx)

			Convey("Then the overrides win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.EventQueueSize, ShouldEqual, 123)
				So(cfg.MinMean, ShouldEqual, 8.5)
			})
		})

		Convey("When a YAML file is provided", func() {
			// Convey re-runs the tree per leaf, so the env-override
			// branch's MELODEX_ADDR would otherwise leak in here.
			So(os.Unsetenv("MELODEX_ADDR"), ShouldBeNil)
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":6060\"\nstore_backend: badger\nbadger_dir: /tmp/profiles\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			t.Setenv("MELODEX_CONFIG", path)

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.StoreBackend, ShouldEqual, "badger")
			})

			Convey("And env still wins over the file", func() {
				t.Setenv("MELODEX_ADDR", ":5050")

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the store backend is unknown", func() {
			t.Setenv("MELODEX_STORE_BACKEND", "etcd")

			_, err := config.Load(ctx)

			Convey("Then validation rejects it", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the badger backend lacks a directory", func() {
			t.Setenv("MELODEX_STORE_BACKEND", "badger")
			t.Setenv("MELODEX_BADGER_DIR", "")

			_, err := config.Load(ctx)

			Convey("Then validation rejects it", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
