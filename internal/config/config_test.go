package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/prochallenge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.RemoteTimeout, convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.SessionTTL, convey.ShouldEqual, 24*time.Hour)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
			convey.So(cfg.TopLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Challenge, convey.ShouldEqual, "fitness")
			convey.So(cfg.EnforceWeighInDay, convey.ShouldBeTrue)
			convey.So(cfg.YearQualifiedLabels, convey.ShouldBeFalse)
		})

		convey.Convey("Then defaults need only a remote URL to be valid", func() {
			err := cfg.Validate(context.Background())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg.RemoteURL = "https://script.example.com/exec"
			convey.So(cfg.Validate(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a valid config", t, func() {
		cfg := config.New(ctx)
		cfg.RemoteURL = "https://script.example.com/exec"

		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"relative remote url", func(c *config.Config) { c.RemoteURL = "/exec" }},
			{"ftp remote url", func(c *config.Config) { c.RemoteURL = "ftp://example.com" }},
			{"zero timeout", func(c *config.Config) { c.RemoteTimeout = 0 }},
			{"zero session ttl", func(c *config.Config) { c.SessionTTL = 0 }},
			{"negative interval", func(c *config.Config) { c.RefreshInterval = -time.Second }},
			{"empty queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"zero top limit", func(c *config.Config) { c.TopLimit = 0 }},
			{"blank challenge", func(c *config.Config) { c.Challenge = " " }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown location", func(c *config.Config) { c.Location = "Mars/Olympus" }},
		}
		for _, tc := range cases {
			convey.Convey("Then "+tc.name+" is rejected", func() {
				tc.mutate(cfg)
				err := cfg.Validate(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a known location resolves", func() {
			cfg.Location = "Asia/Kolkata"
			loc, err := cfg.TimeLocation()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "Asia/Kolkata")
		})
	})
}
