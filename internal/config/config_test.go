package config_test

import (
	"errors"
	"testing"

	"github.com/okian/painel/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Source, convey.ShouldEqual, config.SourceGoogle)
			convey.So(cfg.PexRange, convey.ShouldEqual, "PEX!A:Z")
			convey.So(cfg.PageSize, convey.ShouldEqual, 10)
			convey.So(cfg.Tables["pesos"].Weights, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given an invalid config", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":     func(c *config.Config) { c.Addr = " " },
			"unknown source": func(c *config.Config) { c.Source = "ftp" },
			"no pex range":   func(c *config.Config) { c.PexRange = "" },
			"zero page size": func(c *config.Config) { c.PageSize = 0 },
			"bare range":     func(c *config.Config) { c.Tables["metas"] = config.Table{Range: "A:Z"} },
		}
		for name, mutate := range cases {
			convey.Convey("When it has "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
