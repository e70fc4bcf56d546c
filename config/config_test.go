package config

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

var keys = []string{
	"DATA_DIR", "DATASET", "KAGGLE_API_URL", "KAGGLE_USERNAME", "KAGGLE_KEY",
	"SOURCE", "DATABASE_URL", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT",
	"DB_NAME", "DB_SSLMODE", "MYSQL_DSN", "CHART_DIR", "CHART_FORMAT",
	"JWT_SECRET", "ADMIN_USERS", "DEBUG", "PORT", "TLS_DOMAINS", "REFRESH_SCHEDULE",
}

// clearEnv blanks every key; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	Convey("Given an empty environment", t, func() {
		clearEnv(t)

		Convey("When loading the CLI config", func() {
			cfg, err := Load()

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.DataDir, ShouldEqual, "./f1_data")
				So(cfg.Dataset, ShouldEqual, "rohanrao/formula-1-world-championship-1950-2020")
				So(cfg.Source, ShouldEqual, SourceCSV)
				So(cfg.ChartDir, ShouldEqual, "./charts")
				So(cfg.ChartFormat, ShouldEqual, "html")
				So(cfg.Port, ShouldEqual, ":9000")
				So(cfg.Debug, ShouldBeFalse)
				So(cfg.TLSDomains, ShouldBeEmpty)
				So(cfg.AdminUsers, ShouldResemble, []string{"admin"})
				So(cfg.HasDatabase(), ShouldBeFalse)
			})
		})

		Convey("When loading the server config", func() {
			_, err := LoadServer()

			Convey("Then the JWT secret is required", func() {
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "JWT_SECRET")
			})
		})
	})

	Convey("Given overrides in the environment", t, func() {
		clearEnv(t)
		t.Setenv("SOURCE", " DB ")
		t.Setenv("DB_PASS", "pw")
		t.Setenv("CHART_FORMAT", "PNG")
		t.Setenv("DEBUG", "true")
		t.Setenv("TLS_DOMAINS", "f1.example.com, www.f1.example.com ,")
		t.Setenv("JWT_SECRET", "s3cret")

		Convey("Then they are read and normalised", func() {
			cfg, err := LoadServer()
			So(err, ShouldBeNil)
			So(cfg.Source, ShouldEqual, SourceDB)
			So(cfg.ChartFormat, ShouldEqual, "png")
			So(cfg.Debug, ShouldBeTrue)
			So(cfg.TLSDomains, ShouldResemble, []string{"f1.example.com", "www.f1.example.com"})
			So(string(cfg.JWTKey()), ShouldEqual, "s3cret")
			So(cfg.PostgresDSN(), ShouldEqual, "postgres://f1:pw@localhost:5432/f1?sslmode=disable")
		})

		Convey("Then DATABASE_URL wins over the fields", func() {
			t.Setenv("DATABASE_URL", "sqlite:file::memory:")
			cfg, err := Load()
			So(err, ShouldBeNil)
			So(cfg.PostgresDSN(), ShouldEqual, "sqlite:file::memory:")
		})
	})

	Convey("Given invalid settings", t, func() {
		clearEnv(t)

		cases := map[string]map[string]string{
			"unknown source":       {"SOURCE": "parquet"},
			"db without database":  {"SOURCE": "db"},
			"mysql without dsn":    {"SOURCE": "mysql"},
			"unknown chart format": {"CHART_FORMAT": "svg"},
			"server without a db":  {"JWT_SECRET": "x"},
		}
		for name, env := range cases {
			Convey("When "+name, func() {
				for k, v := range env {
					t.Setenv(k, v)
				}
				_, err := LoadServer()

				Convey("Then loading fails", func() {
					So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
				})
			})
		}
	})
}
