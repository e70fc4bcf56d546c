package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/f1report/chart"
	"github.com/padraicbc/f1report/config"
	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/db"
	"github.com/padraicbc/f1report/handlers"
	applog "github.com/padraicbc/f1report/logger"
	"github.com/padraicbc/f1report/metrics"
	"github.com/padraicbc/f1report/report"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("open database failed", zap.Error(err))
	}
	defer bdb.Close()

	if err := db.CreateTables(ctx, bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	if cfg.Source == config.SourceCSV {
		if err := dataset.Fetch(ctx, dataset.FetchOptionsFor(cfg, logger), logger); err != nil {
			logger.Fatal("fetch dataset failed", zap.Error(err))
		}
	}
	loader, closeLoader, err := db.OpenLoader(ctx, cfg, bdb, logger)
	if err != nil {
		logger.Fatal("open dataset source failed", zap.Error(err))
	}
	defer closeLoader()

	rd, err := chart.New(cfg.ChartFormat)
	if err != nil {
		logger.Fatal("chart renderer", zap.Error(err))
	}
	rec := metrics.New(metrics.WithRuntimeCollectors())
	h := handlers.New(bdb, cfg.JWTKey(), report.NewRunner(rd, cfg.ChartDir, logger, rec), rec)
	h.Admins = cfg.AdminUsers

	if err := h.Reload(ctx, loader); err != nil {
		logger.Fatal("load dataset failed", zap.String("source", cfg.Source), zap.Error(err))
	}
	logger.Info("dataset loaded", zap.String("source", cfg.Source), zap.Any("rows", h.Dataset().Sizes()))

	if cfg.RefreshSchedule != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.RefreshSchedule, func() {
			rctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := h.Reload(rctx, loader); err != nil {
				logger.Error("dataset refresh failed, keeping previous", zap.Error(err))
				return
			}
			logger.Info("dataset refreshed", zap.Any("rows", h.Dataset().Sizes()))
		})
		if err != nil {
			logger.Fatal("bad REFRESH_SCHEDULE", zap.String("schedule", cfg.RefreshSchedule), zap.Error(err))
		}
		c.Start()
		defer c.Stop()
		logger.Info("dataset refresh scheduled", zap.String("schedule", cfg.RefreshSchedule))
	}

	e := echo.New()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("request_id", v.RequestID),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"*", "Authorization"},
	}))

	h.Register(e)

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.Bool("debug", cfg.Debug), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting tls server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
