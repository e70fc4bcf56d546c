// cmd/report/main.go
// Renders the season charts for a plan of reports.
//
// Usage:
//
//	go run ./cmd/report -plan wins:2018,months:2022,nationality:2023 -format png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/f1report/chart"
	"github.com/padraicbc/f1report/config"
	"github.com/padraicbc/f1report/dataset"
	bundb "github.com/padraicbc/f1report/db"
	applog "github.com/padraicbc/f1report/logger"
	"github.com/padraicbc/f1report/metrics"
	"github.com/padraicbc/f1report/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	plan := flag.String("plan", "", "comma separated kind:year list (default wins:2018,months:2022,nationality:2023)")
	format := flag.String("format", cfg.ChartFormat, "chart format: html or png")
	out := flag.String("out", cfg.ChartDir, "chart output directory")
	fetch := flag.Bool("fetch", true, "download the Kaggle archive when DATA_DIR is missing (SOURCE=csv)")
	force := flag.Bool("force", false, "download even when DATA_DIR exists")
	flag.Parse()

	base, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = base.Sync() }()
	logger, runID := applog.WithRun(base)
	zap.ReplaceGlobals(logger)

	jobs, err := report.ParsePlan(*plan)
	if err != nil {
		logger.Fatal("bad plan", zap.Error(err))
	}
	rd, err := chart.New(*format)
	if err != nil {
		logger.Fatal("bad format", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Source == config.SourceCSV && (*fetch || *force) {
		opt := dataset.FetchOptionsFor(cfg, logger)
		opt.Force = *force
		if err := dataset.Fetch(ctx, opt, logger); err != nil {
			logger.Fatal("fetch dataset", zap.Error(err))
		}
	}

	loader, closeLoader, err := bundb.OpenLoader(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("open source", zap.Error(err))
	}
	defer closeLoader()

	rec := metrics.New()
	start := time.Now()
	ds, err := loader.Load(ctx)
	if err != nil {
		rec.DatasetFailed()
		logger.Fatal("load dataset", zap.String("source", cfg.Source), zap.Error(err))
	}
	rec.DatasetLoaded(ds.Sizes())
	logger.Info("dataset loaded",
		zap.String("source", cfg.Source),
		zap.Int("races", len(ds.Races)),
		zap.Int("drivers", len(ds.Drivers)),
		zap.Int("results", len(ds.Results)),
		zap.Duration("took", time.Since(start)),
	)

	outcomes := report.NewRunner(rd, *out, logger, rec).Run(ctx, ds, jobs)

	failed := 0
	for _, oc := range outcomes {
		if oc.Err != nil && !errors.Is(oc.Err, report.ErrYearNotFound) {
			failed++
		}
	}
	logger.Info("run complete",
		zap.String("run_id", runID),
		zap.Int("reports", len(outcomes)),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		os.Exit(1)
	}
}
