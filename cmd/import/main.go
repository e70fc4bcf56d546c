// cmd/import/main.go
// Copies the races, drivers and results tables into the SQL store so the
// server and cmd/report can run with SOURCE=db.
//
// Usage:
//
//	DATABASE_URL=sqlite:f1.db go run ./cmd/import -from csv
//	MYSQL_DSN="user:pass@tcp(host:3306)/f1db" DATABASE_URL=... go run ./cmd/import -from mysql
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/f1report/config"
	"github.com/padraicbc/f1report/dataset"
	bundb "github.com/padraicbc/f1report/db"
	applog "github.com/padraicbc/f1report/logger"
)

func main() {
	from := flag.String("from", config.SourceCSV, "where to read the tables: csv or mysql")
	fetch := flag.Bool("fetch", true, "download the Kaggle archive when DATA_DIR is missing (-from csv)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if *from != config.SourceCSV && *from != config.SourceMySQL {
		logger.Fatal("-from must be csv or mysql", zap.String("from", *from))
	}
	if !cfg.HasDatabase() {
		logger.Fatal("DATABASE_URL or DB_PASS must be set")
	}

	ctx := context.Background()

	// --- source ---
	src := *cfg
	src.Source = *from
	if *from == config.SourceCSV && *fetch {
		if err := dataset.Fetch(ctx, dataset.FetchOptionsFor(cfg, logger), logger); err != nil {
			logger.Fatal("fetch dataset", zap.Error(err))
		}
	}
	loader, closeSrc, err := bundb.OpenLoader(ctx, &src, nil, logger)
	if err != nil {
		logger.Fatal("open source", zap.Error(err))
	}
	defer closeSrc()

	start := time.Now()
	ds, err := loader.Load(ctx)
	if err != nil {
		logger.Fatal("load dataset", zap.String("from", *from), zap.Error(err))
	}
	logger.Info("source loaded", zap.String("from", *from), zap.Any("rows", ds.Sizes()))

	// --- destination ---
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, db); err != nil {
		logger.Fatal("create tables", zap.Error(err))
	}

	counts, err := bundb.Import(ctx, db, ds)
	if err != nil {
		logger.Fatal("import", zap.Error(err))
	}
	for _, table := range []string{"races", "drivers", "results"} {
		logger.Info("rows imported", zap.String("table", table), zap.Int("inserted", counts[table]))
	}
	logger.Info("import complete", zap.Duration("took", time.Since(start)))
}
