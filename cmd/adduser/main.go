// cmd/adduser/main.go
// Creates or updates an API user in the database.
//
// Usage:
//
//	DATABASE_URL=sqlite:f1.db go run ./cmd/adduser -username alice -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/f1report/config"
	bundb "github.com/padraicbc/f1report/db"
	"github.com/padraicbc/f1report/handlers"
	applog "github.com/padraicbc/f1report/logger"
	"github.com/padraicbc/f1report/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "adduser:", err)
		os.Exit(2)
	}

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
	if !cfg.HasDatabase() {
		logger.Fatal("DATABASE_URL or DB_PASS must be set")
	}

	ctx := context.Background()
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := bundb.CreateTables(ctx, db); err != nil {
		logger.Fatal("create tables", zap.Error(err))
	}

	user := &models.User{
		Username: strings.TrimSpace(*username),
		Password: hash,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE").
		Set("password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		logger.Fatal("insert user", zap.Error(err))
	}

	logger.Info("user saved", zap.String("username", user.Username))
}
