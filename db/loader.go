package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/f1report/config"
	"github.com/padraicbc/f1report/dataset"
)

// OpenLoader returns the dataset.Loader selected by cfg.Source and a func
// releasing any connection it opened. For SOURCE=db an open store can be
// passed as bdb and is reused; with nil a new pool is opened.
func OpenLoader(ctx context.Context, cfg *config.Config, bdb *bun.DB, log *zap.Logger) (dataset.Loader, func() error, error) {
	switch cfg.Source {
	case config.SourceCSV:
		return dataset.NewCSV(cfg.DataDir, log), func() error { return nil }, nil
	case config.SourceDB:
		if bdb != nil {
			return NewSource(bdb), func() error { return nil }, nil
		}
		db, err := Setup(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewSource(db), db.Close, nil
	case config.SourceMySQL:
		myDB, err := OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewMySQLSource(myDB), myDB.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: SOURCE %q", config.ErrInvalidConfig, cfg.Source)
}
