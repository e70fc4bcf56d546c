package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/f1report/dataset"
)

// Source loads the dataset from tables written by Import.
type Source struct {
	db *bun.DB
}

// NewSource returns a dataset.Loader reading from db.
func NewSource(db *bun.DB) *Source {
	return &Source{db: db}
}

// Load reads the three tables ordered by key. An empty races table means
// nothing was imported and fails with dataset.ErrSourceMissing; a failing
// query wraps dataset.ErrSourceMalformed.
func (s *Source) Load(ctx context.Context) (*dataset.Dataset, error) {
	ds := &dataset.Dataset{}
	if err := s.db.NewSelect().Model(&ds.Races).Order("race_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select races: %w", dataset.ErrSourceMalformed, err)
	}
	if len(ds.Races) == 0 {
		return nil, fmt.Errorf("%w: races table is empty", dataset.ErrSourceMissing)
	}
	if err := s.db.NewSelect().Model(&ds.Drivers).Order("driver_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select drivers: %w", dataset.ErrSourceMalformed, err)
	}
	if err := s.db.NewSelect().Model(&ds.Results).Order("result_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select results: %w", dataset.ErrSourceMalformed, err)
	}
	return ds, nil
}
