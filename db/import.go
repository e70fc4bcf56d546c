package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/f1report/dataset"
)

const batchSize = 500

// Import copies the three tables of ds into the store inside one
// transaction. Rows whose key already exists are left alone, so re-running an
// import is harmless. It returns the rows inserted per table.
func Import(ctx context.Context, db *bun.DB, ds *dataset.Dataset) (map[string]int, error) {
	counts := make(map[string]int, 3)
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		steps := []struct {
			name string
			fn   func() (int, error)
		}{
			{"races", func() (int, error) { return bulkInsert(ctx, tx, ds.Races) }},
			{"drivers", func() (int, error) { return bulkInsert(ctx, tx, ds.Drivers) }},
			{"results", func() (int, error) { return bulkInsert(ctx, tx, ds.Results) }},
		}
		for _, s := range steps {
			n, err := s.fn()
			if err != nil {
				return fmt.Errorf("import %s: %w", s.name, err)
			}
			counts[s.name] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// bulkInsert inserts rows in batches, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, db bun.IDB, rows []T) (int, error) {
	total := 0
	for start := 0; start < len(rows); start += batchSize {
		batch := rows[start:min(start+batchSize, len(rows))]
		res, err := db.NewInsert().Model(&batch).On("CONFLICT DO NOTHING").Exec(ctx)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(n)
	}
	return total, nil
}
