package handlers

import (
	"context"
	"sync/atomic"

	"github.com/uptrace/bun"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/metrics"
	"github.com/padraicbc/f1report/report"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	JWTKey []byte
	// Admins may call PasswordHash.
	Admins  []string
	runner  *report.Runner
	metrics *metrics.Recorder

	// data is swapped whole on reload; readers never see a partial dataset.
	data atomic.Pointer[dataset.Dataset]
}

// New creates a Handler. runner renders the chart endpoint; rec may be nil.
func New(db *bun.DB, jwtKey []byte, runner *report.Runner, rec *metrics.Recorder) *Handler {
	return &Handler{db: db, JWTKey: jwtKey, runner: runner, metrics: rec}
}

// Reload loads a fresh dataset from l and makes it current. On failure the
// previous dataset stays in place.
func (h *Handler) Reload(ctx context.Context, l dataset.Loader) error {
	ds, err := l.Load(ctx)
	if err != nil {
		h.metrics.DatasetFailed()
		return err
	}
	h.SetDataset(ds)
	return nil
}

// SetDataset makes ds current.
func (h *Handler) SetDataset(ds *dataset.Dataset) {
	h.data.Store(ds)
	h.metrics.DatasetLoaded(ds.Sizes())
}

// Dataset returns the current dataset, nil before the first load.
func (h *Handler) Dataset() *dataset.Dataset {
	return h.data.Load()
}
