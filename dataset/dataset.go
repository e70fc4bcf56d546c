// Package dataset acquires the Formula 1 results archive and loads its
// races, drivers and results tables into memory.
package dataset

import (
	"context"
	"errors"

	"github.com/padraicbc/f1report/models"
)

// Source file names inside the extracted archive.
const (
	RacesFile   = "races.csv"
	DriversFile = "drivers.csv"
	ResultsFile = "results.csv"
)

// Load failures are fatal for a run: no report can be produced without the
// three tables.
var (
	ErrSourceMissing   = errors.New("source file missing")
	ErrSourceMalformed = errors.New("source file malformed")
	ErrDownload        = errors.New("dataset download failed")
)

// Dataset holds the three source tables. It is read-only once loaded and may
// be shared between reports.
type Dataset struct {
	Races   []models.Race
	Drivers []models.Driver
	Results []models.Result
}

// Loader supplies a Dataset. Implementations exist for a CSV directory and
// for SQL databases (see package db).
type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*Dataset, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*Dataset, error) { return f(ctx) }

// Sizes returns row counts keyed by table name.
func (d *Dataset) Sizes() map[string]int {
	return map[string]int{
		"races":   len(d.Races),
		"drivers": len(d.Drivers),
		"results": len(d.Results),
	}
}
