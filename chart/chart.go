// Package chart renders report summaries. ECharts writes standalone HTML
// pages, Plot writes PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/padraicbc/f1report/models"
)

// ErrUnknownFormat is returned by New for formats other than html and png.
var ErrUnknownFormat = errors.New("unknown chart format")

// Renderer draws the three season charts. Empty summaries render an empty
// chart rather than failing.
type Renderer interface {
	// Ext is the file extension of the output, without the dot.
	Ext() string
	Wins(w io.Writer, year int, rows []models.WinRecord) error
	Months(w io.Writer, year int, rows []models.MonthlyRaceCount) error
	Nationalities(w io.Writer, year int, rows []models.NationalityCount) error
}

// New returns the renderer for format ("html" or "png").
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "html":
		return ECharts{}, nil
	case "png":
		return Plot{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Titles shared by both renderers.
func winsTitle(year int) string   { return fmt.Sprintf("Wins per driver in %d season", year) }
func monthsTitle(year int) string { return fmt.Sprintf("Number of Races per Month in %d", year) }
func nationalityTitle(year int) string {
	return fmt.Sprintf("Nationality Distribution of F1 Drivers in %d Season", year)
}

// shares converts counts to percentages of their total.
func shares(rows []models.NationalityCount) []float64 {
	total := 0
	for _, r := range rows {
		total += r.Drivers
	}
	out := make([]float64, len(rows))
	if total == 0 {
		return out
	}
	for i, r := range rows {
		out[i] = 100 * float64(r.Drivers) / float64(total)
	}
	return out
}
