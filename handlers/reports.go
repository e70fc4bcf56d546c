package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/reduce"
	"github.com/padraicbc/f1report/report"
)

// current returns the loaded dataset or a 503 while none is available.
func (h *Handler) current() (*dataset.Dataset, error) {
	ds := h.Dataset()
	if ds == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset not loaded")
	}
	return ds, nil
}

func yearParam(c echo.Context) (int, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "year must be a number")
	}
	return year, nil
}

// reportError maps pipeline errors to HTTP errors.
func reportError(err error) error {
	switch {
	case errors.Is(err, report.ErrYearNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, report.ErrUnknownReport):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Seasons lists the years present in the races table.
func (h *Handler) Seasons(c echo.Context) error {
	ds, err := h.current()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]int{"seasons": reduce.Years(ds.Races)})
}

// Wins returns the wins per driver for ?year=.
func (h *Handler) Wins(c echo.Context) error {
	ds, err := h.current()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	rows, err := report.WinsPerDriver(ds, year)
	if err != nil {
		return reportError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "wins": rows})
}

// Months returns the races per calendar month for ?year=.
func (h *Handler) Months(c echo.Context) error {
	ds, err := h.current()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	sum, err := report.RacesPerMonth(ds, year)
	if err != nil {
		return reportError(err)
	}
	if sum.Skipped > 0 {
		zap.L().Warn("races without a parseable date left out",
			zap.Int("year", year), zap.Ints("race_ids", sum.SkippedRaceIDs))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"year":           year,
		"months":         sum.Months,
		"skipped":        sum.Skipped,
		"skippedRaceIDs": sum.SkippedRaceIDs,
	})
}

// Nationalities returns the nationality distribution for ?year=.
func (h *Handler) Nationalities(c echo.Context) error {
	ds, err := h.current()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	rows, err := report.NationalityDistribution(ds, year)
	if err != nil {
		return reportError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "nationalities": rows})
}

// Chart renders /charts/:report?year= with the configured renderer.
func (h *Handler) Chart(c echo.Context) error {
	ds, err := h.current()
	if err != nil {
		return err
	}
	kind, err := report.ParseKind(c.Param("report"))
	if err != nil {
		return reportError(err)
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := h.runner.Render(&buf, ds, report.Job{Kind: kind, Year: year}); err != nil {
		return reportError(err)
	}

	contentType := echo.MIMETextHTMLCharsetUTF8
	if h.runner.Renderer().Ext() == "png" {
		contentType = "image/png"
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
