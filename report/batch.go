package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/f1report/chart"
	"github.com/padraicbc/f1report/dataset"
	"github.com/padraicbc/f1report/metrics"
)

// ErrUnknownReport is returned for report names other than the three kinds.
var ErrUnknownReport = errors.New("unknown report")

// Kind names a report pipeline.
type Kind string

const (
	Wins          Kind = "wins"
	Months        Kind = "months"
	Nationalities Kind = "nationality"
)

// Kinds lists every report kind.
var Kinds = []Kind{Wins, Months, Nationalities}

// ParseKind maps a report name to its Kind. "nationalities" is accepted as
// an alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wins":
		return Wins, nil
	case "months":
		return Months, nil
	case "nationality", "nationalities":
		return Nationalities, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Job is one report for one season.
type Job struct {
	Kind Kind
	Year int
}

func (j Job) String() string { return fmt.Sprintf("%s:%d", j.Kind, j.Year) }

// Filename is the chart file name for j with the given extension.
func (j Job) Filename(ext string) string {
	return fmt.Sprintf("%s-%d.%s", j.Kind, j.Year, ext)
}

// DefaultPlan is the batch run when no plan is given.
var DefaultPlan = []Job{
	{Kind: Wins, Year: 2018},
	{Kind: Months, Year: 2022},
	{Kind: Nationalities, Year: 2023},
}

// ParsePlan reads a comma separated list of kind:year pairs,
// e.g. "wins:2018,months:2022". An empty string yields DefaultPlan.
func ParsePlan(s string) ([]Job, error) {
	if strings.TrimSpace(s) == "" {
		return append([]Job(nil), DefaultPlan...), nil
	}
	var jobs []Job
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, year, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("plan entry %q: want kind:year", part)
		}
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		y, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return nil, fmt.Errorf("plan entry %q: bad year: %w", part, err)
		}
		jobs = append(jobs, Job{Kind: kind, Year: y})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("plan %q has no entries", s)
	}
	return jobs, nil
}

// Outcome is the result of one job in a batch. Path is empty unless the
// chart was written.
type Outcome struct {
	Job     Job
	Path    string
	Skipped int
	Err     error
}

// Runner computes reports and renders them with one Renderer.
type Runner struct {
	renderer chart.Renderer
	outDir   string
	log      *zap.Logger
	metrics  *metrics.Recorder
}

// NewRunner returns a Runner writing charts into outDir. log and rec may be
// nil.
func NewRunner(rd chart.Renderer, outDir string, log *zap.Logger, rec *metrics.Recorder) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{renderer: rd, outDir: outDir, log: log, metrics: rec}
}

// Renderer returns the renderer in use.
func (r *Runner) Renderer() chart.Renderer { return r.renderer }

// Run executes jobs in order against ds. A failing job is logged and
// recorded in its Outcome; the remaining jobs still run. Jobs not started
// before ctx is done fail with the context error.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset, jobs []Job) []Outcome {
	out := make([]Outcome, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			out = append(out, Outcome{Job: job, Err: err})
			continue
		}
		out = append(out, r.runOne(ds, job))
	}
	return out
}

func (r *Runner) runOne(ds *dataset.Dataset, job Job) Outcome {
	oc := Outcome{Job: job}
	log := r.log.With(zap.String("report", string(job.Kind)), zap.Int("year", job.Year))

	var buf bytes.Buffer
	oc.Skipped, oc.Err = r.Render(&buf, ds, job)
	if oc.Err != nil {
		if errors.Is(oc.Err, ErrYearNotFound) {
			log.Warn("season not in dataset, report skipped", zap.Error(oc.Err))
		} else {
			log.Error("report failed", zap.Error(oc.Err))
		}
		return oc
	}

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		oc.Err = err
		log.Error("create chart dir", zap.Error(err))
		return oc
	}
	path := filepath.Join(r.outDir, job.Filename(r.renderer.Ext()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		oc.Err = err
		log.Error("write chart", zap.Error(err))
		return oc
	}
	oc.Path = path
	log.Info("chart written", zap.String("path", path))
	return oc
}

// Render computes job against ds and draws it to w. skipped is the number of
// races left out of a months report for want of a date.
func (r *Runner) Render(w io.Writer, ds *dataset.Dataset, job Job) (skipped int, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		switch {
		case errors.Is(err, ErrYearNotFound):
			outcome = metrics.OutcomeSkipped
		case err != nil:
			outcome = metrics.OutcomeFailed
		}
		r.metrics.ObserveReport(string(job.Kind), outcome, time.Since(start))
	}()

	switch job.Kind {
	case Wins:
		rows, err := WinsPerDriver(ds, job.Year)
		if err != nil {
			return 0, err
		}
		return 0, r.renderer.Wins(w, job.Year, rows)
	case Months:
		sum, err := RacesPerMonth(ds, job.Year)
		if err != nil {
			return 0, err
		}
		r.noteSkipped(job, sum)
		return sum.Skipped, r.renderer.Months(w, job.Year, sum.Months)
	case Nationalities:
		rows, err := NationalityDistribution(ds, job.Year)
		if err != nil {
			return 0, err
		}
		return 0, r.renderer.Nationalities(w, job.Year, rows)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReport, job.Kind)
}

func (r *Runner) noteSkipped(job Job, sum MonthlySummary) {
	if sum.Skipped == 0 {
		return
	}
	r.metrics.SkippedDates(sum.Skipped)
	r.log.Warn("races without a parseable date left out",
		zap.Int("year", job.Year),
		zap.Int("skipped", sum.Skipped),
		zap.Ints("race_ids", sum.SkippedRaceIDs),
	)
}
