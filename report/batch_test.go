package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/padraicbc/f1report/chart"
	"github.com/padraicbc/f1report/metrics"
)

func TestParsePlan(t *testing.T) {
	jobs, err := ParsePlan("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan, jobs)

	jobs, err = ParsePlan(" wins:2018, Nationalities:2023 ,")
	require.NoError(t, err)
	assert.Equal(t, []Job{{Wins, 2018}, {Nationalities, 2023}}, jobs)

	for _, bad := range []string{"wins", "laps:2020", "months:soon", ",,"} {
		_, err := ParsePlan(bad)
		assert.Error(t, err, bad)
	}
	_, err = ParsePlan("laps:2020")
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestJobNames(t *testing.T) {
	j := Job{Kind: Nationalities, Year: 2023}
	assert.Equal(t, "nationality:2023", j.String())
	assert.Equal(t, "nationality-2023.png", j.Filename("png"))
}

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.InfoLevel)
	rec := metrics.New()
	r := NewRunner(chart.ECharts{}, dir, zap.New(core), rec)

	ds := season2022()
	ds.Races = append(ds.Races, ds.Races[0])
	ds.Races[2].RaceID = 3
	ds.Races[2].Date = `\N`

	out := r.Run(context.Background(), ds, []Job{
		{Wins, 2022},
		{Months, 2022},
		{Nationalities, 1899},
		{Nationalities, 2022},
	})
	require.Len(t, out, 4)

	for _, i := range []int{0, 1, 3} {
		require.NoError(t, out[i].Err, out[i].Job.String())
		assert.FileExists(t, out[i].Path)
	}
	assert.Equal(t, filepath.Join(dir, "wins-2022.html"), out[0].Path)
	assert.Equal(t, 1, out[1].Skipped)

	assert.ErrorIs(t, out[2].Err, ErrYearNotFound)
	assert.Empty(t, out[2].Path)
	assert.NoFileExists(t, filepath.Join(dir, "nationality-1899.html"))

	b, err := os.ReadFile(out[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Max Verstappen")

	assert.Equal(t, 1, logs.FilterMessage("season not in dataset, report skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("races without a parseable date left out").Len())
	assert.Equal(t, 3, logs.FilterMessage("chart written").Len())

	n, err := testutil.GatherAndCount(rec.Registry(), "f1report_reports_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	out := NewRunner(chart.ECharts{}, dir, nil, nil).Run(ctx, season2022(), DefaultPlan)
	require.Len(t, out, len(DefaultPlan))
	for _, oc := range out {
		assert.ErrorIs(t, oc.Err, context.Canceled)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunnerRender(t *testing.T) {
	r := NewRunner(chart.Plot{}, "", nil, nil)

	var buf bytes.Buffer
	_, err := r.Render(&buf, season2022(), Job{Wins, 2022})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	_, err = r.Render(&buf, season2022(), Job{Kind("laps"), 2022})
	assert.ErrorIs(t, err, ErrUnknownReport)
	assert.Zero(t, buf.Len())
}
