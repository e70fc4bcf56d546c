package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/padraicbc/f1report/models"
)

var (
	wins = []models.WinRecord{
		{DriverID: 10, Forename: "Max", Surname: "Verstappen", Name: "Max Verstappen", Wins: 2},
	}
	months = []models.MonthlyRaceCount{{Month: 3, Label: "Mar", Races: 2}}
	nats   = []models.NationalityCount{{Nationality: "British", Drivers: 3}, {Nationality: "Dutch", Drivers: 1}}
)

func TestNew(t *testing.T) {
	for format, ext := range map[string]string{"": "html", "html": "html", "PNG": "png"} {
		r, err := New(format)
		require.NoError(t, err)
		assert.Equal(t, ext, r.Ext())
	}
	_, err := New("svg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEChartsRender(t *testing.T) {
	r := ECharts{}

	var buf bytes.Buffer
	require.NoError(t, r.Wins(&buf, 2022, wins))
	assert.Contains(t, buf.String(), "Wins per driver in 2022 season")
	assert.Contains(t, buf.String(), "Max Verstappen")
	assert.Contains(t, buf.String(), `"minInterval":1`)

	buf.Reset()
	require.NoError(t, r.Months(&buf, 2022, months))
	assert.Contains(t, buf.String(), "Number of Races per Month in 2022")
	assert.Contains(t, buf.String(), "Mar")
	assert.Contains(t, buf.String(), `"minInterval":1`)

	buf.Reset()
	require.NoError(t, r.Nationalities(&buf, 2023, nats))
	out := buf.String()
	assert.Contains(t, out, "Nationality Distribution of F1 Drivers in 2023 Season")
	assert.Contains(t, out, hex(plasmaStops[len(plasmaStops)-1]), "first slice takes the bright end")
	assert.Contains(t, out, hex(plasmaStops[0]))
	assert.Contains(t, out, "p.percent.toFixed(1)")
	assert.NotContains(t, out, "{d}%")
}

func TestRenderEmpty(t *testing.T) {
	for _, r := range []Renderer{ECharts{}, Plot{Width: 4 * vg.Inch, Height: 3 * vg.Inch}} {
		var buf bytes.Buffer
		require.NoError(t, r.Wins(&buf, 1950, nil), r.Ext())
		require.NoError(t, r.Months(&buf, 1950, nil), r.Ext())
		require.NoError(t, r.Nationalities(&buf, 1950, nil), r.Ext())
		assert.NotZero(t, buf.Len())
	}
}

func TestPlotRender(t *testing.T) {
	r := Plot{Width: 4 * vg.Inch, Height: 3 * vg.Inch}
	pngMagic := []byte("\x89PNG\r\n\x1a\n")

	for name, render := range map[string]func(*bytes.Buffer) error{
		"wins":        func(b *bytes.Buffer) error { return r.Wins(b, 2022, wins) },
		"months":      func(b *bytes.Buffer) error { return r.Months(b, 2022, months) },
		"nationality": func(b *bytes.Buffer) error { return r.Nationalities(b, 2023, nats) },
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestIntegerTicks(t *testing.T) {
	ticks := integerTicks(0, 3.4)
	require.Len(t, ticks, 4)
	assert.Equal(t, "3", ticks[3].Label)

	assert.Len(t, integerTicks(0, 100), 11)
}

func TestPalette(t *testing.T) {
	assert.Empty(t, ReversedPlasma(0))
	assert.Equal(t, plasmaStops[0], ReversedPlasma(1)[0])

	ramp := ReversedPlasma(3)
	assert.Equal(t, plasmaStops[len(plasmaStops)-1], ramp[0])
	assert.Equal(t, plasmaStops[5], ramp[1])
	assert.Equal(t, plasmaStops[0], ramp[2])
	assert.Equal(t, "#87ceeb", hex(skyBlue))
}

func TestShares(t *testing.T) {
	assert.Equal(t, []float64{75, 25}, shares(nats))
	assert.Equal(t, []float64{0}, shares([]models.NationalityCount{{Nationality: "x"}}))
}
