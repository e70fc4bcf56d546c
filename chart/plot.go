package chart

import (
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/padraicbc/f1report/models"
)

// Plot renders PNG images with gonum/plot. gonum has no pie plotter, so
// the nationality chart is drawn as horizontal percentage bars.
type Plot struct {
	Width, Height vg.Length
}

func (Plot) Ext() string { return "png" }

func (p Plot) size() (vg.Length, vg.Length) {
	w, h := p.Width, p.Height
	if w == 0 {
		w = 20 * vg.Inch
	}
	if h == 0 {
		h = 10 * vg.Inch
	}
	return w, h
}

func (p Plot) Wins(w io.Writer, year int, rows []models.WinRecord) error {
	labels := make([]string, len(rows))
	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		labels[i] = r.Name
		values[i] = float64(r.Wins)
	}
	pl := newPlot(winsTitle(year), "Driver name", "Number of wins")
	pl.X.Tick.Label.Rotation = math.Pi / 4
	if err := addBars(pl, labels, values, false); err != nil {
		return err
	}
	return p.write(w, pl)
}

func (p Plot) Months(w io.Writer, year int, rows []models.MonthlyRaceCount) error {
	labels := make([]string, len(rows))
	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		values[i] = float64(r.Races)
	}
	pl := newPlot(monthsTitle(year), "Month", "Number of Races")
	if err := addBars(pl, labels, values, false); err != nil {
		return err
	}
	return p.write(w, pl)
}

func (p Plot) Nationalities(w io.Writer, year int, rows []models.NationalityCount) error {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Nationality
	}
	pl := newPlot(nationalityTitle(year), "Share of drivers (%)", "")
	if err := addBars(pl, labels, plotter.Values(shares(rows)), true); err != nil {
		return err
	}
	return p.write(w, pl)
}

func newPlot(title, x, y string) *plot.Plot {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = x
	pl.Y.Label.Text = y
	return pl
}

func addBars(pl *plot.Plot, labels []string, values plotter.Values, horizontal bool) error {
	if len(values) == 0 {
		return nil
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = skyBlue
	bars.LineStyle.Width = 0
	bars.Horizontal = horizontal
	pl.Add(bars)
	if horizontal {
		pl.NominalY(labels...)
		return nil
	}
	pl.NominalX(labels...)
	pl.Y.Min = 0
	pl.Y.Tick.Marker = plot.TickerFunc(integerTicks)
	return nil
}

// integerTicks labels whole numbers only; bars are counts.
func integerTicks(min, max float64) []plot.Tick {
	lo, hi := math.Ceil(min), math.Floor(max)
	step := math.Max(1, math.Ceil((hi-lo)/10))
	var ticks []plot.Tick
	for v := lo; v <= hi; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return ticks
}

func (p Plot) write(w io.Writer, pl *plot.Plot) error {
	width, height := p.size()
	wt, err := pl.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
