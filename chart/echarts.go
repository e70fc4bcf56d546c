package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/padraicbc/f1report/models"
)

// ECharts renders self-contained HTML pages with go-echarts.
type ECharts struct {
	// AssetsHost overrides where echarts.min.js is loaded from.
	AssetsHost string
}

func (ECharts) Ext() string { return "html" }

func (e ECharts) init(title, width, height string) opts.Initialization {
	in := opts.Initialization{PageTitle: title, Width: width, Height: height}
	if e.AssetsHost != "" {
		in.AssetsHost = e.AssetsHost
	}
	return in
}

// bar draws counts, so the y axis never steps below 1.
func (e ECharts) bar(w io.Writer, title, xName, yName, series string, labels []string, values []opts.BarData) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(e.init(title, "1600px", "800px")),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, NameLocation: "middle", NameGap: 30, MinInterval: 1}),
	)
	bar.SetXAxis(labels).
		AddSeries(series, values,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: skyBlueHex}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar.Render(w)
}

func (e ECharts) Wins(w io.Writer, year int, rows []models.WinRecord) error {
	labels := make([]string, len(rows))
	values := make([]opts.BarData, len(rows))
	for i, r := range rows {
		labels[i] = r.Name
		values[i] = opts.BarData{Value: r.Wins}
	}
	return e.bar(w, winsTitle(year), "Driver name", "Number of wins", "wins", labels, values)
}

func (e ECharts) Months(w io.Writer, year int, rows []models.MonthlyRaceCount) error {
	labels := make([]string, len(rows))
	values := make([]opts.BarData, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		values[i] = opts.BarData{Value: r.Races}
	}
	return e.bar(w, monthsTitle(year), "Month", "Number of Races", "races", labels, values)
}

// pieLabel shows the slice name and its share with one decimal.
var pieLabel = opts.FuncOpts(`function (p) { return p.name + ': ' + p.percent.toFixed(1) + '%'; }`)

// Nationalities draws a pie with slices in row order and the plasma ramp
// applied in reverse.
func (e ECharts) Nationalities(w io.Writer, year int, rows []models.NationalityCount) error {
	colors := ReversedPlasma(len(rows))
	items := make([]opts.PieData, len(rows))
	for i, r := range rows {
		items[i] = opts.PieData{
			Name:      r.Nationality,
			Value:     r.Drivers,
			ItemStyle: &opts.ItemStyle{Color: hex(colors[i])},
		}
	}

	title := nationalityTitle(year)
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(e.init(title, "1000px", "1000px")),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	pie.AddSeries("nationality", items,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: pieLabel}),
	)
	return pie.Render(w)
}
