package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// DefaultTheme is the theme of the interactive charts
const DefaultTheme = types.ThemeWesteros

// RenderInteractive writes the chart as a standalone html page.
func RenderInteractive(w io.Writer, d Data, palette Palette, theme string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if theme == "" {
		theme = DefaultTheme
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       d.Title,
			Theme:           theme,
			BackgroundColor: palette.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      d.Title,
			TitleStyle: &opts.TextStyle{Color: palette.Font},
		}),
	}

	labels := make([]string, len(d.Labels))
	for i, l := range d.Labels {
		labels[i] = l.String()
	}

	switch d.Kind {
	case KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(append(global, yAxis(d, palette))...)
		line.SetXAxis(labels)

		for _, s := range d.Series {
			items := make([]opts.LineData, len(s.Values))
			for i, v := range s.Values {
				items[i] = opts.LineData{Value: v}
			}
			line.AddSeries(s.Name, items,
				charts.WithLineStyleOpts(opts.LineStyle{Color: palette.Colour(s.Role), Width: 3}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.Colour(s.Role)}),
			)
		}

		return line.Render(w)
	case KindBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(append(global, yAxis(d, palette))...)
		bar.SetXAxis(labels)

		for _, s := range d.Series {
			items := make([]opts.BarData, len(s.Values))
			for i, v := range s.Values {
				items[i] = opts.BarData{Value: v}
			}
			bar.AddSeries(s.Name, items,
				charts.WithBarChartOpts(opts.BarChart{Stack: "results"}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.Colour(s.Role)}),
			)
		}

		return bar.Render(w)
	case KindDonut:
		roles := []Role{RolePassed, RoleFailed}
		items := make([]opts.PieData, 0, len(labels))
		for i, v := range d.Series[0].Values {
			items = append(items, opts.PieData{
				Name:      labels[i],
				Value:     v,
				ItemStyle: &opts.ItemStyle{Color: palette.Colour(roles[i%len(roles)])},
			})
		}

		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		pie.AddSeries(d.Series[0].Name, items,
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"60%", "80%"}}),
		)

		return pie.Render(w)
	default:
		return fmt.Errorf("unknown chart kind %v", d.Kind)
	}
}

func yAxis(d Data, palette Palette) charts.GlobalOpts {
	y := opts.YAxis{
		Name:      d.YLabel,
		Min:       0,
		AxisLabel: &opts.AxisLabel{Color: palette.Font},
	}
	if d.YMax > 0 {
		y.Max = d.YMax
	}
	return charts.WithYAxisOpts(y)
}
