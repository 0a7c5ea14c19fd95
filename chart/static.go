package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart is returned when a chart has nothing to draw
var ErrEmptyChart = errors.New("the chart has no values to draw")

// Static image formats
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Sizes of the static charts
const (
	StaticWidth  = 1024
	StaticHeight = 400
	DonutSize    = 300
)

// RenderStatic draws the chart as an svg or png image.
func RenderStatic(w io.Writer, d Data, palette Palette, format string) error {
	provider, err := rendererProvider(format)
	if err != nil {
		return err
	}

	if err := d.Validate(); err != nil {
		return err
	}

	switch d.Kind {
	case KindLine:
		return lineChart(d, palette).Render(provider, w)
	case KindBar:
		return barChart(d, palette).Render(provider, w)
	case KindDonut:
		donut, err := donutChart(d, palette)
		if err != nil {
			return err
		}
		return donut.Render(provider, w)
	default:
		return fmt.Errorf("unknown chart kind %v", d.Kind)
	}
}

func rendererProvider(format string) (chart.RendererProvider, error) {
	switch strings.ToLower(format) {
	case FormatSVG, "":
		return chart.SVG, nil
	case FormatPNG:
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("unknown image format %q please choose %s or %s", format, FormatSVG, FormatPNG)
	}
}

func lineChart(d Data, palette Palette) *chart.Chart {
	font := chart.Style{FontColor: toColour(palette.Font), StrokeColor: toColour(palette.Font)}

	xMax := float64(len(d.Labels) - 1)
	if xMax < 1 {
		xMax = 1
	}

	xValues := make([]float64, len(d.Labels))
	xTicks := make([]chart.Tick, len(d.Labels))
	for i, l := range d.Labels {
		xValues[i] = float64(i)
		xTicks[i] = chart.Tick{Value: float64(i), Label: strings.Join(l.Text(), " ")}
	}

	graph := &chart.Chart{
		Title:      d.Title,
		TitleStyle: font,
		Width:      StaticWidth,
		Height:     StaticHeight,
		Background: chart.Style{FillColor: toColour(palette.Background)},
		Canvas:     chart.Style{FillColor: toColour(palette.Background)},
		XAxis: chart.XAxis{
			Style: font,
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:      d.YLabel,
			NameStyle: font,
			Style:     font,
			Range:     &chart.ContinuousRange{Min: 0, Max: yMax(d)},
			Ticks:     yTicks(yMax(d)),
		},
	}

	for _, s := range d.Series {
		colour := toColour(palette.Colour(s.Role))
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			Style:   chart.Style{StrokeColor: colour, StrokeWidth: 3, DotColor: colour, DotWidth: 4},
			XValues: xValues,
			YValues: s.Values,
		})
	}

	if len(d.Series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(graph, font)}
	}

	return graph
}

// barChart draws the passed and failed bars of each label side by side,
// on an axis of absolute test counts.
func barChart(d Data, palette Palette) *chart.BarChart {
	font := chart.Style{FontColor: toColour(palette.Font), StrokeColor: toColour(palette.Font)}

	// zero values are drawn in an empty colour so they do not show
	empty := drawing.Color{R: 0xff, G: 0xff, A: 0x00}

	var bars []chart.Value
	for i, l := range d.Labels {
		for _, s := range d.Series {
			colour := toColour(palette.Colour(s.Role))
			if s.Values[i] == 0 {
				colour = empty
			}

			bars = append(bars, chart.Value{
				Label: strings.Join(append(l.Text(), s.Name), " "), Value: s.Values[i],
				Style: chart.Style{FillColor: colour, StrokeColor: colour, FontColor: toColour(palette.Font)},
			})
		}
	}

	max := yMax(d)

	return &chart.BarChart{
		Title:      d.Title,
		TitleStyle: font,
		Width:      StaticWidth,
		Height:     StaticHeight,
		Background: chart.Style{FillColor: toColour(palette.Background)},
		Canvas:     chart.Style{FillColor: toColour(palette.Background)},
		XAxis:      font,
		YAxis: chart.YAxis{
			Name:      d.YLabel,
			NameStyle: font,
			Style:     font,
			Range:     &chart.ContinuousRange{Min: 0, Max: max},
			Ticks:     yTicks(max),
		},
		Bars: bars,
	}
}

func donutChart(d Data, palette Palette) (*chart.DonutChart, error) {
	roles := []Role{RolePassed, RoleFailed}

	var values []chart.Value
	for i, v := range d.Series[0].Values {
		if v <= 0 {
			continue
		}

		colour := toColour(palette.Colour(roles[i%len(roles)]))
		values = append(values, chart.Value{
			Label: strings.Join(d.Labels[i].Text(), " "), Value: v,
			Style: chart.Style{FillColor: colour, StrokeColor: colour, FontColor: toColour(palette.Background)},
		})
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyChart, d.Title)
	}

	return &chart.DonutChart{
		Title:      d.Title,
		TitleStyle: chart.Style{FontColor: toColour(palette.Font)},
		Width:      DonutSize,
		Height:     DonutSize,
		Background: chart.Style{FillColor: toColour(palette.Background)},
		Canvas:     chart.Style{FillColor: toColour(palette.Background)},
		Values:     values,
	}, nil
}

func yMax(d Data) float64 {
	if d.YMax > 0 {
		return d.YMax
	}

	max := 0.0
	for _, s := range d.Series {
		for _, v := range s.Values {
			max = math.Max(max, v)
		}
	}
	return headroom([]float64{max})
}

// yTicks splits the y axis into 5 steps
func yTicks(max float64) []chart.Tick {
	ticks := make([]chart.Tick, 6)
	step := math.RoundToEven(max / 5)
	if step < 1 {
		step = 1
	}
	for i := 0; i < 6; i++ {
		ticks[i] = chart.Tick{Value: float64(i) * step, Label: fmt.Sprintf("%v", float64(i)*step)}
	}
	return ticks
}
