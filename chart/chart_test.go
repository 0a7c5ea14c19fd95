package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/metarex-media/scoreboard-tool/scoreboard"
	"github.com/metarex-media/scoreboard-tool/trend"
	. "github.com/onsi/gomega"
	"github.com/wcharczuk/go-chart/v2"
)

var onnxEntry = scoreboard.Entry{
	Key:  "onnxruntime",
	Name: "ONNX-Runtime",
	Trend: trend.Trend{
		{Date: "08/06/2019 09:37:45", Passed: 497, Failed: 61, Versions: []trend.PackageVersion{{Name: "onnx", Version: "1.5.0"}}},
		{Date: "08/08/2019 08:34:18", Passed: 507, Failed: 51, Versions: []trend.PackageVersion{{Name: "onnx", Version: "1.6.0"}}},
	},
}

func TestTrendLine(t *testing.T) {
	g := NewWithT(t)

	details, err := TrendLine(onnxEntry, trend.DetailsSeries())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(details.Kind).To(Equal(KindLine))
	g.Expect(details.Title).To(Equal("ONNX-Runtime"))
	g.Expect(details.YMax).To(Equal(100.0))
	g.Expect(details.Labels).To(HaveLen(3))
	g.Expect(details.Labels[0]).To(Equal(trend.Label{""}))
	g.Expect(details.Series[0].Values).To(Equal([]float64{0, 89.07, 90.86}))

	counts, err := TrendLine(onnxEntry, trend.PassedSeries())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(counts.Series[0].Values).To(Equal([]float64{0, 497, 507}))
	// 507 + 507/6 rounded down
	g.Expect(counts.YMax).To(Equal(591.0))

	_, err = TrendLine(scoreboard.Entry{Key: "empty", Trend: trend.Trend{{Date: "08/08/2019 08:34:18"}}}, trend.DetailsSeries())
	g.Expect(errors.Is(err, trend.ErrInvalidInput)).To(BeTrue())
}

func TestLatestBarsAndDonut(t *testing.T) {
	g := NewWithT(t)

	db := scoreboard.Database{Entries: []scoreboard.Entry{
		onnxEntry,
		{Key: "ngraph", Name: "nGraph", Trend: trend.Trend{{Date: "08/01/2019 20:03:03", Passed: 453, Failed: 105}}},
	}}

	bars := LatestBars(db)
	g.Expect(bars.Kind).To(Equal(KindBar))
	g.Expect(bars.Labels).To(Equal([]trend.Label{{"ONNX-Runtime"}, {"nGraph"}}))
	g.Expect(bars.Series[0].Values).To(Equal([]float64{507, 453}))
	g.Expect(bars.Series[1].Values).To(Equal([]float64{51, 105}))
	g.Expect(bars.Validate()).To(Succeed())

	donut := Donut(onnxEntry)
	g.Expect(donut.Kind).To(Equal(KindDonut))
	g.Expect(donut.Kind.String()).To(Equal("donut"))
	g.Expect(donut.Series[0].Values).To(Equal([]float64{507, 51}))
	g.Expect(donut.Validate()).To(Succeed())

	broken := Data{Kind: KindLine, Labels: []trend.Label{{"a"}}, Series: []Dataset{{Values: []float64{1, 2}}}}
	g.Expect(broken.Validate()).ToNot(Succeed())
}

func TestBarChartCounts(t *testing.T) {
	g := NewWithT(t)
	palette := DefaultPalette()

	db := scoreboard.Database{Entries: []scoreboard.Entry{
		{Key: "a", Name: "A", Trend: trend.Trend{{Date: "08/01/2019 20:03:03", Passed: 507, Failed: 51}}},
		{Key: "b", Name: "B", Trend: trend.Trend{{Date: "08/01/2019 20:03:03", Passed: 100, Failed: 10}}},
		{Key: "c", Name: "C", Trend: trend.Trend{{Date: "08/01/2019 20:03:03"}}},
	}}

	d := LatestBars(db)
	// 558 + 558/6
	g.Expect(d.YMax).To(Equal(651.0))

	bars := barChart(d, palette)
	g.Expect(bars.YAxis.Range.GetMax()).To(Equal(d.YMax))
	g.Expect(bars.YAxis.Name).To(Equal("unit tests"))
	g.Expect(bars.Bars).To(HaveLen(6))
	g.Expect(bars.Bars[0].Label).To(Equal("A Passed"))
	g.Expect(bars.Bars[0].Value).To(Equal(507.0))
	g.Expect(bars.Bars[2].Label).To(Equal("B Passed"))
	g.Expect(bars.Bars[2].Value).To(Equal(100.0))

	// bar heights follow the counts on a shared axis
	axis := &chart.ContinuousRange{Min: 0, Max: d.YMax, Domain: 300}
	g.Expect(axis.Translate(bars.Bars[0].Value)).To(BeNumerically(">", axis.Translate(bars.Bars[2].Value)))

	for _, b := range bars.Bars {
		g.Expect(b.Style.FontColor).To(Equal(toColour(palette.Font)))
	}

	var svg bytes.Buffer
	g.Expect(RenderStatic(&svg, d, palette, FormatSVG)).To(Succeed())
	g.Expect(svg.String()).To(ContainSubstring(">650</text>"))
	g.Expect(svg.String()).ToNot(ContainSubstring("%</text>"))
	// the default dark text colour is unreadable on the background
	g.Expect(svg.String()).ToNot(ContainSubstring("fill:rgba(51,51,51,1.0)"))
}

func TestRenderStatic(t *testing.T) {
	g := NewWithT(t)
	palette := DefaultPalette()

	details, _ := TrendLine(onnxEntry, trend.DetailsSeries())
	db := scoreboard.Database{Entries: []scoreboard.Entry{onnxEntry}}

	for _, d := range []Data{details, LatestBars(db), Donut(onnxEntry)} {
		var svg bytes.Buffer
		g.Expect(RenderStatic(&svg, d, palette, FormatSVG)).To(Succeed(), d.Kind.String())
		g.Expect(svg.String()).To(HavePrefix("<svg"))
	}

	var png bytes.Buffer
	g.Expect(RenderStatic(&png, details, palette, FormatPNG)).To(Succeed())
	g.Expect(png.String()).To(HavePrefix("\x89PNG"))

	var out bytes.Buffer
	g.Expect(RenderStatic(&out, details, palette, "gif")).ToNot(Succeed())

	empty := Donut(scoreboard.Entry{Name: "empty", Trend: trend.Trend{{Date: "08/08/2019 08:34:18"}}})
	err := RenderStatic(&out, empty, palette, FormatSVG)
	g.Expect(errors.Is(err, ErrEmptyChart)).To(BeTrue())
}

func TestRenderInteractive(t *testing.T) {
	g := NewWithT(t)

	details, _ := TrendLine(onnxEntry, trend.DetailsSeries())

	var page bytes.Buffer
	g.Expect(RenderInteractive(&page, details, DefaultPalette(), "")).To(Succeed())
	g.Expect(page.String()).To(ContainSubstring("echarts"))
	g.Expect(page.String()).To(ContainSubstring("ONNX-Runtime"))
	g.Expect(page.String()).To(ContainSubstring("90.86"))

	var pie bytes.Buffer
	g.Expect(RenderInteractive(&pie, Donut(onnxEntry), DefaultPalette(), DefaultTheme)).To(Succeed())
	g.Expect(pie.String()).To(ContainSubstring("Passed"))
}
