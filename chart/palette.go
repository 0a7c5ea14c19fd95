package chart

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the colours of the charts as hex strings e.g. #adff2f
type Palette struct {
	Passed     string
	Failed     string
	Font       string
	Background string
}

// DefaultPalette is the scoreboard colour scheme
func DefaultPalette() Palette {
	return Palette{
		Passed:     "#adff2f",
		Failed:     "#e93d27",
		Font:       "#c7d4d3",
		Background: "#042c34",
	}
}

// Colour returns the hex colour of the role
func (p Palette) Colour(r Role) string {
	if r == RoleFailed {
		return p.Failed
	}
	return p.Passed
}

func toColour(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
