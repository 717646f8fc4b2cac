package sink

import (
	"strconv"
	"strings"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/svgdoc"
)

// ViewBox is a parsed SVG viewBox attribute.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

var defaultViewBox = ViewBox{Width: 200, Height: 200}

// ParseViewBox parses "min-x min-y width height" separated by spaces or
// commas. An empty string yields the default 200x200 box.
func ParseViewBox(s string) (ViewBox, error) {
	if strings.TrimSpace(s) == "" {
		s = svgdoc.DefaultViewBox
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidInput, "viewBox %q: want 4 numbers", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "viewBox %q", s)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidInput, "viewBox %q: size must be positive", s)
	}
	return ViewBox{MinX: v[0], MinY: v[1], Width: v[2], Height: v[3]}, nil
}

func (v ViewBox) String() string {
	return num(v.MinX) + " " + num(v.MinY) + " " + num(v.Width) + " " + num(v.Height)
}
