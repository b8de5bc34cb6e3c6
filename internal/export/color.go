package export

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor understands the CSS forms the editor produces: #rgb, #rgba,
// #rrggbb, #rrggbbaa, "transparent" and SVG color names.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	if s == "transparent" {
		return color.NRGBA{}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}

	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		// expand #rgb to #rrggbb
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// paintable returns the color and whether anything would be drawn with it.
func paintable(s string) (color.NRGBA, bool) {
	c, ok := ParseColor(s)
	return c, ok && c.A > 0
}
