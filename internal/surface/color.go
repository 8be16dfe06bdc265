package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent paints nothing.
var Transparent = color.RGBA{}

// ParseColor understands CSS-style colors: names, #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(r, g, b) and rgba(r, g, b, a) with alpha in 0..1.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if spec == "transparent" {
		return Transparent, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		return parseHex(s, spec[1:])
	}
	if strings.HasPrefix(spec, "rgb") {
		return parseFunc(s, spec)
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// MustColor parses s and falls back when it is invalid.
func MustColor(s string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(orig, hex string) (color.RGBA, error) {
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}
	return premultiply(color.NRGBA{
		R: uint8(val >> 24),
		G: uint8(val >> 16),
		B: uint8(val >> 8),
		A: uint8(val),
	}), nil
}

func parseFunc(orig, spec string) (color.RGBA, error) {
	open := strings.IndexByte(spec, '(')
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
	}
	name := strings.TrimSpace(spec[:open])
	args := strings.Split(spec[open+1:len(spec)-1], ",")
	if (name == "rgb" && len(args) != 3) || (name == "rgba" && len(args) != 4) || (name != "rgb" && name != "rgba") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
		}
		ch[i] = uint8(v + 0.5)
	}
	alpha := 1.0
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.RGBA{}, fmt.Errorf("invalid color %q", orig)
		}
		alpha = a
	}
	return premultiply(color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(alpha*255 + 0.5)}), nil
}

func premultiply(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
