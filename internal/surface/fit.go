package surface

import (
	"image"
	"math"
)

// CoverRect returns the part of a src-sized image that, scaled into dst,
// covers dst completely while keeping the aspect ratio. offX and offY in
// 0..1 pick which part of the overflow is kept; 0.5 centers it.
func CoverRect(src, dst image.Point, offX, offY float64) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return image.Rectangle{}
	}
	offX = clamp01(offX)
	offY = clamp01(offY)

	iw, ih := float64(src.X), float64(src.Y)
	w, h := float64(dst.X), float64(dst.Y)

	r := math.Min(w/iw, h/ih)
	nw, nh := iw*r, ih*r
	ar := 1.0
	if nw < w {
		ar = w / nw
	}
	if math.Abs(ar-1) < 1e-14 && nh < h {
		ar = h / nh
	}
	nw *= ar
	nh *= ar

	cw := iw / (nw / w)
	ch := ih / (nh / h)
	cx := math.Max((iw-cw)*offX, 0)
	cy := math.Max((ih-ch)*offY, 0)
	cw = math.Min(cw, iw)
	ch = math.Min(ch, ih)

	x0, y0 := int(math.Round(cx)), int(math.Round(cy))
	x1 := min(int(math.Round(cx+cw)), src.X)
	y1 := min(int(math.Round(cy+ch)), src.Y)
	return image.Rect(x0, y0, x1, y1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
