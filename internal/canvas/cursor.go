package canvas

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/assets"
)

// CursorKind is the pointer shape shown over the canvas.
type CursorKind int

const (
	CursorDefault CursorKind = iota
	CursorPencil
	CursorCircle
)

// Cursor describes the pointer. Diameter is set for CursorCircle. Hotspot
// is relative to the top-left corner of CursorImage.
type Cursor struct {
	Kind     CursorKind
	Diameter float64
	Hotspot  image.Point
}

// Cursor returns the pencil while the pencil is drawing, otherwise a circle
// as wide as the line. A "default" cursor option keeps the system pointer.
func (c *Canvas) Cursor() Cursor {
	if c.opts.Cursor == "default" {
		return Cursor{Kind: CursorDefault}
	}
	if c.mode == Pencil && c.shouldDraw {
		return Cursor{Kind: CursorPencil, Hotspot: image.Pt(0, 18)}
	}
	d := c.engine.LineWidth()
	half := int(math.Ceil(d/2)) + 1
	return Cursor{Kind: CursorCircle, Diameter: d, Hotspot: image.Pt(half, half)}
}

// CursorImage renders the current cursor. It returns nil for CursorDefault.
func (c *Canvas) CursorImage() (image.Image, error) {
	cur := c.Cursor()
	switch cur.Kind {
	case CursorPencil:
		return assets.Cursor("pencil")
	case CursorCircle:
		return circleCursor(cur.Diameter)
	}
	return nil, nil
}

func circleCursor(d float64) (image.Image, error) {
	n := 2*(int(math.Ceil(d/2))+1) + 1
	dc := gg.NewContext(n, n)
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	center := float64(n) / 2
	dc.DrawCircle(center, center, max(d/2, 1))
	if err := dc.Stroke(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}
