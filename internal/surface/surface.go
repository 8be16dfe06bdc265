// Package surface is the raster the drawing is painted on.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/logging"
)

// Surface is a 2D raster. Every drawing call is a no-op while the surface
// has no area.
type Surface interface {
	Size() coords.Size
	Resize(coords.Size) error
	Fill(c color.Color)
	DrawCover(img image.Image, offX, offY float64)
	Stroke(from, to coords.Point, c color.Color, width float64)
	Text(s string, at coords.Point, c color.Color, f Font) error
	Image() *image.RGBA
}

// Raster is a Surface backed by a gg software context.
type Raster struct {
	dc   *gg.Context
	size coords.Size
}

// NewRaster returns a raster of the given size. An empty size is allowed and
// is fixed up by a later Resize.
func NewRaster(size coords.Size) *Raster {
	if size.Empty() {
		return &Raster{size: coords.Size{W: max(size.W, 0), H: max(size.H, 0)}}
	}
	return &Raster{dc: gg.NewContext(size.W, size.H), size: size}
}

func (r *Raster) Size() coords.Size {
	return r.size
}

// Resize changes the raster size. The pixels are not preserved.
func (r *Raster) Resize(size coords.Size) error {
	if size.Empty() {
		r.size = coords.Size{W: max(size.W, 0), H: max(size.H, 0)}
		return nil
	}
	if r.dc == nil {
		r.dc = gg.NewContext(size.W, size.H)
	} else if err := r.dc.Resize(size.W, size.H); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	r.size = size
	return nil
}

func (r *Raster) ready() bool {
	return r.dc != nil && !r.size.Empty()
}

// Fill replaces every pixel with c.
func (r *Raster) Fill(c color.Color) {
	if !r.ready() {
		return
	}
	r.dc.ClearWithColor(gg.FromColor(c))
}

// DrawCover paints img so it covers the whole raster.
func (r *Raster) DrawCover(img image.Image, offX, offY float64) {
	if !r.ready() || img == nil {
		return
	}
	b := img.Bounds()
	src := CoverRect(b.Size(), image.Pt(r.size.W, r.size.H), offX, offY)
	if src.Empty() {
		return
	}
	r.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		DstWidth:      float64(r.size.W),
		DstHeight:     float64(r.size.H),
		SrcRect:       &src,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// Stroke paints one round-joined segment. Fully transparent colors paint
// nothing.
func (r *Raster) Stroke(from, to coords.Point, c color.Color, width float64) {
	if !r.ready() {
		return
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.MoveTo(from.X, from.Y)
	r.dc.LineTo(to.X, to.Y)
	r.dc.ClosePath()
	if err := r.dc.Stroke(); err != nil {
		logging.Logger().Warn("stroke failed", "err", err)
	}
}

// Text draws s with its top-left corner at at.
func (r *Raster) Text(s string, at coords.Point, c color.Color, f Font) error {
	if !r.ready() || s == "" {
		return nil
	}
	face, err := f.face()
	if err != nil {
		return err
	}
	r.dc.SetFont(face)
	r.dc.SetColor(c)
	_, h := r.dc.MeasureString(s)
	r.dc.DrawString(s, at.X, at.Y+h*0.8)
	return nil
}

// Image returns a copy of the pixels.
func (r *Raster) Image() *image.RGBA {
	if !r.ready() {
		return image.NewRGBA(image.Rect(0, 0, r.size.W, r.size.H))
	}
	if img, ok := r.dc.Image().(*image.RGBA); ok {
		return img
	}
	img := r.dc.Image()
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
