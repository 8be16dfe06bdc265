package window

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/render"
)

const (
	barHeight  = 28
	barPadding = 6
)

var (
	barColor    = color.RGBA{235, 235, 235, 255}
	buttonColor = color.RGBA{250, 250, 250, 255}
	hoverColor  = color.RGBA{210, 225, 245, 255}
	activeColor = color.RGBA{180, 205, 240, 255}
)

type barButton struct {
	name  string
	label string
	rect  image.Rectangle
	run   func(c *canvas.Canvas)
}

// toolbar lays out the enabled buttons along a bar at the bottom of a
// window of the given height.
func toolbar(b canvas.Buttons, height int) []barButton {
	d := &font.Drawer{Face: basicfont.Face7x13}
	specs := []struct {
		name string
		btn  canvas.Button
		run  func(c *canvas.Canvas)
	}{
		{"draw", b.Draw, (*canvas.Canvas).SelectPencil},
		{"clear", b.Clear, (*canvas.Canvas).ClearCanvasLocal},
		{"undo", b.Undo, (*canvas.Canvas).UndoLocal},
		{"redo", b.Redo, (*canvas.Canvas).RedoLocal},
		{"save", b.Save, func(c *canvas.Canvas) { c.SaveLocal("image/png") }},
	}
	top := height - barHeight
	x := barPadding
	var out []barButton
	for _, s := range specs {
		if !s.btn.Enabled {
			continue
		}
		label := s.btn.Label
		if label == "" {
			label = s.name
		}
		w := d.MeasureString(label).Ceil() + 2*barPadding
		r := image.Rect(x, top+3, x+w, height-3)
		out = append(out, barButton{name: s.name, label: label, rect: r, run: s.run})
		x = r.Max.X + barPadding
	}
	return out
}

func hitButton(buttons []barButton, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.rect) {
			return i
		}
	}
	return -1
}

func drawToolbar(dst *image.RGBA, buttons []barButton, hover int, c *canvas.Canvas) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-barHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, &image.Uniform{barColor}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	for i, btn := range buttons {
		bg := buttonColor
		if btn.name == "draw" && c.ShouldDraw() {
			bg = activeColor
		}
		if i == hover {
			bg = hoverColor
		}
		draw.Draw(dst, btn.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
		drawRect(dst, btn.rect, color.Gray{160})
		d.Dot = fixed.P(btn.rect.Min.X+barPadding, btn.rect.Max.Y-7)
		d.DrawString(btn.label)
	}
	status := statusText(c)
	w := d.MeasureString(status).Ceil()
	d.Dot = fixed.P(bar.Max.X-w-barPadding, bar.Max.Y-10)
	d.DrawString(status)
}

func statusText(c *canvas.Canvas) string {
	s := fmt.Sprintf("%s %gpx", c.Mode(), c.Engine().LineWidth())
	switch c.Engine().ImageState() {
	case render.ImageLoading:
		s += " | loading image"
	case render.ImageFailed:
		s += " | image failed"
	}
	return s
}

func drawRect(img *image.RGBA, r image.Rectangle, col color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, col)
		img.Set(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, col)
		img.Set(r.Max.X-1, y, col)
	}
}
