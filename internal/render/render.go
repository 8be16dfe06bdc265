// Package render replays updates onto a surface and owns the draw history.
package render

import (
	"image"
	"image/color"

	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/history"
	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

// Defaults applied when the corresponding field is left empty.
const (
	DefaultStrokeColor = "rgb(216, 184, 0)"
	DefaultBackground  = "#fff"
	DefaultLineWidth   = 1.0
)

// ImageState describes the background image.
type ImageState int

const (
	ImageNone ImageState = iota
	ImageLoading
	ImageLoaded
	ImageFailed
)

func (s ImageState) String() string {
	switch s {
	case ImageNone:
		return "none"
	case ImageLoading:
		return "loading"
	case ImageLoaded:
		return "loaded"
	case ImageFailed:
		return "failed"
	}
	return "unknown"
}

// Engine paints updates and keeps them for replay. It is not safe for
// concurrent use; callers run it on one goroutine.
type Engine struct {
	surface surface.Surface
	history *history.Store

	strokeColor color.RGBA
	background  color.RGBA
	lineWidth   float64
	font        surface.Font

	bgImage    image.Image
	imageState ImageState
	imageErr   error
	generation uint64

	deferred []*update.Update
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrokeColor sets the color used by updates without their own.
func WithStrokeColor(c string) Option {
	return func(e *Engine) { e.SetStrokeColor(c) }
}

// WithBackground sets the starting fill color.
func WithBackground(c string) Option {
	return func(e *Engine) {
		e.background = surface.MustColor(c, e.background)
	}
}

// WithLineWidth sets the default stroke width.
func WithLineWidth(w float64) Option {
	return func(e *Engine) { e.SetLineWidth(w) }
}

// WithFont sets the face used for text updates that do not name one.
func WithFont(f surface.Font) Option {
	return func(e *Engine) { e.font = f }
}

// New returns an engine drawing onto s. The surface is filled with the
// background straight away.
func New(s surface.Surface, opts ...Option) *Engine {
	e := &Engine{
		surface:     s,
		history:     history.New(),
		strokeColor: surface.MustColor(DefaultStrokeColor, color.RGBA{A: 255}),
		background:  surface.MustColor(DefaultBackground, color.RGBA{255, 255, 255, 255}),
		lineWidth:   DefaultLineWidth,
		font:        surface.Font{Size: surface.DefaultFontSize},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.paintBackground()
	return e
}

func (e *Engine) History() *history.Store      { return e.history }
func (e *Engine) Surface() surface.Surface     { return e.surface }
func (e *Engine) Size() coords.Size            { return e.surface.Size() }
func (e *Engine) LineWidth() float64           { return e.lineWidth }
func (e *Engine) StrokeColor() color.RGBA      { return e.strokeColor }
func (e *Engine) Background() color.RGBA       { return e.background }
func (e *Engine) Font() surface.Font           { return e.font }
func (e *Engine) ImageState() ImageState       { return e.imageState }
func (e *Engine) ImageError() error            { return e.imageErr }
func (e *Engine) Deferred() int                { return len(e.deferred) }
func (e *Engine) BackgroundImage() image.Image { return e.bgImage }

// SetStrokeColor ignores colors it cannot parse.
func (e *Engine) SetStrokeColor(c string) {
	col, err := surface.ParseColor(c)
	if err != nil {
		logging.For("render").Warn("ignoring stroke color", "color", c, "err", err)
		return
	}
	e.strokeColor = col
}

func (e *Engine) SetLineWidth(w float64) {
	if w > 0 {
		e.lineWidth = w
	}
}

func (e *Engine) SetFont(f surface.Font) {
	e.font = f
}

// CanDraw reports whether updates are painted now rather than deferred.
func (e *Engine) CanDraw() bool {
	return e.imageState != ImageLoading && !e.surface.Size().Empty()
}

// Draw paints u and appends it to the history. When fractional is set the
// position is a fraction of the surface, otherwise device pixels.
func (e *Engine) Draw(u *update.Update, fractional bool) {
	pos := coords.Point{X: u.X(), Y: u.Y()}
	if fractional {
		pos = coords.Denormalize(pos, e.surface.Size())
	}
	switch u.Type() {
	case update.Drag:
		if from, ok := e.history.LastPosition(u.UUID()); ok {
			e.surface.Stroke(from, pos, e.colorFor(u), e.widthFor(u))
		}
	case update.Stop:
		if u.Visible() && u.Text() != "" {
			e.drawText(u, pos)
		}
	}
	e.history.Append(u, pos)
}

func (e *Engine) colorFor(u *update.Update) color.Color {
	if !u.Visible() {
		return surface.Transparent
	}
	if u.StrokeColor() != "" {
		if c, err := surface.ParseColor(u.StrokeColor()); err == nil {
			return c
		}
	}
	return e.strokeColor
}

func (e *Engine) widthFor(u *update.Update) float64 {
	if u.LineWidth() > 0 {
		return u.LineWidth()
	}
	return e.lineWidth
}

func (e *Engine) drawText(u *update.Update, at coords.Point) {
	f := e.font
	if u.FontFamily() != "" {
		f.Family = u.FontFamily()
	}
	if u.FontSize() > 0 {
		f.Size = u.FontSize()
	}
	if err := e.surface.Text(u.Text(), at, e.colorFor(u), f); err != nil {
		logging.For("render").Warn("text annotation not drawn", "uuid", u.UUID(), "err", err)
	}
}

// DrawUpdates paints updates received from elsewhere. Their positions are
// fractions. While the engine cannot draw they are queued in order.
func (e *Engine) DrawUpdates(updates []*update.Update) {
	if !e.CanDraw() {
		e.deferred = append(e.deferred, updates...)
		return
	}
	e.drainDeferred()
	for _, u := range updates {
		e.Draw(u, true)
	}
}

func (e *Engine) drainDeferred() {
	if len(e.deferred) == 0 {
		return
	}
	pending := e.deferred
	e.deferred = nil
	for _, u := range pending {
		e.Draw(u, true)
	}
}

// RedrawAll clears the surface, restores the background and replays the
// whole history from fractional positions.
func (e *Engine) RedrawAll() {
	snapshot := e.history.Snapshot()
	e.history.Reset()
	e.paintBackground()
	for _, u := range snapshot {
		e.Draw(u, true)
	}
}

// RedrawBackground repaints only the background fill and image.
func (e *Engine) RedrawBackground() {
	e.paintBackground()
}

func (e *Engine) paintBackground() {
	e.surface.Fill(e.background)
	if e.bgImage != nil && e.imageState == ImageLoaded {
		e.surface.DrawCover(e.bgImage, 0.5, 0.5)
	}
}

// Undo hides the latest stroke and replays. It returns the stroke id, or
// false when there was nothing to undo.
func (e *Engine) Undo() (string, bool) {
	id, ok := e.history.Undo()
	if ok {
		e.RedrawAll()
	}
	return id, ok
}

// Redo shows the latest undone stroke and replays.
func (e *Engine) Redo() (string, bool) {
	id, ok := e.history.Redo()
	if ok {
		e.RedrawAll()
	}
	return id, ok
}

// Clear drops the history and both stacks and repaints the background.
func (e *Engine) Clear() {
	e.history.Clear()
	e.paintBackground()
}

// Resize changes the surface size and replays. Deferred updates are drawn
// once the surface has an area.
func (e *Engine) Resize(size coords.Size) error {
	if err := e.surface.Resize(size); err != nil {
		return err
	}
	e.RedrawAll()
	if e.CanDraw() {
		e.drainDeferred()
	}
	return nil
}

// BeginImageLoad marks a new background image as loading and returns the
// token the result must be delivered with. Any earlier load is superseded.
func (e *Engine) BeginImageLoad() uint64 {
	e.generation++
	e.imageState = ImageLoading
	e.imageErr = nil
	return e.generation
}

// FinishImageLoad applies the outcome of the load identified by token. It
// reports false when the load was superseded and nothing changed. On
// failure the engine keeps drawing over the plain background.
func (e *Engine) FinishImageLoad(token uint64, img image.Image, err error) bool {
	if token != e.generation || e.imageState != ImageLoading {
		return false
	}
	if err != nil || img == nil {
		e.imageState = ImageFailed
		e.imageErr = err
		e.bgImage = nil
		logging.For("render").Warn("background image failed", "err", err)
	} else {
		e.imageState = ImageLoaded
		e.bgImage = img
	}
	e.RedrawAll()
	if e.CanDraw() {
		e.drainDeferred()
	}
	return true
}

// ClearImage drops the background image.
func (e *Engine) ClearImage() {
	e.generation++
	e.bgImage = nil
	e.imageErr = nil
	e.imageState = ImageNone
	e.RedrawAll()
	if e.CanDraw() {
		e.drainDeferred()
	}
}
