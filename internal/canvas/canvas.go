// Package canvas turns pointer, touch and keyboard input into stroke updates
// and keeps the drawing in sync with updates that arrive from elsewhere.
package canvas

import (
	"context"
	"errors"
	"image"
	"time"
	"unicode"

	"github.com/example/drawpad/internal/batch"
	"github.com/example/drawpad/internal/bus"
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/imagesrc"
	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/render"
	"github.com/example/drawpad/internal/schedule"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

// Canvas is the interactive drawing controller. New and every method must
// run on the goroutine of the scheduler it was created with.
type Canvas struct {
	sched      schedule.Scheduler
	opts       Options
	surface    surface.Surface
	engine     *render.Engine
	dispatcher *batch.Dispatcher
	loader     imagesrc.Source
	prompter   TextPrompter

	onClear       func()
	onUndo        func(string)
	onRedo        func(string)
	onBatch       func([]update.Update)
	onImageLoaded func(bool, error)
	onSave        func(SaveResult)
	onChange      func()
	download      func(name string, data []byte) (string, error)
	now           func() time.Time
	outbound      []func(bus.Message)

	mode       Mode
	prevMode   Mode
	shouldDraw bool
	dragging   bool
	lastUUID   string
	text       *textSession

	// updates drawn while the surface had no area; normalized on Layout
	unnormalized []*update.Update

	unsubscribe func()
	cancelLoad  context.CancelFunc
	closed      bool
}

// New returns a canvas. Without WithSurface it draws on an empty raster that
// takes its size from the first Layout.
func New(sched schedule.Scheduler, opts ...Option) *Canvas {
	c := &Canvas{
		sched: sched,
		opts:  DefaultOptions(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.surface == nil {
		c.surface = surface.NewRaster(coords.Size{})
	}
	if c.loader == nil {
		c.loader = imagesrc.NewLoader()
	}
	if c.download == nil {
		c.download = c.writeFile
	}
	c.engine = render.New(c.surface,
		render.WithStrokeColor(c.opts.StrokeColor),
		render.WithBackground(c.opts.StartingColor),
		render.WithLineWidth(c.opts.LineWidth),
		render.WithFont(c.opts.Font),
	)
	c.dispatcher = batch.New(c.opts.BatchTimeout, sched, c.emitBatch)
	c.shouldDraw = !c.opts.ViewOnly
	if c.opts.ImageURL != "" {
		c.LoadImage(c.opts.ImageURL)
	}
	return c
}

func (c *Canvas) Engine() *render.Engine        { return c.engine }
func (c *Canvas) Options() Options              { return c.opts }
func (c *Canvas) ShouldDraw() bool              { return c.shouldDraw }
func (c *Canvas) Dragging() bool                { return c.dragging }
func (c *Canvas) Dispatcher() *batch.Dispatcher { return c.dispatcher }

// Attach subscribes to events from src. A previous source is released.
func (c *Canvas) Attach(src EventSource) {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = src.Subscribe(c.Handle)
}

// Close releases the event source, flushes the pending batch and stops any
// scheduled flush. Later input is ignored.
func (c *Canvas) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.dispatcher.Flush()
	c.dispatcher.Stop()
}

// Handle dispatches a single input event.
func (c *Canvas) Handle(e Event) {
	if c.closed {
		return
	}
	switch e := e.(type) {
	case PointerEvent:
		c.handlePointer(e)
	case KeyEvent:
		c.handleKey(e)
	case ResizeEvent:
		c.Layout(e.Parent)
	}
}

func (c *Canvas) handlePointer(e PointerEvent) {
	textMode := c.mode == Text
	if !(c.shouldDraw && c.engine.CanDraw()) && !textMode {
		return
	}
	var typ update.Type
	switch e.Kind {
	case PointerDown, TouchStart:
		if textMode {
			c.beginText(coords.Point{X: e.X, Y: e.Y})
			return
		}
		c.dragging = true
		c.lastUUID = update.NewStrokeID(e.X, e.Y)
		typ = update.Start
	case PointerMove, TouchMove:
		if !c.dragging {
			return
		}
		typ = update.Drag
	case PointerUp, PointerOut, TouchEnd, TouchCancel:
		if !c.dragging {
			return
		}
		c.dragging = false
		typ = update.Stop
	default:
		return
	}
	u := update.New(e.X, e.Y, typ, c.activeColor(), c.lastUUID).WithLineWidth(c.engine.LineWidth())
	c.submit(u)
}

// submit draws a local update in device pixels, rewrites it to surface
// fractions and queues it for the next batch.
func (c *Canvas) submit(u *update.Update) {
	c.engine.Draw(u, false)
	c.changed()
	p, err := coords.Normalize(coords.Point{X: u.X(), Y: u.Y()}, c.engine.Size())
	if errors.Is(err, coords.ErrEmptySurface) {
		c.unnormalized = append(c.unnormalized, u)
		return
	}
	u.SetPosition(p.X, p.Y)
	c.dispatcher.Enqueue(u)
}

func (c *Canvas) handleKey(e KeyEvent) {
	if !e.Ctrl && !e.Meta {
		return
	}
	b := c.opts.Buttons
	switch unicode.ToLower(e.Rune) {
	case 'z':
		if b.Undo.Enabled {
			c.UndoLocal()
		}
	case 'y':
		if b.Redo.Enabled {
			c.RedoLocal()
		}
	case 's':
		if b.Save.Enabled {
			c.SaveLocal("image/png")
		}
	}
}

// Layout sizes the canvas for a container of the given size and replays the
// drawing. With an aspect ratio the height follows the width.
func (c *Canvas) Layout(parent coords.Size) {
	size := coords.Size{W: parent.W, H: parent.H}
	if c.opts.AspectRatio > 0 {
		size.H = int(float64(parent.W) * c.opts.AspectRatio)
	}
	// Pixel positions must become fractions before the resize replays them.
	var pending []*update.Update
	if !size.Empty() {
		pending, c.unnormalized = c.unnormalized, nil
		for _, u := range pending {
			p, _ := coords.Normalize(coords.Point{X: u.X(), Y: u.Y()}, size)
			u.SetPosition(p.X, p.Y)
		}
	}
	if err := c.engine.Resize(size); err != nil {
		logging.For("canvas").Warn("resize failed", "size", size, "err", err)
	}
	for _, u := range pending {
		c.dispatcher.Enqueue(u)
	}
	c.changed()
}

func (c *Canvas) SetShouldDraw(v bool) { c.shouldDraw = v }

// ChangeColor sets the stroke color of new strokes.
func (c *Canvas) ChangeColor(color string) {
	c.opts.StrokeColor = color
	c.engine.SetStrokeColor(color)
}

// SetLineWidth sets the width of new strokes. Widths below one are ignored.
func (c *Canvas) SetLineWidth(w float64) {
	if w < 1 {
		return
	}
	c.setWidth(w)
}

func (c *Canvas) setWidth(w float64) {
	c.opts.LineWidth = w
	c.engine.SetLineWidth(w)
}

// ClearCanvasLocal clears the drawing and reports it.
func (c *Canvas) ClearCanvasLocal() {
	c.dispatcher.Flush()
	c.ClearCanvas()
	if c.onClear != nil {
		c.onClear()
	}
	c.publish(bus.Message{Kind: bus.KindClear})
}

// ClearCanvas clears the drawing and both undo stacks without reporting.
func (c *Canvas) ClearCanvas() {
	c.dragging = false
	c.engine.Clear()
	c.changed()
}

// UndoLocal undoes the latest stroke and reports its id.
func (c *Canvas) UndoLocal() {
	c.dispatcher.Flush()
	id, ok := c.undo()
	if !ok {
		return
	}
	if c.onUndo != nil {
		c.onUndo(id)
	}
	c.publish(bus.Message{Kind: bus.KindUndo, UUID: id})
}

// Undo undoes the latest stroke without reporting.
func (c *Canvas) Undo() {
	c.undo()
}

func (c *Canvas) undo() (string, bool) {
	id, ok := c.engine.Undo()
	if ok {
		c.changed()
	}
	return id, ok
}

// RedoLocal redoes the latest undone stroke and reports its id.
func (c *Canvas) RedoLocal() {
	c.dispatcher.Flush()
	id, ok := c.redo()
	if !ok {
		return
	}
	if c.onRedo != nil {
		c.onRedo(id)
	}
	c.publish(bus.Message{Kind: bus.KindRedo, UUID: id})
}

// Redo redoes the latest undone stroke without reporting.
func (c *Canvas) Redo() {
	c.redo()
}

func (c *Canvas) redo() (string, bool) {
	id, ok := c.engine.Redo()
	if ok {
		c.changed()
	}
	return id, ok
}

// DrawUpdates paints updates from another source. Their positions are
// surface fractions. The caller's slice is not retained.
func (c *Canvas) DrawUpdates(updates []update.Update) {
	if len(updates) == 0 {
		return
	}
	ptrs := make([]*update.Update, len(updates))
	for i := range updates {
		ptrs[i] = updates[i].Clone()
	}
	c.engine.DrawUpdates(ptrs)
	c.changed()
}

// SetImageURL loads a new background image when url differs from the
// current one.
func (c *Canvas) SetImageURL(url string) {
	if url == c.opts.ImageURL && c.engine.ImageState() != render.ImageNone {
		return
	}
	c.LoadImage(url)
}

// LoadImage replaces the background image. Drawing is deferred until the
// load finishes. An empty url drops the background image. A newer load
// supersedes one still in flight.
func (c *Canvas) LoadImage(url string) {
	c.opts.ImageURL = url
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	if url == "" {
		c.engine.ClearImage()
		c.changed()
		return
	}
	token := c.engine.BeginImageLoad()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelLoad = cancel
	loader := c.loader
	c.sched.Background(func() {
		img, err := loader.Load(ctx, url)
		c.sched.Post(func() { c.finishLoad(token, img, err) })
	})
}

func (c *Canvas) finishLoad(token uint64, img image.Image, err error) {
	if !c.engine.FinishImageLoad(token, img, err) {
		return
	}
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.changed()
	if c.onImageLoaded != nil {
		c.onImageLoaded(err == nil && img != nil, err)
	}
}

func (c *Canvas) emitBatch(updates []update.Update) {
	if c.onBatch != nil {
		c.onBatch(updates)
	}
	c.publish(bus.Message{Kind: bus.KindDraw, Updates: updates})
}

func (c *Canvas) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
