// Package window hosts a canvas in a native window using shiny.
package window

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/clipboard"
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/notify"
	"github.com/example/drawpad/internal/schedule"
	"github.com/example/drawpad/internal/surface"
)

// Window is a native drawing window.
type Window struct {
	title      string
	width      int
	height     int
	canvasOpts []canvas.Option
	notifier   *notify.Notifier
	onReady    func(ctx context.Context, c *canvas.Canvas)
	onClose    func()
}

// Option modifies a Window during creation.
type Option func(*Window)

func WithTitle(t string) Option                   { return func(w *Window) { w.title = t } }
func WithSize(width, height int) Option           { return func(w *Window) { w.width, w.height = width, height } }
func WithCanvasOptions(o ...canvas.Option) Option { return func(w *Window) { w.canvasOpts = append(w.canvasOpts, o...) } }
func WithNotifier(n *notify.Notifier) Option      { return func(w *Window) { w.notifier = n } }
func WithOnClose(fn func()) Option                { return func(w *Window) { w.onClose = fn } }

// WithOnReady runs fn on the canvas goroutine once the canvas exists. ctx
// ends when the window closes.
func WithOnReady(fn func(ctx context.Context, c *canvas.Canvas)) Option {
	return func(w *Window) { w.onReady = fn }
}

func New(opts ...Option) *Window {
	w := &Window{title: "drawpad", width: 800, height: 600}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// frame is the per-window state owned by the event loop.
type frame struct {
	win      screen.Window
	sched    *sender
	hub      *canvas.Hub
	canvas   *canvas.Canvas
	prompt   *prompt
	buttons  []barButton
	hover    int
	width    int
	height   int
	mouse    image.Point
	inside   bool
	queued   bool
	cursor   canvas.Cursor
	cursorIm image.Image
	notifier *notify.Notifier
}

func (w *Window) Main(s screen.Screen) {
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: w.width, Height: w.height, Title: w.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer win.Release()
	if w.onClose != nil {
		defer w.onClose()
	}

	f := &frame{
		win:      win,
		sched:    newSender(win.Send),
		hub:      canvas.NewHub(),
		prompt:   &prompt{},
		hover:    -1,
		width:    w.width,
		height:   w.height,
		notifier: w.notifier,
	}
	defer f.sched.close()

	opts := append([]canvas.Option{
		canvas.WithTextPrompter(f.prompt),
		canvas.WithOnChange(f.repaint),
	}, w.canvasOpts...)
	f.canvas = canvas.New(schedule.Scheduler(f.sched), opts...)
	f.prompt.canvas = f.canvas
	f.canvas.Attach(f.hub)
	f.buttons = toolbar(f.canvas.Options().Buttons, f.height)

	// The canvas flushes its last batch on Close, before ctx ends.
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		f.canvas.Close()
		cancel()
	}()
	if w.onReady != nil {
		w.onReady(ctx, f.canvas)
	}

	for {
		switch e := win.NextEvent().(type) {
		case postEvent:
			e.fn()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				f.blur()
			}
		case size.Event:
			f.width, f.height = e.WidthPx, e.HeightPx
			f.buttons = toolbar(f.canvas.Options().Buttons, f.height)
			f.hub.Emit(canvas.ResizeEvent{Parent: coords.Size{W: f.width, H: f.drawHeight()}})
			f.repaint()
		case paint.Event:
			f.queued = false
			f.draw(s)
		case mouse.Event:
			f.handleMouse(e)
		case key.Event:
			f.handleKey(e)
		}
	}
}

func (f *frame) drawHeight() int { return max(f.height-barHeight, 0) }

// repaint asks for one paint event no matter how many changes precede it.
func (f *frame) repaint() {
	if f.queued {
		return
	}
	f.queued = true
	f.win.Send(paint.Event{})
}

func (f *frame) handleMouse(e mouse.Event) {
	p := image.Pt(int(e.X), int(e.Y))
	f.mouse = p
	inCanvas := p.Y < f.drawHeight()
	if !inCanvas {
		hover := hitButton(f.buttons, p)
		if f.inside && f.canvas.Dragging() {
			f.hub.Emit(canvas.PointerEvent{Kind: canvas.PointerOut, X: float64(p.X), Y: float64(p.Y)})
		}
		if e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft && hover >= 0 {
			f.buttons[hover].run(f.canvas)
		}
		if hover != f.hover || f.inside {
			f.hover = hover
			f.inside = false
			f.repaint()
		}
		return
	}
	f.inside = true
	f.hover = -1
	if pe, ok := pointerEvent(e, image.Point{}); ok {
		f.hub.Emit(pe)
	}
	if f.canvas.Cursor().Kind != canvas.CursorDefault {
		f.repaint()
	}
}

// blur ends a drag and commits pending text when the window loses focus.
func (f *frame) blur() {
	if f.canvas.Dragging() {
		f.hub.Emit(canvas.PointerEvent{Kind: canvas.PointerOut, X: float64(f.mouse.X), Y: float64(f.mouse.Y)})
	}
	if f.prompt.active {
		s := f.prompt.text()
		f.prompt.close()
		f.canvas.CommitText(s)
	}
	f.inside = false
	f.repaint()
}

func (f *frame) handleKey(e key.Event) {
	if f.prompt.key(e) {
		f.repaint()
		return
	}
	if ke, ok := shortcutEvent(e); ok {
		if ke.Ctrl && ke.Rune == 'c' {
			f.copy()
			return
		}
		f.hub.Emit(ke)
		f.repaint()
		return
	}
	c := f.canvas
	switch keyAction(e) {
	case actionPencil:
		c.SelectPencil()
	case actionBrush:
		c.SelectBrush()
	case actionEraser:
		c.SelectEraser()
	case actionText:
		c.SelectText()
	case actionThinner:
		c.SetLineWidth(c.Engine().LineWidth() - 1)
	case actionThicker:
		c.SetLineWidth(c.Engine().LineWidth() + 1)
	case actionNextColor:
		c.ChangeColor(nextColor(c.Options().StrokeColor))
	default:
		return
	}
	f.repaint()
}

func (f *frame) copy() {
	img := f.canvas.Engine().Surface().Image()
	if err := clipboard.WriteImage(img); err != nil {
		logging.For("window").Warn("copy failed", "err", err)
		return
	}
	if f.notifier != nil {
		f.notifier.Copy("", img)
	}
}

func (f *frame) draw(s screen.Screen) {
	if f.width <= 0 || f.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{f.width, f.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{0x80, 0x80, 0x80, 0xff}}, image.Point{}, draw.Src)
	img := f.canvas.Engine().Surface().Image()
	if img != nil {
		area := image.Rect(0, 0, f.width, f.drawHeight())
		draw.Draw(dst, area.Intersect(img.Bounds()), img, image.Point{}, draw.Src)
	}
	f.drawPrompt(dst)
	f.drawCursor(dst)
	drawToolbar(dst, f.buttons, f.hover, f.canvas)

	f.win.Upload(image.Point{}, b, b.Bounds())
	f.win.Publish()
}

func (f *frame) drawPrompt(dst *image.RGBA) {
	if !f.prompt.active {
		return
	}
	col := surface.MustColor(f.prompt.style.Color, color.RGBA{A: 255})
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	d.Dot = fixed.P(int(f.prompt.at.X), int(f.prompt.at.Y))
	d.DrawString(f.prompt.text() + "|")
}

func (f *frame) drawCursor(dst *image.RGBA) {
	if !f.inside {
		return
	}
	cur := f.canvas.Cursor()
	if cur != f.cursor || f.cursorIm == nil {
		img, err := f.canvas.CursorImage()
		if err != nil {
			logging.For("window").Debug("cursor image", "err", err)
		}
		f.cursor, f.cursorIm = cur, img
	}
	if f.cursorIm == nil {
		return
	}
	at := f.mouse.Sub(cur.Hotspot)
	r := f.cursorIm.Bounds().Sub(f.cursorIm.Bounds().Min).Add(at)
	draw.Draw(dst, r, f.cursorIm, f.cursorIm.Bounds().Min, draw.Over)
}
