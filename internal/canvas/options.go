package canvas

import (
	"time"

	"github.com/example/drawpad/internal/batch"
	"github.com/example/drawpad/internal/imagesrc"
	"github.com/example/drawpad/internal/render"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

// Button describes one toolbar control.
type Button struct {
	Enabled bool
	Label   string
	Class   string
}

// Buttons are the toolbar controls the host may render. Enabled also gates
// the matching keyboard shortcut.
type Buttons struct {
	Draw  Button
	Clear Button
	Undo  Button
	Redo  Button
	Save  Button
}

// Options is the host configuration of a canvas.
type Options struct {
	BatchTimeout       time.Duration
	ImageURL           string
	AspectRatio        float64
	LineWidth          float64
	StrokeColor        string
	StartingColor      string
	EraserColor        string
	Buttons            Buttons
	ColorPickerEnabled bool
	Cursor             string
	ShouldDownload     bool
	ViewOnly           bool
	SaveDir            string
	Font               surface.Font
}

// DefaultOptions mirrors the stock widget configuration.
func DefaultOptions() Options {
	return Options{
		BatchTimeout:  batch.DefaultDelay,
		LineWidth:     render.DefaultLineWidth,
		StrokeColor:   render.DefaultStrokeColor,
		StartingColor: render.DefaultBackground,
		EraserColor:   "#ffffff",
		Buttons: Buttons{
			Draw:  Button{Enabled: true, Label: "Draw"},
			Clear: Button{Enabled: true, Label: "Clear"},
			Undo:  Button{Label: "Undo"},
			Redo:  Button{Label: "Redo"},
			Save:  Button{Label: "Save"},
		},
		Cursor:         "pencil",
		ShouldDownload: true,
		Font:           surface.Font{Family: "sans-serif", Size: surface.DefaultFontSize},
	}
}

// Option modifies a Canvas during creation.
type Option func(*Canvas)

// WithOptions replaces the whole configuration.
func WithOptions(o Options) Option { return func(c *Canvas) { c.opts = o } }

// WithSurface draws onto s instead of a fresh raster.
func WithSurface(s surface.Surface) Option { return func(c *Canvas) { c.surface = s } }

// WithLoader sets where background images come from.
func WithLoader(l imagesrc.Source) Option { return func(c *Canvas) { c.loader = l } }

// WithTextPrompter sets the capability used to collect annotation text.
func WithTextPrompter(p TextPrompter) Option { return func(c *Canvas) { c.prompter = p } }

// WithOnClear registers a callback for local clears.
func WithOnClear(fn func()) Option { return func(c *Canvas) { c.onClear = fn } }

// WithOnUndo registers a callback for local undos.
func WithOnUndo(fn func(uuid string)) Option { return func(c *Canvas) { c.onUndo = fn } }

// WithOnRedo registers a callback for local redos.
func WithOnRedo(fn func(uuid string)) Option { return func(c *Canvas) { c.onRedo = fn } }

// WithOnBatchUpdate registers the receiver of coalesced local updates.
func WithOnBatchUpdate(fn func([]update.Update)) Option {
	return func(c *Canvas) { c.onBatch = fn }
}

// WithOnImageLoaded registers a callback for finished background loads.
func WithOnImageLoaded(fn func(ok bool, err error)) Option {
	return func(c *Canvas) { c.onImageLoaded = fn }
}

// WithOnSave registers the receiver of saved drawings.
func WithOnSave(fn func(SaveResult)) Option { return func(c *Canvas) { c.onSave = fn } }

// WithOnChange registers a callback run after anything is painted so hosts
// can repaint.
func WithOnChange(fn func()) Option { return func(c *Canvas) { c.onChange = fn } }

// WithDownloader replaces how saved drawings are written out.
func WithDownloader(fn func(name string, data []byte) (string, error)) Option {
	return func(c *Canvas) { c.download = fn }
}

// WithClock replaces time.Now for download file names.
func WithClock(now func() time.Time) Option { return func(c *Canvas) { c.now = now } }
