package window

import (
	"image"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/drawpad/internal/canvas"
)

// pointerEvent maps a shiny mouse event inside the drawing area to a canvas
// pointer event. Wheel steps and non-left buttons are dropped.
func pointerEvent(e mouse.Event, origin image.Point) (canvas.PointerEvent, bool) {
	pe := canvas.PointerEvent{
		X: float64(e.X) - float64(origin.X),
		Y: float64(e.Y) - float64(origin.Y),
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return pe, false
		}
		pe.Kind = canvas.PointerDown
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return pe, false
		}
		pe.Kind = canvas.PointerUp
	case mouse.DirNone:
		pe.Kind = canvas.PointerMove
	default:
		return pe, false
	}
	return pe, true
}

// shortcutEvent maps a modified key press to a canvas key event.
func shortcutEvent(e key.Event) (canvas.KeyEvent, bool) {
	if e.Direction != key.DirPress || e.Rune <= 0 {
		return canvas.KeyEvent{}, false
	}
	ke := canvas.KeyEvent{
		Rune: unicode.ToLower(e.Rune),
		Ctrl: e.Modifiers&key.ModControl != 0,
		Meta: e.Modifiers&key.ModMeta != 0,
	}
	return ke, ke.Ctrl || ke.Meta
}

// action is a window level command bound to an unmodified key.
type action int

const (
	actionNone action = iota
	actionPencil
	actionBrush
	actionEraser
	actionText
	actionThinner
	actionThicker
	actionNextColor
)

var keyActions = map[rune]action{
	'p': actionPencil,
	'b': actionBrush,
	'e': actionEraser,
	't': actionText,
	'[': actionThinner,
	']': actionThicker,
	'c': actionNextColor,
}

func keyAction(e key.Event) action {
	if e.Direction != key.DirPress || e.Modifiers&(key.ModControl|key.ModMeta|key.ModAlt) != 0 {
		return actionNone
	}
	return keyActions[unicode.ToLower(e.Rune)]
}

// palette is cycled by the color key. The first entry is the stock stroke
// color.
var palette = []string{
	"rgb(216, 184, 0)",
	"#000000",
	"#e53935",
	"#1e88e5",
	"#43a047",
	"#8e24aa",
}

func nextColor(current string) string {
	for i, c := range palette {
		if c == current {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
