package window

import (
	"golang.org/x/mobile/event/key"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/coords"
)

// prompt is the in-window text input used for annotations.
type prompt struct {
	canvas *canvas.Canvas
	active bool
	at     coords.Point
	style  canvas.TextStyle
	input  []rune
}

var _ canvas.TextPrompter = (*prompt)(nil)

func (p *prompt) BeginText(at coords.Point, style canvas.TextStyle) {
	p.active = true
	p.at = at
	p.style = style
	p.input = p.input[:0]
}

func (p *prompt) text() string { return string(p.input) }

// key feeds a key press to the open prompt. It reports whether the prompt
// consumed the event.
func (p *prompt) key(e key.Event) bool {
	if !p.active {
		return false
	}
	if e.Direction != key.DirPress {
		return true
	}
	switch e.Code {
	case key.CodeReturnEnter:
		s := p.text()
		p.close()
		p.canvas.CommitText(s)
		return true
	case key.CodeEscape:
		p.close()
		p.canvas.CancelText()
		return true
	case key.CodeDeleteBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
		return true
	}
	if e.Rune > 0 && e.Modifiers&(key.ModControl|key.ModMeta) == 0 {
		p.input = append(p.input, e.Rune)
	}
	return true
}

func (p *prompt) close() {
	p.active = false
	p.input = p.input[:0]
}
