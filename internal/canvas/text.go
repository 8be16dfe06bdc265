package canvas

import (
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

// TextStyle is how a pending annotation should be previewed.
type TextStyle struct {
	Color string
	Font  surface.Font
}

// TextPrompter collects annotation text from the user. BeginText opens an
// input at the given surface position; the host answers later with
// CommitText or CancelText.
type TextPrompter interface {
	BeginText(at coords.Point, style TextStyle)
}

type textSession struct {
	at         coords.Point
	shouldDraw bool
}

// TextPending reports whether an annotation prompt is open and where.
func (c *Canvas) TextPending() (coords.Point, bool) {
	if c.text == nil {
		return coords.Point{}, false
	}
	return c.text.at, true
}

func (c *Canvas) beginText(at coords.Point) {
	if c.text != nil {
		return
	}
	c.text = &textSession{at: at, shouldDraw: c.shouldDraw}
	c.shouldDraw = false
	c.lastUUID = update.NewStrokeID(at.X, at.Y)
	style := TextStyle{Color: c.opts.StrokeColor, Font: c.opts.Font}
	if c.prompter == nil {
		logging.For("canvas").Debug("text prompt opened without a prompter", "x", at.X, "y", at.Y)
		return
	}
	c.prompter.BeginText(at, style)
}

// CommitText draws s at the pending prompt position as a Stop update that
// takes part in undo and replay, then leaves text mode. Empty text only
// closes the prompt. It reports whether a prompt was open.
func (c *Canvas) CommitText(s string) bool {
	session := c.endText()
	if session == nil {
		return false
	}
	if s == "" {
		return true
	}
	f := c.opts.Font
	u := update.NewText(session.at.X, session.at.Y, c.opts.StrokeColor, c.lastUUID, s, f.Family, f.Size)
	c.submit(u)
	return true
}

// CancelText closes the prompt without drawing.
func (c *Canvas) CancelText() bool {
	return c.endText() != nil
}

func (c *Canvas) endText() *textSession {
	session := c.text
	if session == nil {
		return nil
	}
	c.text = nil
	c.shouldDraw = session.shouldDraw
	if c.mode == Text {
		c.mode = c.prevMode
	}
	return session
}
