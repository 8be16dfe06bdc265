package canvas

import "strconv"

// Mode is the active drawing tool.
type Mode int

const (
	Pencil Mode = iota
	Brush
	Eraser
	Text
)

func (m Mode) String() string {
	switch m {
	case Pencil:
		return "pencil"
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	case Text:
		return "text"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode maps a tool name to a Mode. Unknown names yield Pencil and false.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{Pencil, Brush, Eraser, Text} {
		if m.String() == s {
			return m, true
		}
	}
	return Pencil, false
}

const minBrushWidth = 2

func (c *Canvas) Mode() Mode { return c.mode }

// SelectPencil switches to a one pixel pencil. Selecting it again toggles
// drawing.
func (c *Canvas) SelectPencil() {
	if c.mode == Pencil {
		c.shouldDraw = !c.shouldDraw
	} else {
		c.shouldDraw = true
	}
	c.mode = Pencil
	c.setWidth(1)
}

// SelectBrush switches to the brush. Selecting it again toggles drawing.
func (c *Canvas) SelectBrush() {
	if c.mode == Brush {
		c.shouldDraw = !c.shouldDraw
	} else {
		c.shouldDraw = true
	}
	c.mode = Brush
	c.widenForBrush()
}

// SelectEraser switches to the eraser. Selecting it again turns drawing off
// and leaves the brush selected.
func (c *Canvas) SelectEraser() {
	if c.mode == Eraser {
		c.shouldDraw = !c.shouldDraw
		c.mode = Brush
	} else {
		c.shouldDraw = true
		c.mode = Eraser
	}
	c.widenForBrush()
}

// SelectText toggles text annotation. Leaving text mode restores the tool
// that was active before.
func (c *Canvas) SelectText() {
	if c.mode == Text {
		c.mode = c.prevMode
		return
	}
	c.prevMode = c.mode
	c.mode = Text
}

func (c *Canvas) widenForBrush() {
	if c.engine.LineWidth() < minBrushWidth {
		c.setWidth(minBrushWidth)
	}
}

// activeColor is the color new strokes are drawn with.
func (c *Canvas) activeColor() string {
	if c.mode == Eraser {
		return c.opts.EraserColor
	}
	return c.opts.StrokeColor
}
