// Package update defines the positional events that make up a stroke.
package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Type identifies where an update sits within a stroke.
type Type int

const (
	// Start begins a stroke.
	Start Type = iota
	// Drag extends a stroke from the previous position.
	Drag
	// Stop ends a stroke.
	Stop
)

func (t Type) String() string {
	switch t {
	case Start:
		return "start"
	case Drag:
		return "drag"
	case Stop:
		return "stop"
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Update is one positional event of a stroke. Only the position and the
// visibility flag change after construction.
type Update struct {
	x, y        float64
	typ         Type
	strokeColor string
	uuid        string
	visible     bool

	text       string
	fontFamily string
	fontSize   float64
	lineWidth  float64
}

// New returns a visible update.
func New(x, y float64, typ Type, strokeColor, id string) *Update {
	return &Update{x: x, y: y, typ: typ, strokeColor: strokeColor, uuid: id, visible: true}
}

// NewText returns a visible Stop update that carries a text annotation.
func NewText(x, y float64, strokeColor, id, text, family string, size float64) *Update {
	u := New(x, y, Stop, strokeColor, id)
	u.text = text
	u.fontFamily = family
	u.fontSize = size
	return u
}

func (u *Update) X() float64          { return u.x }
func (u *Update) Y() float64          { return u.y }
func (u *Update) Type() Type          { return u.typ }
func (u *Update) StrokeColor() string { return u.strokeColor }
func (u *Update) UUID() string        { return u.uuid }
func (u *Update) Visible() bool       { return u.visible }
func (u *Update) Text() string        { return u.text }
func (u *Update) FontFamily() string  { return u.fontFamily }
func (u *Update) FontSize() float64   { return u.fontSize }

// LineWidth is the width the stroke was drawn with, or 0 when the update
// should use whatever width the renderer is configured with.
func (u *Update) LineWidth() float64 { return u.lineWidth }

// SetPosition rewrites the coordinates, normally from device pixels to
// surface fractions.
func (u *Update) SetPosition(x, y float64) {
	u.x, u.y = x, y
}

// SetVisible flips the undo/redo visibility flag.
func (u *Update) SetVisible(v bool) {
	u.visible = v
}

// WithLineWidth records the width the stroke is drawn with. It is only used
// while constructing an update.
func (u *Update) WithLineWidth(w float64) *Update {
	u.lineWidth = w
	return u
}

// Same reports whether two updates are the same event of the same stroke.
func (u *Update) Same(o *Update) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.uuid == o.uuid && u.typ == o.typ
}

// Clone returns an independent copy.
func (u *Update) Clone() *Update {
	c := *u
	return &c
}

func (u *Update) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%g,%g)", u.typ, u.uuid, u.x, u.y)
	if !u.visible {
		sb.WriteString(" hidden")
	}
	return sb.String()
}

// NewStrokeID returns an identifier for a stroke starting at x,y: the sum of
// the coordinates followed by a random suffix.
func NewStrokeID(x, y float64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatFloat(x+y, 'f', -1, 64) + suffix[:12]
}
