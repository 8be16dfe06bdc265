package window

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/schedule"
)

func TestSenderPostsThroughWindowQueue(t *testing.T) {
	events := make(chan any, 4)
	s := newSender(func(e any) { events <- e })

	ran := 0
	s.Post(func() { ran++ })
	e := <-events
	pe, ok := e.(postEvent)
	require.True(t, ok)
	pe.fn()
	assert.Equal(t, 1, ran)

	s.AfterFunc(time.Millisecond, func() { ran += 10 })
	select {
	case e = <-events:
		e.(postEvent).fn()
	case <-time.After(time.Second):
		t.Fatal("timer did not post")
	}
	assert.Equal(t, 11, ran)

	s.close()
	s.Post(func() { ran++ })
	assert.Empty(t, events)
}

func TestPointerEvent(t *testing.T) {
	pe, ok := pointerEvent(mouse.Event{X: 15, Y: 25, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, image.Pt(5, 5))
	require.True(t, ok)
	assert.Equal(t, canvas.PointerEvent{Kind: canvas.PointerDown, X: 10, Y: 20}, pe)

	pe, ok = pointerEvent(mouse.Event{X: 1, Y: 2}, image.Point{})
	require.True(t, ok)
	assert.Equal(t, canvas.PointerMove, pe.Kind)

	pe, ok = pointerEvent(mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, image.Point{})
	require.True(t, ok)
	assert.Equal(t, canvas.PointerUp, pe.Kind)

	_, ok = pointerEvent(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}, image.Point{})
	assert.False(t, ok)
	_, ok = pointerEvent(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, image.Point{})
	assert.False(t, ok)
}

func TestKeyMapping(t *testing.T) {
	ke, ok := shortcutEvent(key.Event{Rune: 'Z', Modifiers: key.ModControl | key.ModShift, Direction: key.DirPress})
	require.True(t, ok)
	assert.Equal(t, canvas.KeyEvent{Rune: 'z', Ctrl: true}, ke)

	ke, ok = shortcutEvent(key.Event{Rune: 's', Modifiers: key.ModMeta, Direction: key.DirPress})
	require.True(t, ok)
	assert.True(t, ke.Meta)

	_, ok = shortcutEvent(key.Event{Rune: 'z', Direction: key.DirPress})
	assert.False(t, ok)
	_, ok = shortcutEvent(key.Event{Rune: 'z', Modifiers: key.ModControl, Direction: key.DirRelease})
	assert.False(t, ok)

	assert.Equal(t, actionBrush, keyAction(key.Event{Rune: 'B', Direction: key.DirPress}))
	assert.Equal(t, actionThicker, keyAction(key.Event{Rune: ']', Direction: key.DirPress}))
	assert.Equal(t, actionNone, keyAction(key.Event{Rune: 'b', Modifiers: key.ModControl, Direction: key.DirPress}))
	assert.Equal(t, actionNone, keyAction(key.Event{Rune: 'q', Direction: key.DirPress}))
}

func TestNextColorCycles(t *testing.T) {
	assert.Equal(t, palette[1], nextColor(palette[0]))
	assert.Equal(t, palette[0], nextColor(palette[len(palette)-1]))
	assert.Equal(t, palette[0], nextColor("#abcdef"))
}

func newCanvas(t *testing.T, opts ...canvas.Option) (*canvas.Canvas, *schedule.Manual) {
	t.Helper()
	m := schedule.NewManual()
	c := canvas.New(m, opts...)
	c.Layout(coords.Size{W: 100, H: 80})
	return c, m
}

func TestToolbarLayout(t *testing.T) {
	b := canvas.DefaultOptions().Buttons
	b.Undo.Enabled = true
	b.Clear.Label = ""
	buttons := toolbar(b, 300)
	require.Len(t, buttons, 3)
	assert.Equal(t, []string{"draw", "clear", "undo"}, []string{buttons[0].name, buttons[1].name, buttons[2].name})
	assert.Equal(t, "clear", buttons[1].label)
	for i, btn := range buttons {
		assert.Equal(t, 300-barHeight+3, btn.rect.Min.Y)
		if i > 0 {
			assert.Greater(t, btn.rect.Min.X, buttons[i-1].rect.Max.X)
		}
	}
	center := buttons[2].rect.Min.Add(buttons[2].rect.Size().Div(2))
	assert.Equal(t, 2, hitButton(buttons, center))
	assert.Equal(t, -1, hitButton(buttons, image.Pt(0, 0)))
}

func TestToolbarButtonsDriveCanvas(t *testing.T) {
	opts := canvas.DefaultOptions()
	opts.Buttons.Undo.Enabled = true
	c, m := newCanvas(t, canvas.WithOptions(opts))
	byName := map[string]barButton{}
	for _, b := range toolbar(c.Options().Buttons, 100) {
		byName[b.name] = b
	}

	c.Handle(canvas.PointerEvent{Kind: canvas.PointerDown, X: 10, Y: 10})
	c.Handle(canvas.PointerEvent{Kind: canvas.PointerUp, X: 20, Y: 20})
	m.Advance(time.Second)
	require.True(t, c.Engine().History().CanUndo())

	byName["undo"].run(c)
	assert.False(t, c.Engine().History().CanUndo())

	byName["draw"].run(c)
	assert.False(t, c.ShouldDraw())
	byName["draw"].run(c)
	assert.True(t, c.ShouldDraw())

	byName["clear"].run(c)
	assert.Zero(t, c.Engine().History().Len())
	assert.Contains(t, statusText(c), "pencil")
}

func TestPromptCommitsText(t *testing.T) {
	p := &prompt{}
	c, _ := newCanvas(t, canvas.WithTextPrompter(p))
	p.canvas = c
	c.SelectText()
	c.Handle(canvas.PointerEvent{Kind: canvas.PointerDown, X: 30, Y: 40})
	require.True(t, p.active)
	assert.Equal(t, coords.Point{X: 30, Y: 40}, p.at)

	for _, r := range "hix" {
		assert.True(t, p.key(key.Event{Rune: r, Direction: key.DirPress}))
	}
	p.key(key.Event{Code: key.CodeDeleteBackspace, Direction: key.DirPress})
	assert.Equal(t, "hi", p.text())

	p.key(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})
	assert.False(t, p.active)
	_, pending := c.TextPending()
	assert.False(t, pending)
	assert.Equal(t, canvas.Pencil, c.Mode())
	assert.Equal(t, 1, c.Engine().History().Len())
	assert.False(t, p.key(key.Event{Rune: 'a', Direction: key.DirPress}))
}

func TestPromptEscapeCancels(t *testing.T) {
	p := &prompt{}
	c, _ := newCanvas(t, canvas.WithTextPrompter(p))
	p.canvas = c
	c.SelectText()
	c.Handle(canvas.PointerEvent{Kind: canvas.PointerDown, X: 5, Y: 5})
	p.key(key.Event{Rune: 'a', Direction: key.DirPress})
	p.key(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	assert.False(t, p.active)
	assert.Zero(t, c.Engine().History().Len())
}
