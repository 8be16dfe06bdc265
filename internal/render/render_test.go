package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

type segment struct {
	from, to coords.Point
	color    color.Color
	width    float64
}

// recorder is a Surface that remembers what was asked of it.
type recorder struct {
	size     coords.Size
	fills    int
	covers   int
	segments []segment
	texts    []string
}

func (r *recorder) Size() coords.Size { return r.size }
func (r *recorder) Resize(s coords.Size) error {
	r.size = s
	return nil
}
func (r *recorder) Fill(color.Color) {
	r.fills++
	r.segments = nil
	r.texts = nil
}
func (r *recorder) DrawCover(image.Image, float64, float64) { r.covers++ }
func (r *recorder) Stroke(from, to coords.Point, c color.Color, w float64) {
	r.segments = append(r.segments, segment{from, to, c, w})
}
func (r *recorder) Text(s string, _ coords.Point, _ color.Color, _ surface.Font) error {
	r.texts = append(r.texts, s)
	return nil
}
func (r *recorder) Image() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, r.size.W, r.size.H)) }

func fractionalStroke(id string, pts ...coords.Point) []*update.Update {
	out := []*update.Update{update.New(pts[0].X, pts[0].Y, update.Start, "", id)}
	for _, p := range pts[1:] {
		out = append(out, update.New(p.X, p.Y, update.Drag, "", id))
	}
	last := pts[len(pts)-1]
	return append(out, update.New(last.X, last.Y, update.Stop, "", id))
}

func TestDrawConnectsSegments(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 100, H: 100}}
	e := New(rec, WithLineWidth(3))
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0.1, Y: 0.1}, coords.Point{X: 0.5, Y: 0.5}, coords.Point{X: 0.9, Y: 0.1}))

	require.Len(t, rec.segments, 2)
	assert.Equal(t, coords.Point{X: 10, Y: 10}, rec.segments[0].from)
	assert.Equal(t, coords.Point{X: 50, Y: 50}, rec.segments[0].to)
	assert.Equal(t, coords.Point{X: 90, Y: 10}, rec.segments[1].to)
	assert.Equal(t, 3.0, rec.segments[0].width)
	assert.Equal(t, 1, e.History().UndoDepth())
}

func TestResizeReplaysAtNewSize(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 100, H: 100}}
	e := New(rec)
	// A local stroke drawn in pixels, then normalized.
	ups := []*update.Update{
		update.New(40, 40, update.Start, "", "a"),
		update.New(50, 50, update.Drag, "", "a"),
		update.New(50, 50, update.Stop, "", "a"),
	}
	for _, u := range ups {
		e.Draw(u, false)
		f, err := coords.Normalize(coords.Point{X: u.X(), Y: u.Y()}, rec.size)
		require.NoError(t, err)
		u.SetPosition(f.X, f.Y)
	}
	require.Len(t, rec.segments, 1)
	assert.Equal(t, coords.Point{X: 50, Y: 50}, rec.segments[0].to)

	require.NoError(t, e.Resize(coords.Size{W: 200, H: 50}))
	require.Len(t, rec.segments, 1)
	assert.Equal(t, coords.Point{X: 80, Y: 20}, rec.segments[0].from)
	assert.Equal(t, coords.Point{X: 100, Y: 25}, rec.segments[0].to)
	assert.Equal(t, 3, e.History().Len())
	assert.Equal(t, 1, e.History().UndoDepth())
}

func TestUndoPaintsTransparent(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec, WithStrokeColor("#000"))
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0, Y: 0}, coords.Point{X: 1, Y: 1}))

	id, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", id)
	require.Len(t, rec.segments, 1)
	assert.Equal(t, surface.Transparent, rec.segments[0].color)
	assert.Equal(t, 0, e.History().UndoDepth())
	assert.Equal(t, 1, e.History().RedoDepth())

	_, ok = e.Redo()
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rec.segments[0].color)
	assert.Equal(t, 1, e.History().UndoDepth())
}

func TestUndoRedoRoundTripPixels(t *testing.T) {
	r := surface.NewRaster(coords.Size{W: 50, H: 50})
	e := New(r, WithStrokeColor("#000"), WithLineWidth(4))
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0.1, Y: 0.1}, coords.Point{X: 0.9, Y: 0.9}))
	e.DrawUpdates(fractionalStroke("b", coords.Point{X: 0.9, Y: 0.1}, coords.Point{X: 0.1, Y: 0.9}))
	want := append([]byte(nil), r.Image().Pix...)

	_, ok := e.Undo()
	require.True(t, ok)
	assert.NotEqual(t, want, r.Image().Pix)
	_, ok = e.Redo()
	require.True(t, ok)
	assert.Equal(t, want, r.Image().Pix)
}

func TestClearThenUndoIsNoop(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec)
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0, Y: 0}, coords.Point{X: 1, Y: 1}))
	e.DrawUpdates(fractionalStroke("b", coords.Point{X: 0, Y: 0}, coords.Point{X: 1, Y: 1}))
	_, _ = e.Undo()

	e.Clear()
	assert.Equal(t, 0, e.History().Len())
	assert.Equal(t, 0, e.History().UndoDepth())
	assert.Equal(t, 0, e.History().RedoDepth())
	fills := rec.fills
	_, ok := e.Undo()
	assert.False(t, ok)
	assert.Equal(t, fills, rec.fills)
}

func TestDeferredWhileImageLoads(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec)
	token := e.BeginImageLoad()
	assert.False(t, e.CanDraw())

	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0, Y: 0}, coords.Point{X: 0.5, Y: 0.5}))
	e.DrawUpdates(fractionalStroke("b", coords.Point{X: 0.5, Y: 0.5}, coords.Point{X: 1, Y: 1}))
	assert.Equal(t, 6, e.Deferred())
	assert.Empty(t, rec.segments)

	require.True(t, e.FinishImageLoad(token, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil))
	assert.Equal(t, ImageLoaded, e.ImageState())
	assert.Equal(t, 0, e.Deferred())
	require.Len(t, rec.segments, 2)
	assert.Equal(t, coords.Point{X: 5, Y: 5}, rec.segments[0].to)
	assert.Equal(t, coords.Point{X: 10, Y: 10}, rec.segments[1].to)
	assert.Equal(t, 2, e.History().UndoDepth())
}

func TestDeferredWhileSurfaceEmpty(t *testing.T) {
	rec := &recorder{}
	e := New(rec)
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0, Y: 0}, coords.Point{X: 0.5, Y: 0.5}))
	assert.Equal(t, 3, e.Deferred())

	require.NoError(t, e.Resize(coords.Size{W: 20, H: 20}))
	assert.Equal(t, 0, e.Deferred())
	require.Len(t, rec.segments, 1)
	assert.Equal(t, coords.Point{X: 10, Y: 10}, rec.segments[0].to)
}

func TestNewerImageLoadSupersedes(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec)
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	tokenA := e.BeginImageLoad()
	tokenB := e.BeginImageLoad()

	assert.True(t, e.FinishImageLoad(tokenB, b, nil))
	assert.False(t, e.FinishImageLoad(tokenA, a, nil))
	assert.Same(t, b, e.BackgroundImage())

	// Settling in the other order gives the same result.
	tokenA = e.BeginImageLoad()
	tokenB = e.BeginImageLoad()
	assert.False(t, e.FinishImageLoad(tokenA, a, nil))
	assert.Equal(t, ImageLoading, e.ImageState())
	assert.True(t, e.FinishImageLoad(tokenB, b, nil))
	assert.Same(t, b, e.BackgroundImage())
}

func TestImageFailureKeepsDrawing(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec)
	token := e.BeginImageLoad()
	e.DrawUpdates(fractionalStroke("a", coords.Point{X: 0, Y: 0}, coords.Point{X: 1, Y: 1}))

	boom := errors.New("404")
	require.True(t, e.FinishImageLoad(token, nil, boom))
	assert.Equal(t, ImageFailed, e.ImageState())
	assert.ErrorIs(t, e.ImageError(), boom)
	assert.True(t, e.CanDraw())
	assert.Equal(t, 0, e.Deferred())
	assert.Len(t, rec.segments, 1)
	assert.Equal(t, 0, rec.covers)
}

func TestTextStopIsReplayed(t *testing.T) {
	rec := &recorder{size: coords.Size{W: 10, H: 10}}
	e := New(rec)
	e.DrawUpdates([]*update.Update{update.NewText(0.1, 0.1, "", "t", "hello", "", 12)})
	assert.Equal(t, []string{"hello"}, rec.texts)
	assert.Equal(t, 1, e.History().UndoDepth())

	_, ok := e.Undo()
	require.True(t, ok)
	assert.Empty(t, rec.texts)
	_, ok = e.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"hello"}, rec.texts)
}
