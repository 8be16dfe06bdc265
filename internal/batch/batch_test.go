package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drawpad/internal/schedule"
	"github.com/example/drawpad/internal/update"
)

func TestCoalescesWithinWindow(t *testing.T) {
	m := schedule.NewManual()
	var batches [][]update.Update
	d := New(0, m, func(b []update.Update) { batches = append(batches, b) })
	assert.Equal(t, DefaultDelay, d.Delay())

	for i := 0; i < 5; i++ {
		d.Enqueue(update.New(float64(i), 0, update.Drag, "", "s"))
		m.Advance(10 * time.Millisecond)
	}
	assert.Empty(t, batches)
	assert.Equal(t, 1, m.PendingTimers())

	m.Advance(50 * time.Millisecond)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 5)
	for i, u := range batches[0] {
		assert.Equal(t, float64(i), u.X())
	}
	assert.False(t, d.Scheduled())
	assert.Equal(t, 0, d.Pending())
}

func TestEnqueueAfterFlushStartsNewBatch(t *testing.T) {
	m := schedule.NewManual()
	var sizes []int
	d := New(100*time.Millisecond, m, func(b []update.Update) { sizes = append(sizes, len(b)) })

	d.Enqueue(update.New(0, 0, update.Start, "", "a"))
	m.Advance(100 * time.Millisecond)
	d.Enqueue(update.New(0, 0, update.Drag, "", "a"))
	d.Enqueue(update.New(0, 0, update.Stop, "", "a"))
	m.Advance(99 * time.Millisecond)
	assert.Equal(t, []int{1}, sizes)
	m.Advance(time.Millisecond)
	assert.Equal(t, []int{1, 2}, sizes)
}

func TestFlushCopiesUpdates(t *testing.T) {
	m := schedule.NewManual()
	var got []update.Update
	d := New(time.Millisecond, m, func(b []update.Update) { got = b })
	u := update.New(0.5, 0.5, update.Stop, "", "a")
	d.Enqueue(u)
	d.Flush()
	u.SetVisible(false)
	require.Len(t, got, 1)
	assert.True(t, got[0].Visible())
	assert.Equal(t, 0, m.PendingTimers())
}

func TestStopDropsPending(t *testing.T) {
	m := schedule.NewManual()
	called := false
	d := New(time.Millisecond, m, func([]update.Update) { called = true })
	for i := 0; i < 3; i++ {
		d.Enqueue(update.New(0, 0, update.Drag, "", fmt.Sprint(i)))
	}
	d.Stop()
	m.Advance(time.Second)
	assert.False(t, called)
	assert.Equal(t, 0, d.Pending())
}

func TestExpiredTimerDoesNotSplitNextBatch(t *testing.T) {
	l := schedule.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var sizes []int
	d := New(50*time.Millisecond, l, func(b []update.Update) { sizes = append(sizes, len(b)) })

	// The loop stays busy past the delay so the timer's flush is already
	// queued when the manual flush runs.
	require.NoError(t, l.Do(ctx, func() {
		d.Enqueue(update.New(0, 0, update.Stop, "", "a"))
		time.Sleep(80 * time.Millisecond)
		d.Flush()
		d.Enqueue(update.New(0, 0, update.Start, "", "b"))
	}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, l.Do(ctx, func() {
		d.Enqueue(update.New(1, 1, update.Drag, "", "b"))
	}))

	got := func() []int {
		var out []int
		require.NoError(t, l.Do(ctx, func() { out = append(out, sizes...) }))
		return out
	}
	require.Eventually(t, func() bool { return len(got()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 2}, got())
}
