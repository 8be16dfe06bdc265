package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	stopped := m.AfterFunc(15*time.Millisecond, func() { got = append(got, "x") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	m.Advance(5 * time.Millisecond)
	assert.Empty(t, got)
	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 25*time.Millisecond, m.Now())
	assert.Equal(t, 0, m.PendingTimers())
}

func TestManualRunPendingIncludesNested(t *testing.T) {
	m := NewManual()
	var got []int
	m.Post(func() {
		got = append(got, 1)
		m.Post(func() { got = append(got, 3) })
	})
	m.Background(func() { got = append(got, 2) })
	assert.Equal(t, 3, m.RunPending())
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLoopRunsPostedWork(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		l.Post(func() { order = append(order, i) })
	}
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, []int{0, 1, 2}, order)

	fired := make(chan struct{})
	l.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}
