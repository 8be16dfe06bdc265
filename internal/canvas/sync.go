package canvas

import (
	"context"

	"github.com/example/drawpad/internal/bus"
	"github.com/example/drawpad/internal/logging"
)

// Sync shares c over broker until ctx ends. Local batches, clears, undos
// and redos are published with origin. Messages from other origins are
// applied through the non-reporting operations on the canvas scheduler.
// Call it on the scheduler goroutine.
//
// Publishing stops once the end of ctx reaches the scheduler, so a Close
// that follows cancel on the same goroutine still shares its final batch.
func Sync(ctx context.Context, c *Canvas, broker *bus.Broker, origin string) {
	sub := broker.Subscribe(ctx)
	detached := false
	context.AfterFunc(ctx, func() {
		c.sched.Post(func() { detached = true })
	})
	c.outbound = append(c.outbound, func(m bus.Message) {
		if detached {
			return
		}
		m.Origin = origin
		broker.PublishExcept(m, sub)
	})
	go func() {
		for m := range sub {
			if m.Origin == origin {
				continue
			}
			c.sched.Post(func() { c.Apply(m) })
		}
	}()
}

// Apply performs a message that came from another canvas.
func (c *Canvas) Apply(m bus.Message) {
	if c.closed {
		return
	}
	switch m.Kind {
	case bus.KindDraw:
		c.DrawUpdates(m.Updates)
	case bus.KindClear:
		c.ClearCanvas()
	case bus.KindUndo:
		c.Undo()
	case bus.KindRedo:
		c.Redo()
	default:
		logging.For("canvas").Warn("ignoring message", "kind", m.Kind, "origin", m.Origin)
	}
}

func (c *Canvas) publish(m bus.Message) {
	for _, fn := range c.outbound {
		fn(m)
	}
}
