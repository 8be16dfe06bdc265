// Package batch coalesces outbound updates into time-windowed batches.
package batch

import (
	"time"

	"github.com/example/drawpad/internal/schedule"
	"github.com/example/drawpad/internal/update"
)

// DefaultDelay is the flush window used when none is configured.
const DefaultDelay = 100 * time.Millisecond

// Dispatcher collects updates and emits them together once the delay has
// elapsed since the first update of the batch. At most one flush is
// scheduled at a time. All methods run on the scheduler's goroutine.
type Dispatcher struct {
	delay   time.Duration
	sched   schedule.Scheduler
	emit    func([]update.Update)
	pending []*update.Update
	timer   schedule.Timer
	gen     uint64
}

// New returns a Dispatcher. A delay of zero or less uses DefaultDelay.
func New(delay time.Duration, sched schedule.Scheduler, emit func([]update.Update)) *Dispatcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Dispatcher{delay: delay, sched: sched, emit: emit}
}

// Enqueue adds u to the pending batch.
func (d *Dispatcher) Enqueue(u *update.Update) {
	d.pending = append(d.pending, u)
	if d.timer == nil {
		gen := d.gen
		d.timer = d.sched.AfterFunc(d.delay, func() {
			// A timer that fired before Stop may still run after a manual
			// flush; it must not cut the next batch short.
			if d.gen == gen {
				d.Flush()
			}
		})
	}
}

// Flush emits the pending batch now. Empty batches are not emitted.
func (d *Dispatcher) Flush() {
	d.cancelTimer()
	if len(d.pending) == 0 {
		return
	}
	out := make([]update.Update, len(d.pending))
	for i, u := range d.pending {
		out[i] = *u
	}
	d.pending = nil
	if d.emit != nil {
		d.emit(out)
	}
}

// Stop cancels a scheduled flush and drops the pending batch.
func (d *Dispatcher) Stop() {
	d.cancelTimer()
	d.pending = nil
}

func (d *Dispatcher) cancelTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Dispatcher) Pending() int         { return len(d.pending) }
func (d *Dispatcher) Scheduled() bool      { return d.timer != nil }
func (d *Dispatcher) Delay() time.Duration { return d.delay }

// SetDelay applies to the next scheduled flush.
func (d *Dispatcher) SetDelay(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d.delay = delay
}
