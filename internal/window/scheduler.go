package window

import (
	"sync"
	"time"

	"github.com/example/drawpad/internal/schedule"
)

// postEvent carries a callback through the window event queue so it runs on
// the goroutine that owns the canvas.
type postEvent struct{ fn func() }

// sender is a schedule.Scheduler backed by screen.Window.Send.
type sender struct {
	mu     sync.Mutex
	send   func(any)
	closed bool
}

var _ schedule.Scheduler = (*sender)(nil)

func newSender(send func(any)) *sender {
	return &sender{send: send}
}

func (s *sender) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.send(postEvent{fn: fn})
}

func (s *sender) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	return time.AfterFunc(d, func() { s.Post(fn) })
}

func (s *sender) Background(fn func()) {
	go fn()
}

// close drops every later Post. The window is released after this.
func (s *sender) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
