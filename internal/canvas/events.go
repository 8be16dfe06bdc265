package canvas

import (
	"slices"
	"sync"

	"github.com/example/drawpad/internal/coords"
)

// PointerKind is the kind of a pointer or touch event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerOut
	TouchStart
	TouchMove
	TouchEnd
	TouchCancel
)

// Event is anything an EventSource delivers: PointerEvent, KeyEvent or
// ResizeEvent.
type Event interface {
	isEvent()
}

// PointerEvent is a mouse or touch event in surface pixels.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// KeyEvent is a key press. Ctrl and Meta report the modifier state.
type KeyEvent struct {
	Rune rune
	Ctrl bool
	Meta bool
}

// ResizeEvent reports a new size of the container the canvas lives in.
type ResizeEvent struct {
	Parent coords.Size
}

func (PointerEvent) isEvent() {}
func (KeyEvent) isEvent()     {}
func (ResizeEvent) isEvent()  {}

// EventSource delivers input events. Events must be delivered on the
// goroutine of the canvas scheduler. The returned func cancels the
// subscription.
type EventSource interface {
	Subscribe(fn func(Event)) (cancel func())
}

// Hub is an EventSource that fans Emit calls out to its subscribers.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Event))}
}

func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Emit delivers e to every subscriber in subscription order.
func (h *Hub) Emit(e Event) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
