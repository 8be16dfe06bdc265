package bus

import (
	"context"
	"sync"

	"github.com/example/drawpad/internal/logging"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 64

// Broker fans messages out to in-process subscribers. Publish never blocks;
// a subscriber whose queue is full misses the message.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan Message]struct{}
	buffer int
	closed bool
	done   chan struct{}
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[chan Message]struct{}),
		buffer: buffer,
		done:   make(chan struct{}),
	}
}

// Subscribe returns a channel of every later message. It is closed when ctx
// ends or the broker is closed.
func (b *Broker) Subscribe(ctx context.Context) <-chan Message {
	ch := make(chan Message, b.buffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	go func() {
		select {
		case <-ctx.Done():
			b.remove(ch)
		case <-b.done:
		}
	}()
	return ch
}

func (b *Broker) remove(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers m to every subscriber.
func (b *Broker) Publish(m Message) {
	b.PublishExcept(m, nil)
}

// PublishExcept delivers m to every subscriber but except, which is normally
// the publisher's own subscription.
func (b *Broker) PublishExcept(m Message, except <-chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		if (<-chan Message)(ch) == except {
			continue
		}
		select {
		case ch <- m:
		default:
			logging.For("bus").Warn("subscriber queue full, dropping message", "kind", m.Kind, "origin", m.Origin)
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription. Later messages are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	close(b.done)
}
