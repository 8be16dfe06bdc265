package bus

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/drawpad/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
	peerQueue      = 256
)

// Hub is an http.Handler that relays messages between websocket peers.
// Every message received from one peer is sent to all the others and, when
// attached, to a local Broker.
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	peers  map[*peer]struct{}
	broker *Broker
	local  <-chan Message
	closed bool

	onPeer func(addr string, joined bool)
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
	addr string
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() { close(p.send) })
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithPeerHook is called whenever a peer joins or leaves.
func WithPeerHook(fn func(addr string, joined bool)) HubOption {
	return func(h *Hub) { h.onPeer = fn }
}

// WithCheckOrigin replaces the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) HubOption {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		peers: make(map[*peer]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach joins broker to the hub until ctx ends: broker messages go to every
// peer and peer messages are published on broker.
func (h *Hub) Attach(ctx context.Context, broker *Broker) {
	sub := broker.Subscribe(ctx)
	h.mu.Lock()
	h.broker = broker
	h.local = sub
	h.mu.Unlock()
	go func() {
		for m := range sub {
			data, err := Encode(m)
			if err != nil {
				logging.For("bus").Warn("encode message", "err", err)
				continue
			}
			h.broadcast(data, nil)
		}
		h.mu.Lock()
		if h.local == sub {
			h.broker = nil
			h.local = nil
		}
		h.mu.Unlock()
	}()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.For("bus").Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, peerQueue), addr: r.RemoteAddr}
	if !h.add(p) {
		_ = conn.Close()
		return
	}
	go h.writeLoop(p)
	h.readLoop(p)
}

func (h *Hub) add(p *peer) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	logging.For("bus").Info("peer joined", "remote", p.addr)
	if h.onPeer != nil {
		h.onPeer(p.addr, true)
	}
	return true
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	h.mu.Unlock()
	p.close()
	if ok {
		logging.For("bus").Info("peer left", "remote", p.addr)
		if h.onPeer != nil {
			h.onPeer(p.addr, false)
		}
	}
}

func (h *Hub) readLoop(p *peer) {
	defer h.remove(p)
	p.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.For("bus").Warn("peer read failed", "remote", p.addr, "err", err)
			}
			return
		}
		m, err := Decode(data)
		if err != nil {
			logging.For("bus").Warn("dropping bad message", "remote", p.addr, "err", err)
			continue
		}
		h.broadcast(data, p)
		h.mu.Lock()
		broker, local := h.broker, h.local
		h.mu.Unlock()
		if broker != nil {
			broker.PublishExcept(m, local)
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.For("bus").Warn("peer write failed", "remote", p.addr, "err", err)
			return
		}
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// broadcast queues data for every peer but from.
func (h *Hub) broadcast(data []byte, from *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		if p == from {
			continue
		}
		select {
		case p.send <- data:
		default:
			logging.For("bus").Warn("peer queue full, dropping message", "remote", p.addr)
		}
	}
}

// Peers reports the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Close disconnects every peer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
		delete(h.peers, p)
	}
	h.mu.Unlock()
	for _, p := range peers {
		p.close()
	}
}
