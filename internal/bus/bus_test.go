package bus

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drawpad/internal/update"
)

func drawMessage(origin string) Message {
	return Message{
		Kind:   KindDraw,
		Origin: origin,
		Updates: []update.Update{
			*update.New(0.1, 0.2, update.Start, "#000", "s1"),
			*update.New(0.3, 0.4, update.Stop, "#000", "s1"),
		},
	}
}

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "channel closed")
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
	return Message{}
}

func TestMessageRoundTrip(t *testing.T) {
	data, err := Encode(drawMessage("a"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"draw"`)

	m, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "a", m.Origin)
	require.Len(t, m.Updates, 2)
	assert.Equal(t, update.Stop, m.Updates[1].Type())
	assert.InDelta(t, 0.4, m.Updates[1].Y(), 1e-9)

	_, err = Decode([]byte(`{"kind":"erase"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestBrokerDelivers(t *testing.T) {
	b := NewBroker(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	one := b.Subscribe(ctx)
	two := b.Subscribe(ctx)

	b.Publish(Message{Kind: KindClear, Origin: "x"})
	assert.Equal(t, KindClear, receive(t, one).Kind)
	assert.Equal(t, KindClear, receive(t, two).Kind)

	b.PublishExcept(Message{Kind: KindUndo, UUID: "u"}, one)
	assert.Equal(t, "u", receive(t, two).UUID)
	select {
	case m := <-one:
		t.Fatalf("excluded subscriber got %v", m)
	default:
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker(1)
	sub := b.Subscribe(context.Background())
	b.Publish(Message{Kind: KindUndo, UUID: "first"})
	b.Publish(Message{Kind: KindUndo, UUID: "second"})
	assert.Equal(t, "first", receive(t, sub).UUID)
	select {
	case m := <-sub:
		t.Fatalf("unexpected %v", m)
	default:
	}
}

func TestBrokerUnsubscribeAndClose(t *testing.T) {
	b := NewBroker(0)
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	keep := b.Subscribe(context.Background())
	require.Equal(t, 2, b.Subscribers())

	cancel()
	require.Eventually(t, func() bool { return b.Subscribers() == 1 }, 2*time.Second, 5*time.Millisecond)
	_, ok := <-sub
	assert.False(t, ok)

	b.Close()
	_, ok = <-keep
	assert.False(t, ok)
	b.Publish(Message{Kind: KindClear})
	_, ok = <-b.Subscribe(context.Background())
	assert.False(t, ok, "subscribing to a closed broker yields a closed channel")
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + HubPath
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubRelaysToOtherPeers(t *testing.T) {
	joined := make(chan string, 4)
	hub := NewHub(WithPeerHook(func(addr string, ok bool) {
		if ok {
			joined <- addr
		}
	}))
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	a := dial(t, wsURL(srv))
	b := dial(t, wsURL(srv))
	<-joined
	<-joined
	require.Equal(t, 2, hub.Peers())

	require.NoError(t, a.WriteJSON(drawMessage("a")))
	require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Message
	require.NoError(t, b.ReadJSON(&got))
	assert.Equal(t, "a", got.Origin)
	assert.Len(t, got.Updates, 2)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"kind":"nope"}`)))
	require.NoError(t, a.WriteJSON(Message{Kind: KindRedo, Origin: "a", UUID: "s1"}))
	require.NoError(t, b.ReadJSON(&got))
	assert.Equal(t, KindRedo, got.Kind, "invalid messages are not relayed")
}

func TestHubAttachedBroker(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := NewBroker(0)
	hub.Attach(ctx, broker)
	local := broker.Subscribe(ctx)

	peer := dial(t, wsURL(srv))
	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, peer.WriteJSON(Message{Kind: KindClear, Origin: "remote"}))
	assert.Equal(t, "remote", receive(t, local).Origin)

	broker.Publish(Message{Kind: KindUndo, Origin: "local", UUID: "s9"})
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Message
	require.NoError(t, peer.ReadJSON(&got))
	assert.Equal(t, "s9", got.UUID)
}

func TestBridgeRelaysBothWays(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	broker := NewBroker(0)
	local := broker.Subscribe(ctx)
	bridge := &Bridge{URL: wsURL(srv), Broker: broker}
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	remote := dial(t, wsURL(srv))
	require.Eventually(t, func() bool { return hub.Peers() == 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, remote.WriteJSON(drawMessage("remote")))
	assert.Equal(t, "remote", receive(t, local).Origin)

	broker.Publish(Message{Kind: KindClear, Origin: "local"})
	require.NoError(t, remote.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Message
	require.NoError(t, remote.ReadJSON(&got))
	assert.Equal(t, "local", got.Origin)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestBridgeDialError(t *testing.T) {
	b := &Bridge{URL: "ws://127.0.0.1:1/ws", Broker: NewBroker(0)}
	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}

func TestPeerFromEntry(t *testing.T) {
	p, ok := peerFromEntry(&mdns.ServiceEntry{
		Name:       "studio._drawpad._tcp.local.",
		Host:       "studio.local.",
		AddrV4:     net.IPv4(192, 168, 1, 7),
		Port:       8765,
		InfoFields: []string{"drawpad"},
	})
	require.True(t, ok)
	assert.Equal(t, "ws://192.168.1.7:8765/ws", p.URL())
	assert.Contains(t, p.String(), "studio._drawpad._tcp.local ws://")

	_, ok = peerFromEntry(&mdns.ServiceEntry{Port: 1})
	assert.False(t, ok)
	_, ok = peerFromEntry(nil)
	assert.False(t, ok)
}
