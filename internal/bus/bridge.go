package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/drawpad/internal/logging"
)

// Bridge connects a local Broker to a remote Hub.
type Bridge struct {
	URL    string
	Broker *Broker
	Dialer *websocket.Dialer
}

// Run dials the hub and relays messages both ways until ctx ends or the
// connection fails.
func (b *Bridge) Run(ctx context.Context) error {
	dialer := b.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, b.URL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %s: %w", b.URL, resp.Status, err)
		}
		return fmt.Errorf("dial %s: %w", b.URL, err)
	}
	defer conn.Close()
	logging.For("bus").Info("connected to hub", "url", b.URL)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sub := b.Broker.Subscribe(ctx)

	readErr := make(chan error, 1)
	go func() {
		conn.SetReadLimit(maxMessageSize)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			m, err := Decode(data)
			if err != nil {
				logging.For("bus").Warn("dropping bad message", "url", b.URL, "err", err)
				continue
			}
			b.Broker.PublishExcept(m, sub)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return ctx.Err()
		case err := <-readErr:
			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("read from hub: %w", err)
		case m, ok := <-sub:
			if !ok {
				return ctx.Err()
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				return fmt.Errorf("write to hub: %w", err)
			}
		}
	}
}
