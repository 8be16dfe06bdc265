package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/example/drawpad/internal/bus"
)

// hubServer is a websocket hub served over HTTP, optionally advertised.
type hubServer struct {
	hub  *bus.Hub
	srv  *http.Server
	addr net.Addr
	zone *mdns.Server
}

type hubConfig struct {
	addr      string
	broker    *bus.Broker
	advertise bool
	service   string
}

func (r *root) startHub(ctx context.Context, hc hubConfig) (*hubServer, error) {
	ln, err := net.Listen("tcp", hc.addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", hc.addr, err)
	}
	hub := bus.NewHub(bus.WithPeerHook(func(addr string, joined bool) {
		if !joined {
			return
		}
		if r.verbose {
			log.Printf("peer %s joined", addr)
		}
		if r.notifier != nil {
			r.notifier.Peer(addr)
		}
	}))
	if hc.broker != nil {
		hub.Attach(ctx, hc.broker)
	}
	mux := http.NewServeMux()
	mux.Handle(bus.HubPath, hub)
	hs := &hubServer{
		hub:  hub,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		addr: ln.Addr(),
	}
	go func() {
		if err := hs.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(r.stderr, "warning: hub stopped: %v\n", err)
		}
	}()
	if hc.advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		zone, err := bus.Advertise(hc.service, port)
		if err != nil {
			fmt.Fprintf(r.stderr, "warning: failed to advertise hub: %v\n", err)
		} else {
			hs.zone = zone
		}
	}
	return hs, nil
}

// URL is the websocket address clients dial.
func (hs *hubServer) URL() string {
	return "ws://" + hs.addr.String() + bus.HubPath
}

func (hs *hubServer) Close() error {
	if hs.zone != nil {
		_ = hs.zone.Shutdown()
	}
	hs.hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.srv.Shutdown(ctx)
}
