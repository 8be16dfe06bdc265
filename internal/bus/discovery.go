package bus

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// DefaultService is the mDNS service type hubs advertise.
const DefaultService = "_drawpad._tcp"

// HubPath is where a hub is served.
const HubPath = "/ws"

// Peer is a hub found on the local network.
type Peer struct {
	Instance string
	Host     string
	Addr     net.IP
	Port     int
	Info     []string
}

// URL is the websocket address of the peer's hub.
func (p Peer) URL() string {
	return "ws://" + net.JoinHostPort(p.Addr.String(), strconv.Itoa(p.Port)) + HubPath
}

func (p Peer) String() string {
	return fmt.Sprintf("%s %s", strings.TrimSuffix(p.Instance, "."), p.URL())
}

// Advertise announces a hub listening on port. Shut the returned server down
// to withdraw it.
func Advertise(service string, port int, info ...string) (*mdns.Server, error) {
	if service == "" {
		service = DefaultService
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"drawpad"}
	}
	zone, err := mdns.NewMDNSService(host, service, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: zone})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses for hubs for up to timeout. Entries without an IPv4
// address or port are skipped. Duplicate answers are collapsed.
func Discover(ctx context.Context, service string, timeout time.Duration) ([]Peer, error) {
	if service == "" {
		service = DefaultService
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	entries := make(chan *mdns.ServiceEntry, 16)
	var peers []Peer
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := map[string]bool{}
		for e := range entries {
			p, ok := peerFromEntry(e)
			if !ok || seen[p.URL()] {
				continue
			}
			seen[p.URL()] = true
			peers = append(peers, p)
		}
	}()
	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return peers, fmt.Errorf("mdns query: %w", err)
	}
	return peers, ctx.Err()
}

func peerFromEntry(e *mdns.ServiceEntry) (Peer, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Peer{}, false
	}
	return Peer{
		Instance: e.Name,
		Host:     e.Host,
		Addr:     e.AddrV4,
		Port:     e.Port,
		Info:     e.InfoFields,
	}, true
}
