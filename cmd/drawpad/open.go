package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/drawpad/internal/bus"
	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/update"
	"github.com/example/drawpad/internal/window"
)

type openCmd struct {
	*root
	image    string
	listen   string
	peer     string
	record   string
	mdns     bool
	viewOnly bool
	width    int
	height   int
}

func newOpenCmd(r *root) *cobra.Command {
	o := &openCmd{root: r}
	cfg := r.config
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a drawing window",
		Long: `Opens a drawing window. With --listen the window serves a hub other
windows can join; with --peer it joins an existing hub. --peer auto joins the
first hub found over mDNS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.image, "image", cfg.ImageURL, "background image (path, http(s), data:, clipboard: or x11:)")
	f.StringVar(&o.listen, "listen", cfg.Sync.Listen, "serve a sync hub on this address")
	f.StringVar(&o.peer, "peer", cfg.Sync.Peer, "join the sync hub at this websocket URL")
	f.StringVar(&o.record, "record", "", "append local batches to this JSON lines file")
	f.BoolVar(&o.mdns, "mdns", cfg.Sync.MDNS, "advertise the hub over mDNS")
	f.BoolVar(&o.viewOnly, "view-only", cfg.ViewOnly, "start with drawing disabled")
	f.IntVar(&o.width, "width", 800, "window width")
	f.IntVar(&o.height, "height", 600, "window height")
	cmd.MarkFlagsMutuallyExclusive("listen", "peer")
	return cmd
}

// canvasOptions builds the canvas options for the window, including the
// recorder when --record is set. The returned func closes the recording.
func (o *openCmd) canvasOptions() ([]canvas.Option, func(), error) {
	opts := canvasOptions(o.config)
	opts.ImageURL = o.image
	opts.ViewOnly = o.viewOnly
	out := []canvas.Option{
		canvas.WithOptions(opts),
		canvas.WithOnSave(func(res canvas.SaveResult) {
			if res.Path != "" && o.notifier != nil {
				o.notifier.Save(res.Path)
			}
		}),
	}
	if o.record == "" {
		return out, func() {}, nil
	}
	f, err := os.OpenFile(o.record, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open record file: %w", err)
	}
	enc := update.NewEncoder(f)
	out = append(out, canvas.WithOnBatchUpdate(func(batch []update.Update) {
		if err := enc.Encode(batch); err != nil {
			log.Printf("record batch: %v", err)
		}
	}))
	return out, func() { _ = f.Close() }, nil
}

func (o *openCmd) run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	copts, closeRecord, err := o.canvasOptions()
	if err != nil {
		return err
	}
	defer closeRecord()

	broker := bus.NewBroker(bus.DefaultBuffer)
	defer broker.Close()

	if o.listen != "" {
		hs, err := o.startHub(ctx, hubConfig{
			addr:      o.listen,
			broker:    broker,
			advertise: o.mdns,
			service:   o.config.Sync.Service,
		})
		if err != nil {
			return err
		}
		defer hs.Close()
		fmt.Fprintf(o.stderr, "Sharing on %s\n", hs.URL())
	}
	if o.peer != "" {
		url, err := o.peerURL(ctx)
		if err != nil {
			return err
		}
		go func() {
			b := &bus.Bridge{URL: url, Broker: broker}
			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(o.stderr, "warning: sync with %s stopped: %v\n", url, err)
			}
		}()
	}

	origin := uuid.NewString()
	win := window.New(
		window.WithTitle(o.program),
		window.WithSize(o.width, o.height),
		window.WithCanvasOptions(copts...),
		window.WithNotifier(o.notifier),
		window.WithOnReady(func(wctx context.Context, c *canvas.Canvas) {
			canvas.Sync(wctx, c, broker, origin)
		}),
		window.WithOnClose(stop),
	)
	win.Run()
	return nil
}

func (o *openCmd) peerURL(ctx context.Context) (string, error) {
	if o.peer != "auto" {
		return o.peer, nil
	}
	peers, err := bus.Discover(ctx, o.config.Sync.Service, 3*time.Second)
	if err != nil {
		return "", err
	}
	if len(peers) == 0 {
		return "", fmt.Errorf("no drawpad hub found on the local network")
	}
	return peers[0].URL(), nil
}
