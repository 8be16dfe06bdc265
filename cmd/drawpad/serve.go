package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type serveCmd struct {
	*root
	addr    string
	mdns    bool
	service string
}

func newServeCmd(r *root) *cobra.Command {
	o := &serveCmd{root: r}
	cfg := r.config
	addr := cfg.Sync.Listen
	if addr == "" {
		addr = ":8765"
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a sync hub without a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			return o.run(ctx, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.addr, "addr", addr, "address to listen on")
	f.BoolVar(&o.mdns, "mdns", cfg.Sync.MDNS, "advertise the hub over mDNS")
	f.StringVar(&o.service, "service", cfg.Sync.Service, "mDNS service type")
	return cmd
}

// run serves until ctx ends.
func (o *serveCmd) run(ctx context.Context, stdout io.Writer) error {
	hs, err := o.startHub(ctx, hubConfig{addr: o.addr, advertise: o.mdns, service: o.service})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Serving on %s\n", hs.URL())
	<-ctx.Done()
	return hs.Close()
}
