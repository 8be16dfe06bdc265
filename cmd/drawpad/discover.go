package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/drawpad/internal/bus"
)

func newDiscoverCmd(r *root) *cobra.Command {
	var (
		timeout time.Duration
		service string
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List sync hubs on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			peers, err := bus.Discover(cmd.Context(), service, timeout)
			if err != nil {
				return err
			}
			printPeers(cmd.OutOrStdout(), peers)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to listen for answers")
	cmd.Flags().StringVar(&service, "service", r.config.Sync.Service, "mDNS service type")
	return cmd
}

func printPeers(w io.Writer, peers []bus.Peer) {
	if len(peers) == 0 {
		fmt.Fprintln(w, "No peers found")
		return
	}
	for _, p := range peers {
		fmt.Fprintln(w, p.String())
	}
}
