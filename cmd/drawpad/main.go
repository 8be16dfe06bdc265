package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// root carries what every subcommand shares.
type root struct {
	program    string
	config     *config.Config
	configPath string
	notifier   *notify.Notifier
	verbose    bool
	saveAlerts bool
	copyAlerts bool
	peerAlerts bool
	stderr     io.Writer
}

func newRoot(stderr io.Writer) *root {
	path := configPathOverride
	if env := os.Getenv("DRAWPAD_CONFIG"); env != "" {
		path = env
	}
	loader := config.NewLoader(version, path)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return &root{
		program:    "drawpad",
		config:     cfg,
		configPath: path,
		notifier:   notify.New(notify.LoadPreferences()),
		stderr:     stderr,
	}
}

func newRootCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:           r.program,
		Short:         "A shared drawing surface",
		Long:          `drawpad opens a drawing window whose strokes can be shared with other windows over websockets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			r.setup()
		},
	}
	cfg := r.config
	// Precedence: CLI > Config > Default
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&r.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	pf.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	pf.BoolVar(&r.peerAlerts, "notify-peer", cfg.Notify.Peer, "show a desktop notification when a peer joins")

	cmd.AddCommand(
		newOpenCmd(r),
		newRenderCmd(r),
		newServeCmd(r),
		newDiscoverCmd(r),
		newConfigCmd(r),
		newVersionCmd(r),
	)
	return cmd
}

func (r *root) setup() {
	if r.verbose {
		l := slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logging.SetLogger(l)
		gg.SetLogger(l)
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventPeer, r.peerAlerts)
	}
}

func main() {
	r := newRoot(os.Stderr)
	if err := newRootCmd(r).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
