package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/schedule"
	"github.com/example/drawpad/internal/surface"
	"github.com/example/drawpad/internal/update"
)

type renderCmd struct {
	*root
	in     string
	out    string
	size   string
	image  string
	format string
}

func newRenderCmd(r *root) *cobra.Command {
	o := &renderCmd{root: r}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Replay recorded batches into an image",
		Long: `Replays a JSON lines file of update batches, such as one written by
open --record, onto a blank surface and writes the result. Use - to read
standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.in, "in", "-", "batches to replay")
	f.StringVarP(&o.out, "out", "o", "", "file to write")
	f.StringVar(&o.size, "size", "800x600", "surface size as WIDTHxHEIGHT")
	f.StringVar(&o.image, "image", r.config.ImageURL, "background image")
	f.StringVar(&o.format, "format", "", "MIME type to write (default from the output extension)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (o *renderCmd) run(stdin io.Reader, stdout io.Writer) error {
	size, err := parseSize(o.size)
	if err != nil {
		return err
	}
	in := stdin
	if o.in != "-" {
		f, err := os.Open(o.in)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	opts := canvasOptions(o.config)
	opts.ImageURL = ""
	opts.ShouldDownload = false
	var loadErr error
	m := schedule.NewManual()
	c := canvas.New(m,
		canvas.WithOptions(opts),
		canvas.WithOnImageLoaded(func(ok bool, err error) { loadErr = err }),
	)
	defer c.Close()
	c.Layout(size)
	if o.image != "" {
		c.LoadImage(o.image)
		m.RunPending()
		if loadErr != nil {
			fmt.Fprintf(o.stderr, "warning: background image: %v\n", loadErr)
		}
	}

	dec := update.NewDecoder(in)
	batches := 0
	for {
		batch, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", o.in, err)
		}
		c.DrawUpdates(batch)
		batches++
	}

	mime := o.format
	if mime == "" {
		mime = surface.MIMEForPath(o.out)
	}
	res, data, err := c.Snapshot(mime)
	if err != nil {
		return fmt.Errorf("encode %s: %w", mime, err)
	}
	if err := os.WriteFile(o.out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Rendered %d batches to %s (%s)\n", batches, o.out, res.MIMEType)
	return nil
}
