package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/drawpad/internal/batch"
	"github.com/example/drawpad/internal/render"
	"github.com/example/drawpad/internal/surface"
)

// Button holds one toolbar button setting.
type Button struct {
	Enabled bool
	Label   string
}

// Buttons holds the [buttons] section.
type Buttons struct {
	Draw  Button
	Clear Button
	Undo  Button
	Redo  Button
	Save  Button
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
	Peer bool
}

// Sync holds the [sync] section: how a window shares its drawing.
type Sync struct {
	Listen  string
	Peer    string
	MDNS    bool
	Service string
}

// Config holds the application configuration.
type Config struct {
	SaveDir       string
	BatchTimeout  time.Duration
	ImageURL      string
	AspectRatio   float64
	LineWidth     float64
	StrokeColor   string
	StartingColor string
	EraserColor   string
	Download      bool
	ViewOnly      bool
	Cursor        string
	FontFamily    string
	FontSize      float64
	ColorPicker   bool
	Buttons       Buttons
	Notify        Notify
	Sync          Sync
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		BatchTimeout:  batch.DefaultDelay,
		LineWidth:     render.DefaultLineWidth,
		StrokeColor:   render.DefaultStrokeColor,
		StartingColor: render.DefaultBackground,
		EraserColor:   "#ffffff",
		Download:      true,
		Cursor:        "pencil",
		FontFamily:    "sans-serif",
		FontSize:      surface.DefaultFontSize,
		Buttons: Buttons{
			Draw:  Button{Enabled: true, Label: "Draw"},
			Clear: Button{Enabled: true, Label: "Clear"},
			Undo:  Button{Label: "Undo"},
			Redo:  Button{Label: "Redo"},
			Save:  Button{Label: "Save"},
		},
		Sync: Sync{Service: "_drawpad._tcp"},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "batch_timeout = %d\n", c.BatchTimeout.Milliseconds())
	if c.ImageURL != "" {
		fmt.Fprintf(&sb, "image_url = %s\n", c.ImageURL)
	}
	if c.AspectRatio > 0 {
		fmt.Fprintf(&sb, "aspect_ratio = %s\n", formatFloat(c.AspectRatio))
	}
	fmt.Fprintf(&sb, "line_width = %s\n", formatFloat(c.LineWidth))
	fmt.Fprintf(&sb, "stroke_color = %q\n", c.StrokeColor)
	fmt.Fprintf(&sb, "starting_color = %q\n", c.StartingColor)
	fmt.Fprintf(&sb, "eraser_color = %q\n", c.EraserColor)
	fmt.Fprintf(&sb, "download = %v\n", c.Download)
	fmt.Fprintf(&sb, "view_only = %v\n", c.ViewOnly)
	fmt.Fprintf(&sb, "cursor = %s\n", c.Cursor)
	fmt.Fprintf(&sb, "font_family = %s\n", c.FontFamily)
	fmt.Fprintf(&sb, "font_size = %s\n", formatFloat(c.FontSize))
	fmt.Fprintf(&sb, "color_picker = %v\n", c.ColorPicker)
	sb.WriteString("\n")

	// Buttons section
	sb.WriteString("[buttons]\n")
	for _, b := range c.Buttons.named() {
		fmt.Fprintf(&sb, "%s = %v\n", b.name, b.button.Enabled)
		fmt.Fprintf(&sb, "%s_label = %s\n", b.name, b.button.Label)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "peer = %v\n", c.Notify.Peer)
	sb.WriteString("\n")

	// Sync section
	sb.WriteString("[sync]\n")
	if c.Sync.Listen != "" {
		fmt.Fprintf(&sb, "listen = %s\n", c.Sync.Listen)
	}
	if c.Sync.Peer != "" {
		fmt.Fprintf(&sb, "peer = %s\n", c.Sync.Peer)
	}
	fmt.Fprintf(&sb, "mdns = %v\n", c.Sync.MDNS)
	fmt.Fprintf(&sb, "service = %s\n", c.Sync.Service)

	return sb.String()
}

type namedButton struct {
	name   string
	button *Button
}

func (b *Buttons) named() []namedButton {
	return []namedButton{
		{"draw", &b.Draw},
		{"clear", &b.Clear},
		{"undo", &b.Undo},
		{"redo", &b.Redo},
		{"save", &b.Save},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
