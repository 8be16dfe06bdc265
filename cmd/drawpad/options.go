package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/drawpad/internal/canvas"
	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/surface"
)

// canvasOptions maps the configuration onto the canvas settings.
func canvasOptions(cfg *config.Config) canvas.Options {
	o := canvas.DefaultOptions()
	o.BatchTimeout = cfg.BatchTimeout
	o.ImageURL = cfg.ImageURL
	o.AspectRatio = cfg.AspectRatio
	o.LineWidth = cfg.LineWidth
	o.StrokeColor = cfg.StrokeColor
	o.StartingColor = cfg.StartingColor
	o.EraserColor = cfg.EraserColor
	o.ColorPickerEnabled = cfg.ColorPicker
	o.Cursor = cfg.Cursor
	o.ShouldDownload = cfg.Download
	o.ViewOnly = cfg.ViewOnly
	o.SaveDir = cfg.SaveDir
	o.Font = surface.Font{Family: cfg.FontFamily, Size: cfg.FontSize}
	o.Buttons = canvas.Buttons{
		Draw:  button(cfg.Buttons.Draw, "draw"),
		Clear: button(cfg.Buttons.Clear, "clear"),
		Undo:  button(cfg.Buttons.Undo, "undo"),
		Redo:  button(cfg.Buttons.Redo, "redo"),
		Save:  button(cfg.Buttons.Save, "save"),
	}
	return o
}

func button(b config.Button, class string) canvas.Button {
	return canvas.Button{Enabled: b.Enabled, Label: b.Label, Class: class}
}

// parseSize reads WIDTHxHEIGHT.
func parseSize(s string) (coords.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return coords.Size{}, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return coords.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return coords.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return coords.Size{}, fmt.Errorf("invalid size %q: must be positive", s)
	}
	return coords.Size{W: w, H: h}, nil
}
