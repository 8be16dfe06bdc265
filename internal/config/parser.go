package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/drawpad/internal/surface"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "":
			err = setRootField(cfg, key, value)
		case "buttons":
			err = setButtonField(&cfg.Buttons, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "sync":
			err = setSyncField(&cfg.Sync, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "batch_timeout":
		var ms int
		if ms, err = strconv.Atoi(value); err == nil && ms <= 0 {
			err = fmt.Errorf("must be positive")
		}
		cfg.BatchTimeout = time.Duration(ms) * time.Millisecond
	case "image_url":
		cfg.ImageURL = value
	case "aspect_ratio":
		cfg.AspectRatio, err = parseNumber(value, true)
	case "line_width":
		cfg.LineWidth, err = parseNumber(value, false)
	case "stroke_color":
		cfg.StrokeColor, err = parseColor(value)
	case "starting_color":
		cfg.StartingColor, err = parseColor(value)
	case "eraser_color":
		cfg.EraserColor, err = parseColor(value)
	case "download":
		cfg.Download, err = strconv.ParseBool(value)
	case "view_only":
		cfg.ViewOnly, err = strconv.ParseBool(value)
	case "cursor":
		cfg.Cursor = value
	case "font_family":
		cfg.FontFamily = value
	case "font_size":
		cfg.FontSize, err = parseNumber(value, false)
	case "color_picker":
		cfg.ColorPicker, err = strconv.ParseBool(value)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid value for key %s: %w", key, err)
	}
	return nil
}

func setButtonField(b *Buttons, key, value string) error {
	name, isLabel := strings.CutSuffix(key, "_label")
	for _, nb := range b.named() {
		if nb.name != name {
			continue
		}
		if isLabel {
			nb.button.Label = value
			return nil
		}
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		nb.button.Enabled = enabled
		return nil
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "peer":
		n.Peer = b
	}
	return nil
}

func setSyncField(s *Sync, key, value string) error {
	switch key {
	case "listen":
		s.Listen = value
	case "peer":
		s.Peer = value
	case "service":
		s.Service = value
	case "mdns":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		s.MDNS = b
	}
	return nil
}

// parseNumber accepts a positive number, or zero when allowZero is set.
func parseNumber(value string, allowZero bool) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || (f == 0 && !allowZero) {
		return 0, fmt.Errorf("%s is out of range", value)
	}
	return f, nil
}

// parseColor validates a CSS color and keeps the text as written.
func parseColor(value string) (string, error) {
	if _, err := surface.ParseColor(value); err != nil {
		return "", err
	}
	return value, nil
}
