package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Embedded cursor images for drawpad. Files are named <name>-<size>.png.
//
//go:embed cursors/*.png
var embeddedCursors embed.FS

type cursorKey struct {
	name string
	size int
}

var (
	loadCursorsOnce sync.Once
	loadCursorsErr  error

	cursorImages = map[cursorKey]image.Image{}
	cursorData   = map[cursorKey][]byte{}
)

func loadCursors() {
	entries, err := fs.ReadDir(embeddedCursors, "cursors")
	if err != nil {
		loadCursorsErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".png") {
			continue
		}
		base := strings.TrimSuffix(name, ".png")
		idx := strings.LastIndex(base, "-")
		if idx <= 0 || idx == len(base)-1 {
			continue
		}
		size, err := strconv.Atoi(base[idx+1:])
		if err != nil {
			continue
		}
		data, err := embeddedCursors.ReadFile(path.Join("cursors", name))
		if err != nil {
			loadCursorsErr = err
			return
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			loadCursorsErr = fmt.Errorf("cursor %s: %w", name, err)
			return
		}
		key := cursorKey{name: base[:idx], size: size}
		cursorImages[key] = img
		cursorData[key] = append([]byte(nil), data...)
	}
}

func ensureCursors() error {
	loadCursorsOnce.Do(loadCursors)
	return loadCursorsErr
}

// Cursor returns the largest embedded image for the named cursor.
func Cursor(name string) (image.Image, error) {
	if err := ensureCursors(); err != nil {
		return nil, err
	}
	sizes := CursorSizes(name)
	if len(sizes) == 0 {
		return nil, fmt.Errorf("cursor %q not embedded", name)
	}
	return cursorImages[cursorKey{name, sizes[len(sizes)-1]}], nil
}

// CursorPNG returns a copy of the raw PNG bytes of a cursor at size.
func CursorPNG(name string, size int) ([]byte, error) {
	if err := ensureCursors(); err != nil {
		return nil, err
	}
	data, ok := cursorData[cursorKey{name, size}]
	if !ok {
		return nil, fmt.Errorf("cursor %q %dpx not embedded", name, size)
	}
	return append([]byte(nil), data...), nil
}

// CursorSizes lists the embedded sizes of a cursor in ascending order.
func CursorSizes(name string) []int {
	if err := ensureCursors(); err != nil {
		return nil
	}
	var sizes []int
	for key := range cursorImages {
		if key.name == name {
			sizes = append(sizes, key.size)
		}
	}
	sort.Ints(sizes)
	return sizes
}
