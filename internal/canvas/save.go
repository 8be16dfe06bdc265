package canvas

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/drawpad/internal/logging"
	"github.com/example/drawpad/internal/surface"
)

// SaveResult is a rendered copy of the drawing. Image formats are returned
// as a data URL, PDF as a blob.
type SaveResult struct {
	MIMEType string
	DataURL  string
	Blob     []byte
	// Path is set when the drawing was also written to disk.
	Path string
}

// Snapshot renders the drawing in the requested format without reporting
// it. Unknown formats fall back to PNG.
func (c *Canvas) Snapshot(mime string) (SaveResult, []byte, error) {
	data, used, err := surface.Encode(c.surface.Image(), mime, 1)
	if err != nil {
		return SaveResult{MIMEType: used}, nil, err
	}
	res := SaveResult{MIMEType: used}
	if used == surface.MIMEPDF {
		res.Blob = data
	} else {
		res.DataURL = "data:" + used + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	return res, data, nil
}

// SaveLocal renders the drawing, writes it out when downloads are enabled
// and reports it through the save hook.
func (c *Canvas) SaveLocal(mime string) {
	res, data, err := c.Snapshot(mime)
	if err != nil {
		logging.For("canvas").Warn("save failed", "mime", mime, "err", err)
		return
	}
	if c.opts.ShouldDownload {
		name := fmt.Sprintf("canvas_drawing_%d.%s", c.now().UnixMilli(), surface.Extension(res.MIMEType))
		path, err := c.download(name, data)
		if err != nil {
			logging.For("canvas").Warn("download failed", "name", name, "err", err)
		} else {
			res.Path = path
		}
	}
	if c.onSave != nil {
		c.onSave(res)
	}
}

func (c *Canvas) writeFile(name string, data []byte) (string, error) {
	dir := c.opts.SaveDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
