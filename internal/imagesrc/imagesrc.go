// Package imagesrc fetches and decodes background images.
package imagesrc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/drawpad/internal/clipboard"
	"github.com/example/drawpad/internal/logging"
)

// ErrUnsupportedScheme is returned for URLs no source understands.
var ErrUnsupportedScheme = errors.New("unsupported image url scheme")

// MaxBytes bounds how much is read from a file or HTTP response.
const MaxBytes = 64 << 20

// Source loads an image for a URL.
type Source interface {
	Load(ctx context.Context, rawURL string) (image.Image, error)
}

// Loader understands file paths and file://, http(s)://, data:,
// clipboard: and x11: URLs.
type Loader struct {
	Client    *http.Client
	Clipboard func() (image.Image, error)
	Screen    func(ctx context.Context) (image.Image, error)
}

// NewLoader returns a Loader wired to the system clipboard and X server.
func NewLoader() *Loader {
	return &Loader{
		Client:    http.DefaultClient,
		Clipboard: clipboard.ReadImage,
		Screen:    captureRoot,
	}
}

func (l *Loader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("empty image url")
	}
	log := logging.For("imagesrc")
	scheme := ""
	if i := strings.Index(rawURL, ":"); i > 1 {
		scheme = strings.ToLower(rawURL[:i])
	}
	log.Debug("loading image", "scheme", scheme)
	switch scheme {
	case "", "file":
		return l.loadFile(rawURL)
	case "http", "https":
		return l.loadHTTP(ctx, rawURL)
	case "data":
		return decodeDataURL(rawURL)
	case "clipboard":
		if l.Clipboard == nil {
			return nil, fmt.Errorf("clipboard: %w", ErrUnsupportedScheme)
		}
		img, err := l.Clipboard()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	case "x11":
		if l.Screen == nil {
			return nil, fmt.Errorf("x11: %w", ErrUnsupportedScheme)
		}
		img, err := l.Screen(ctx)
		if err != nil {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%s: %w", scheme, ErrUnsupportedScheme)
}

func (l *Loader) loadFile(rawURL string) (image.Image, error) {
	path := rawURL
	if strings.HasPrefix(strings.ToLower(rawURL), "file:") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", rawURL, err)
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return decode(io.LimitReader(f, MaxBytes))
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: %s", resp.Status)
	}
	return decode(io.LimitReader(resp.Body, MaxBytes))
}

func decodeDataURL(rawURL string) (image.Image, error) {
	comma := strings.IndexByte(rawURL, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data url")
	}
	meta, payload := rawURL[len("data:"):comma], rawURL[comma+1:]
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		data = []byte(unescaped)
	}
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	logging.For("imagesrc").Debug("decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}
