package imagesrc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 3, 2), 0o644))

	l := &Loader{}
	img, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	img, err = l.Load(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, err = l.Load(context.Background(), filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	data := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client()}
	img, err := l.Load(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dy())

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadDataURL(t *testing.T) {
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 5, 1))
	img, err := (&Loader{}).Load(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())

	_, err = (&Loader{}).Load(context.Background(), "data:image/png;base64")
	assert.Error(t, err)
}

func TestLoadClipboardAndScreen(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 1, 1))
	boom := errors.New("no display")
	l := &Loader{
		Clipboard: func() (image.Image, error) { return want, nil },
		Screen:    func(context.Context) (image.Image, error) { return nil, boom },
	}
	img, err := l.Load(context.Background(), "clipboard:")
	require.NoError(t, err)
	assert.Same(t, want, img)

	_, err = l.Load(context.Background(), "x11:")
	assert.ErrorIs(t, err, boom)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), "ftp://example.com/a.png")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = (&Loader{}).Load(context.Background(), "clipboard:")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	_, err = (&Loader{}).Load(context.Background(), "  ")
	assert.Error(t, err)
}
