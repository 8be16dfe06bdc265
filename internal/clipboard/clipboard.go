// Package clipboard copies drawings to and from the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
)

// ErrNoImage is returned when the clipboard holds no image.
var ErrNoImage = errors.New("clipboard does not contain image data")

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
