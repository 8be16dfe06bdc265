//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package imagesrc

import (
	"context"
	"fmt"
	"image"
)

func captureRoot(context.Context) (image.Image, error) {
	return nil, fmt.Errorf("x11 capture is not supported on this platform")
}
