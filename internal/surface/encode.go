package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultMIMEType is used when no format, or an unknown one, is requested.
const DefaultMIMEType = "image/png"

// MIMEPDF encodes the drawing as a single page PDF.
const MIMEPDF = "application/pdf"

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	MIMEPDF:      "pdf",
}

// NormalizeMIME maps aliases and unknown types onto a supported MIME type.
func NormalizeMIME(mime string) string {
	m := strings.ToLower(strings.TrimSpace(mime))
	switch m {
	case "image/jpg":
		m = "image/jpeg"
	case "image/x-ms-bmp":
		m = "image/bmp"
	}
	if _, ok := extensions[m]; !ok {
		return DefaultMIMEType
	}
	return m
}

// MIMEForPath picks the MIME type matching the file extension of path.
func MIMEForPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpeg":
		ext = "jpg"
	case "tif":
		ext = "tiff"
	}
	for mime, e := range extensions {
		if e == ext {
			return mime
		}
	}
	return DefaultMIMEType
}

// Extension returns the file extension for a MIME type, without the dot.
func Extension(mime string) string {
	return extensions[NormalizeMIME(mime)]
}

// Encode renders img in the requested format. quality applies to JPEG and
// is a fraction in 0..1; zero means best. It returns the MIME type actually
// used.
func Encode(img image.Image, mime string, quality float64) ([]byte, string, error) {
	mime = NormalizeMIME(mime)
	var buf bytes.Buffer
	var err error
	switch mime {
	case "image/png":
		err = png.Encode(&buf, img)
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)})
	case "image/gif":
		err = gif.Encode(&buf, img, nil)
	case "image/bmp":
		err = bmp.Encode(&buf, img)
	case "image/tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case MIMEPDF:
		err = encodePDF(&buf, img)
	}
	if err != nil {
		return nil, mime, fmt.Errorf("encode %s: %w", mime, err)
	}
	return buf.Bytes(), mime, nil
}

// DataURL renders img as a base64 data URL.
func DataURL(img image.Image, mime string, quality float64) (string, error) {
	data, used, err := Encode(img, mime, quality)
	if err != nil {
		return "", err
	}
	return "data:" + used + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return 100
	}
	return max(1, int(q*100+0.5))
}

func encodePDF(buf *bytes.Buffer, img image.Image) error {
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, img); err != nil {
		return err
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("drawing", opts, &pngData)
	pdf.ImageOptions("drawing", 0, 0, w, h, false, opts, 0, "")
	return pdf.Output(buf)
}
