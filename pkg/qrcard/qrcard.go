// Package qrcard renders table QR codes and the printable card they sit on.
package qrcard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the edge length of a generated QR image in pixels.
	DefaultSize = 512
	// DefaultMargin is the quiet zone around the code, in modules.
	DefaultMargin = 2
)

var (
	ErrEmptyContent = errors.New("qr content is empty")
	ErrSizeTooSmall = errors.New("qr size too small for content")
)

var qrPalette = color.Palette{color.White, color.Black}

// Options controls QR encoding.
type Options struct {
	Size   int
	Margin int
	Level  qrcode.RecoveryLevel
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Margin: DefaultMargin, Level: qrcode.Medium}
}

// Encode renders content as a square black-on-white QR image of opts.Size
// pixels. Modules are scaled by a whole number of pixels and the code is
// centered, so leftover pixels widen the quiet zone evenly.
func Encode(content string, opts Options) (*image.Paletted, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	q, err := qrcode.New(content, opts.Level)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()

	modules := len(bitmap) + 2*opts.Margin
	scale := opts.Size / modules
	if scale < 1 {
		return nil, ErrSizeTooSmall
	}
	offset := (opts.Size - len(bitmap)*scale) / 2

	img := image.NewPaletted(image.Rect(0, 0, opts.Size, opts.Size), qrPalette)
	// index 0 is white, so the fresh image is already a blank quiet zone
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + x*scale
			y0 := offset + y*scale
			for dy := 0; dy < scale; dy++ {
				rowStart := img.PixOffset(x0, y0+dy)
				for dx := 0; dx < scale; dx++ {
					img.Pix[rowStart+dx] = 1
				}
			}
		}
	}
	return img, nil
}

// EncodePNG is Encode followed by PNG encoding.
func EncodePNG(content string, opts Options) ([]byte, error) {
	img, err := Encode(content, opts)
	if err != nil {
		return nil, err
	}
	return PNG(img)
}

func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes as a data: URL suitable for an <img> src.
func DataURL(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
