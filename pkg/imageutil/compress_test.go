package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"within bounds", 800, 600, 1200, 800, 600},
		{"landscape", 2400, 1600, 1200, 1200, 800},
		{"portrait", 1000, 3000, 1200, 400, 1200},
		{"square", 5000, 5000, 1200, 1200, 1200},
		{"thin strip", 10000, 2, 1200, 1200, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestCompress_ResizesToJPEG(t *testing.T) {
	out, err := Compress(bytes.NewReader(pngFixture(t, 300, 150)), 100, DefaultQuality)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestCompress_KeepsSmallImageSize(t *testing.T) {
	out, err := Compress(bytes.NewReader(pngFixture(t, 64, 48)), DefaultMaxDimension, DefaultQuality)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestCompress_RejectsNonImage(t *testing.T) {
	_, err := Compress(strings.NewReader("not an image"), DefaultMaxDimension, DefaultQuality)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
