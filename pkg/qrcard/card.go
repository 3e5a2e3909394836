package qrcard

import (
	"image"
	"image/color"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card layout, in pixels.
const (
	CardWidth     = 600
	CardHeight    = 800
	headerHeight  = 120
	qrTop         = 150
	captionTop    = 690
	textPadding   = 24
	maxTextScale  = 4
	captionPrefix = "Table "
)

var (
	headerColor  = color.RGBA{R: 0xE8, G: 0x6A, B: 0x17, A: 0xFF} // saffron
	headerText   = color.White
	captionColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
)

// ComposeCard draws the printable table card: restaurant name on a header
// band, the QR image centered below it and a "Table N" caption. The QR is
// copied pixel for pixel; it must be at most CardWidth wide.
func ComposeCard(qr image.Image, restaurantName, tableNumber string) *image.RGBA {
	card := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(card, card.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	header := image.Rect(0, 0, CardWidth, headerHeight)
	draw.Draw(card, header, image.NewUniform(headerColor), image.Point{}, draw.Src)
	drawCenteredText(card, header, restaurantName, headerText)

	qrBounds := qr.Bounds()
	left := (CardWidth - qrBounds.Dx()) / 2
	qrRect := image.Rect(left, qrTop, left+qrBounds.Dx(), qrTop+qrBounds.Dy())
	draw.Draw(card, qrRect, qr, qrBounds.Min, draw.Src)

	caption := image.Rect(0, captionTop, CardWidth, CardHeight-30)
	drawCenteredText(card, caption, captionPrefix+tableNumber, captionColor)

	return card
}

// drawCenteredText renders text with the fixed 7x13 face and scales it up
// by the largest whole factor that fits area.
func drawCenteredText(dst *image.RGBA, area image.Rectangle, text string, c color.Color) {
	face := basicfont.Face7x13
	maxWidth := area.Dx() - 2*textPadding
	text = truncateToWidth(face, text, maxWidth)
	if text == "" {
		return
	}

	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	scale := maxTextScale
	for scale > 1 && (width*scale > maxWidth || height*scale > area.Dy()) {
		scale--
	}

	w, h := width*scale, height*scale
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+w, y+h), glyphs, glyphs.Bounds(), draw.Over, nil)
}

// truncateToWidth shortens text with "..." until it fits at scale 1.
func truncateToWidth(face font.Face, text string, maxWidth int) string {
	if font.MeasureString(face, text).Ceil() <= maxWidth {
		return text
	}
	for utf8.RuneCountInString(text) > 0 {
		_, size := utf8.DecodeLastRuneInString(text)
		text = text[:len(text)-size]
		if font.MeasureString(face, text+"...").Ceil() <= maxWidth {
			return text + "..."
		}
	}
	return ""
}
