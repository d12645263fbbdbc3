package inject

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// HighlightColor is used to paint the pixels that carry
// an injection string.
var HighlightColor = color.NRGBA{R: 255, A: 255}

// Highlight returns a copy of img in which every pixel that
// holds at least one bit of m is painted with HighlightColor.
//
// If size is non-zero, the result is resampled to size.
func Highlight(img image.Image, m Match, size image.Point) *image.NRGBA {
	b := img.Bounds()
	width := b.Dx()

	marked := image.NewNRGBA(image.Rect(0, 0, width, b.Dy()))
	draw.Draw(marked, marked.Bounds(), img, b.Min, draw.Src)

	if width > 0 {
		for i := m.BitOffset; i < m.BitOffset+m.BitLen; i++ {
			pixel := i / channelsPerPixel
			y := pixel / width
			if y >= b.Dy() {
				break
			}

			marked.SetNRGBA(pixel%width, y, HighlightColor)
		}
	}

	if size.X <= 0 || size.Y <= 0 || size == marked.Bounds().Size() {
		return marked
	}

	resized := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(resized, resized.Bounds(), marked, marked.Bounds(), draw.Src, nil)

	return resized
}
