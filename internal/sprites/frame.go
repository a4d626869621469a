package sprites

import (
	"image"
	"image/color"
)

// NoKey marks a frame without a transparency key (backgrounds).
const NoKey = -1

// MaxOpaqueColors is the palette budget for keyed frames. One more index
// is reserved for the transparency key.
const MaxOpaqueColors = 255

// Frame is a display-ready raster with binary transparency. Pixels whose
// palette index equals Key are fully transparent; every other palette entry
// is opaque.
type Frame struct {
	Image *image.Paletted
	Key   int
}

// Size returns the frame dimensions in pixels.
func (f Frame) Size() image.Point {
	if f.Image == nil {
		return image.Point{}
	}
	return f.Image.Bounds().Size()
}

// Empty reports whether the frame has no pixels.
func (f Frame) Empty() bool {
	sz := f.Size()
	return sz.X == 0 || sz.Y == 0
}

// Transparent reports whether the pixel at (x, y), relative to the frame
// origin, is the transparency key.
func (f Frame) Transparent(x, y int) bool {
	if f.Key == NoKey {
		return false
	}
	b := f.Image.Bounds()
	return int(f.Image.ColorIndexAt(b.Min.X+x, b.Min.Y+y)) == f.Key
}

// At returns the opaque colour of the pixel at (x, y) relative to the frame
// origin. The result is meaningless for transparent pixels.
func (f Frame) At(x, y int) color.NRGBA {
	b := f.Image.Bounds()
	c := f.Image.Palette[f.Image.ColorIndexAt(b.Min.X+x, b.Min.Y+y)]
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
