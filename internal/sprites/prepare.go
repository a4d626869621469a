// Package sprites turns source images into display-ready frames with binary
// transparency and binds them to a rendering surface as animation sets.
package sprites

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	apperr "github.com/JPM1118/harerace/internal/errors"
	"github.com/ericpauley/go-quantize/quantize"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// AlphaThreshold is the highest alpha value treated as fully transparent.
const AlphaThreshold = 0

// Prepare decodes the image at path and converts every frame into a keyed
// Frame. A non-zero size is a bounding box: frames are shrunk to fit it,
// keeping their aspect ratio, and never enlarged.
//
// A missing file yields an empty sequence and an ErrCodeMissingAsset error;
// an undecodable one yields an empty sequence and ErrCodeDecode.
func Prepare(path string, size image.Point) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeMissingAsset, err, "asset %s", path)
		}
		return nil, apperr.Wrap(apperr.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	frames, err := PrepareReader(f, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeDecode, err, "decode %s", path)
	}
	return frames, nil
}

// PrepareReader is Prepare for an already opened image stream.
func PrepareReader(r io.Reader, size image.Point) ([]Frame, error) {
	sources, err := decodeFrames(r)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(sources))
	for _, src := range sources {
		frames = append(frames, prepareFrame(src, size))
	}
	return frames, nil
}

// PrepareBackground decodes the first frame at path and stretches it to
// exactly size. Backgrounds are opaque, so the frame carries no key.
func PrepareBackground(path string, size image.Point) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Frame{}, apperr.Wrap(apperr.ErrCodeMissingAsset, err, "background %s", path)
		}
		return Frame{}, apperr.Wrap(apperr.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	sources, err := decodeFrames(f)
	if err != nil {
		return Frame{}, apperr.Wrap(apperr.ErrCodeDecode, err, "decode %s", path)
	}
	if size.X <= 0 || size.Y <= 0 {
		return Frame{}, apperr.New(apperr.ErrCodeDecode, "background size %v", size)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), sources[0], sources[0].Bounds(), xdraw.Src, nil)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	palette := quantizeOpaque(dst, 256)
	pal := image.NewPaletted(dst.Bounds(), palette)
	draw.Draw(pal, pal.Bounds(), dst, image.Point{}, draw.Src)
	return Frame{Image: pal, Key: NoKey}, nil
}

// decodeFrames returns the full-size frames of the stream: every composed
// frame for a GIF, the single image otherwise.
func decodeFrames(r io.Reader) ([]image.Image, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	if bytes.Equal(magic, []byte("GIF8")) {
		g, err := gif.DecodeAll(br)
		if err != nil {
			return nil, err
		}
		return composeGIF(g), nil
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	return []image.Image{img}, nil
}

// composeGIF plays the animation onto a running canvas of the logical
// screen size, honouring disposal, so partial frames become full frames.
func composeGIF(g *gif.GIF) []image.Image {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, fr := range g.Image {
			bounds = bounds.Union(fr.Bounds())
		}
	}

	canvas := image.NewNRGBA(bounds)
	out := make([]image.Image, 0, len(g.Image))
	for i, fr := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
		out = append(out, cloneNRGBA(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, fr.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return out
}

func prepareFrame(src image.Image, size image.Point) Frame {
	rgba := toNRGBA(src)
	if target := FitSize(rgba.Bounds().Size(), size); target != rgba.Bounds().Size() {
		scaled := image.NewNRGBA(image.Rect(0, 0, target.X, target.Y))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), rgba, rgba.Bounds(), xdraw.Src, nil)
		rgba = scaled
	}

	canvas := image.NewNRGBA(rgba.Bounds())
	draw.Draw(canvas, canvas.Bounds(), rgba, image.Point{}, draw.Over)
	return keyFrame(canvas)
}

// keyFrame quantizes the opaque pixels to at most MaxOpaqueColors and maps
// every pixel with alpha <= AlphaThreshold to the reserved key index.
func keyFrame(canvas *image.NRGBA) Frame {
	palette := quantizeOpaque(canvas, MaxOpaqueColors)
	opaque := palette
	key := len(palette)
	palette = append(palette, color.NRGBA{})

	b := canvas.Bounds()
	pal := image.NewPaletted(b, palette)
	lookup := make(map[color.NRGBA]uint8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := canvas.NRGBAAt(x, y)
			if c.A <= AlphaThreshold {
				pal.SetColorIndex(x, y, uint8(key))
				continue
			}
			c.A = 0xff
			idx, ok := lookup[c]
			if !ok {
				idx = uint8(opaque.Index(c))
				lookup[c] = idx
			}
			pal.SetColorIndex(x, y, idx)
		}
	}
	return Frame{Image: pal, Key: key}
}

// quantizeOpaque builds a median-cut palette of at most n opaque colours.
// Pixels with alpha <= AlphaThreshold carry no weight.
func quantizeOpaque(m image.Image, n int) color.Palette {
	q := quantize.MedianCutQuantizer{
		Aggregation: quantize.Mean,
		Weighting: func(img image.Image, x, y int) uint32 {
			if _, _, _, a := img.At(x, y).RGBA(); a>>8 <= AlphaThreshold {
				return 0
			}
			return 1
		},
	}
	raw := q.Quantize(make(color.Palette, 0, n), m)

	out := make(color.Palette, 0, len(raw))
	seen := make(map[color.NRGBA]bool, len(raw))
	for _, c := range raw {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		if nc.A <= AlphaThreshold {
			continue
		}
		nc.A = 0xff
		if seen[nc] || len(out) == n {
			continue
		}
		seen[nc] = true
		out = append(out, nc)
	}
	return out
}

// FitSize returns the size src shrinks to so it fits inside box while
// keeping its aspect ratio. A zero box, or one src already fits, returns src.
func FitSize(src, box image.Point) image.Point {
	if box.X <= 0 || box.Y <= 0 || src.X <= 0 || src.Y <= 0 {
		return src
	}
	scale := math.Min(float64(box.X)/float64(src.X), float64(box.Y)/float64(src.Y))
	if scale >= 1 {
		return src
	}
	w := max(1, int(math.Round(float64(src.X)*scale)))
	h := max(1, int(math.Round(float64(src.Y)*scale)))
	return image.Pt(min(w, box.X), min(h, box.Y))
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
