package panoroom

import (
	"image"
	"math"
)

// HitAlphaThreshold is the alpha a pixel must exceed to count as a hit.
// Anti-aliased fringes below it are treated as transparent.
const HitAlphaThreshold = 0.05

// AlphaBuffer is a decoded per-pixel alpha grid at the source image's
// resolution. Read-only once built.
type AlphaBuffer struct {
	width, height int
	pix           []uint8
}

// NewAlphaBuffer extracts the alpha channel of img. Row 0 is the image's top row.
func NewAlphaBuffer(img image.Image) *AlphaBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := &AlphaBuffer{width: w, height: h, pix: make([]uint8, w*h)}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				buf.pix[y*w+x] = row[x*4+3]
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				buf.pix[y*w+x] = row[x*4+3]
			}
		}
	case *image.Alpha:
		for y := 0; y < h; y++ {
			copy(buf.pix[y*w:(y+1)*w], src.Pix[y*src.Stride:])
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				buf.pix[y*w+x] = uint8(a >> 8)
			}
		}
	}
	return buf
}

// Size returns the buffer's pixel dimensions.
func (b *AlphaBuffer) Size() (width, height int) {
	return b.width, b.height
}

// At returns the normalized alpha at pixel (x, y). Out-of-range pixels are
// fully transparent.
func (b *AlphaBuffer) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return float64(b.pix[y*b.width+x]) / 255
}

// IsOpaque reports whether an alpha value counts as a hit.
func IsOpaque(alpha float64) bool {
	return alpha > HitAlphaThreshold
}

// HitTest reports whether uv lands on an opaque pixel of buf. UV origin is the
// bottom-left, so V is flipped against the image rows. A nil buffer, an empty
// buffer or a uv outside [0,1] is never a hit.
func HitTest(buf *AlphaBuffer, uv Vec2) bool {
	if buf == nil || buf.width == 0 || buf.height == 0 {
		return false
	}
	if !(uv.X >= 0 && uv.X <= 1 && uv.Y >= 0 && uv.Y <= 1) {
		// also rejects NaN
		return false
	}
	x := int(math.Floor(uv.X * float64(buf.width)))
	y := int(math.Floor((1 - uv.Y) * float64(buf.height)))
	// uv of exactly 1 (or v of exactly 0) lands one past the last pixel.
	x = min(x, buf.width-1)
	y = min(y, buf.height-1)
	return IsOpaque(buf.At(x, y))
}
