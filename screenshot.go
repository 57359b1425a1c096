package panoroom

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/hajimehoshi/ebiten/v2"
)

const labelChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-."

// Screenshot asks for the next drawn frame to be saved under label. Files
// land in ScreenshotDir as <timestamp>_<label>.<png|webp>.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// flushScreenshots writes one file per pending label from the finished
// frame. Failures are warnings; the queue is always emptied.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	labels := s.screenshotQueue
	if len(labels) == 0 {
		return
	}
	s.screenshotQueue = s.screenshotQueue[:0]

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		warnf("screenshot: %v", err)
		return
	}
	frame := captureFrame(screen)
	stamp := time.Now().Format("20060102_150405")
	ext := screenshotExt(s.ScreenshotFormat)
	for _, label := range labels {
		name := stamp + "_" + sanitizeLabel(label) + "." + ext
		if err := writeImage(filepath.Join(s.ScreenshotDir, name), frame); err != nil {
			warnf("screenshot: %v", err)
		}
	}
}

// captureFrame reads screen back as straight-alpha pixels.
func captureFrame(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	return unpremultiply(pixels, b.Dx(), b.Dy())
}

// unpremultiply converts ebiten's premultiplied RGBA bytes to NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := copy(img.Pix, pixels)
	for p := img.Pix[:n]; len(p) >= 4; p = p[4:] {
		a := int(p[3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			p[c] = uint8(min(int(p[c])*255/a, 255))
		}
	}
	return img
}

func screenshotExt(format string) string {
	if strings.EqualFold(format, "webp") {
		return "webp"
	}
	return "png"
}

// writeImage encodes img as lossless WebP for a .webp path and PNG
// otherwise.
func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	encode := png.Encode
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		encode = func(w io.Writer, m image.Image) error {
			return nativewebp.Encode(w, m, nil)
		}
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.'; anything else becomes
// '_'. A blank label is "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(labelChars, r) {
			return r
		}
		return '_'
	}, label)
}
