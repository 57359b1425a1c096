package panoroom

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Fetcher retrieves raw asset bytes from a resolved location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileFetcher reads assets from the local filesystem.
type FileFetcher struct{}

// Fetch reads the file at location.
func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(location)
}

// HTTPFetcher downloads assets over HTTP. A nil Client uses http.DefaultClient.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch GETs location and returns the body. Non-2xx responses are errors.
func (f HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", location, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// autoFetcher routes http(s) locations to HTTP and everything else to disk.
type autoFetcher struct {
	http HTTPFetcher
	file FileFetcher
}

func (f autoFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if isRemote(location) {
		return f.http.Fetch(ctx, location)
	}
	return f.file.Fetch(ctx, location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// AssetResolver turns asset names into fetchable locations.
type AssetResolver struct {
	// Base is a local directory or an http(s) URL prefix.
	Base string
}

// Resolve returns the location of name. Absolute URLs and absolute paths are
// used verbatim.
func (r AssetResolver) Resolve(name string) string {
	if isRemote(name) || filepath.IsAbs(name) || r.Base == "" {
		return name
	}
	if isRemote(r.Base) {
		u, err := url.Parse(r.Base)
		if err != nil {
			return strings.TrimSuffix(r.Base, "/") + "/" + name
		}
		u.Path = path.Join(u.Path, name)
		return u.String()
	}
	return filepath.Join(r.Base, filepath.FromSlash(name))
}

// AssetKind says what an AssetResult is for.
type AssetKind uint8

const (
	AssetHotspot      AssetKind = iota // a hotspot's base overlay
	AssetHotspotHover                  // a hotspot's hover overlay
	AssetWall                          // a wall background
)

func (k AssetKind) String() string {
	switch k {
	case AssetHotspot:
		return "hotspot"
	case AssetHotspotHover:
		return "hotspot-hover"
	case AssetWall:
		return "wall"
	default:
		return fmt.Sprintf("AssetKind(%d)", uint8(k))
	}
}

// AssetRequest names one image to load and what it belongs to.
type AssetRequest struct {
	Kind      AssetKind
	HotspotID string
	Wall      Wall
	Name      string
}

// AssetResult is a finished load. Image is the texture-sized image; Alpha is
// built from the full-resolution decode. On failure Err is set and the rest
// is empty.
type AssetResult struct {
	AssetRequest
	Location string
	Image    image.Image
	Alpha    *AlphaBuffer
	Err      error
}

// Loader fetches and decodes assets on background goroutines. Results are
// collected on the game thread with Poll.
type Loader struct {
	fetcher  Fetcher
	resolver AssetResolver
	attempts int
	delay    time.Duration
	timeout  time.Duration
	maxSize  int

	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	results chan AssetResult
	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// NewLoader creates a Loader. A nil fetcher picks HTTP or file access per
// location.
func NewLoader(cfg AssetConfig, fetcher Fetcher) *Loader {
	if fetcher == nil {
		fetcher = autoFetcher{http: HTTPFetcher{}}
	}
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Loader{
		fetcher:  fetcher,
		resolver: AssetResolver{Base: cfg.BaseURL},
		attempts: attempts,
		delay:    time.Duration(cfg.RetryDelay),
		timeout:  time.Duration(cfg.Timeout),
		maxSize:  cfg.MaxTextureSize,
		sleep:    sleepCtx,
		results:  make(chan AssetResult, 64),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Resolver returns the loader's name resolver.
func (l *Loader) Resolver() AssetResolver {
	return l.resolver
}

// Fetch retrieves name, retrying failed attempts. After failed attempt i
// (0-based) it waits delay*(i+1) unless no attempts remain.
func (l *Loader) Fetch(ctx context.Context, name string) ([]byte, error) {
	location := l.resolver.Resolve(name)
	var lastErr error
	for i := 0; i < l.attempts; i++ {
		data, err := l.fetchOnce(ctx, location)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if i < l.attempts-1 {
			if globalDebug {
				logf("fetch %s failed (attempt %d/%d): %v", location, i+1, l.attempts, err)
			}
			if err := l.sleep(ctx, l.delay*time.Duration(i+1)); err != nil {
				lastErr = err
				break
			}
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", location, lastErr)
}

func (l *Loader) fetchOnce(ctx context.Context, location string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.fetcher.Fetch(ctx, location)
}

// Load fetches and decodes req synchronously.
func (l *Loader) Load(ctx context.Context, req AssetRequest) AssetResult {
	res := AssetResult{AssetRequest: req, Location: l.resolver.Resolve(req.Name)}
	data, err := l.Fetch(ctx, req.Name)
	if err != nil {
		res.Err = err
		return res
	}
	img, err := decodeImage(req.Name, data)
	if err != nil {
		res.Err = fmt.Errorf("decode %s: %w", res.Location, err)
		return res
	}
	if req.Kind != AssetWall {
		res.Alpha = NewAlphaBuffer(img)
	}
	res.Image = fitTexture(img, l.maxSize)
	return res
}

// Start loads req on a new goroutine. The result is delivered to Poll.
func (l *Loader) Start(ctx context.Context, req AssetRequest) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		res := l.Load(ctx, req)
		select {
		case l.results <- res:
		case <-ctx.Done():
			l.mu.Lock()
			l.pending--
			l.mu.Unlock()
		}
	}()
}

// Poll returns every result that has arrived without blocking.
func (l *Loader) Poll() []AssetResult {
	var out []AssetResult
	for {
		select {
		case res := <-l.results:
			out = append(out, res)
		default:
			if len(out) > 0 {
				l.mu.Lock()
				l.pending -= len(out)
				l.mu.Unlock()
			}
			return out
		}
	}
}

// Pending returns the number of loads not yet collected by Poll.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until every started load has delivered or been cancelled.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// decodeImage decodes data by extension, falling back to sniffing the
// header. Decoders are called directly because the TGA format has no magic
// and would otherwise claim every image passed to image.Decode.
func decodeImage(name string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tga":
		return tga.Decode(r)
	}
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return png.Decode(r)
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte("GIF8")):
		return gif.Decode(r)
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webp.Decode(r)
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode(r)
	}
	return nil, fmt.Errorf("unknown image format")
}

// fitTexture downsamples img so neither side exceeds maxSize. Images already
// within bounds are returned as-is.
func fitTexture(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale))
	dh := max(1, int(float64(h)*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
