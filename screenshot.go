package pulsar

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScreenshotDrawOrder places the capture after every other drawable,
// including the FPS overlay.
const ScreenshotDrawOrder = FPSDrawOrder + 1

// ScreenshotComponent writes the rendered frame to PNG files. Labels queued
// during Update are captured at the end of the next draw pass, one file per
// label, named <timestamp>_<label>.png.
type ScreenshotComponent struct {
	DrawableGameComponent

	// Dir is the output directory, created on demand.
	Dir string

	window *Window
	logger *slog.Logger
	queue  []string
	now    func() time.Time
	saved  Event[string]
}

// NewScreenshotComponent creates a component capturing w into the
// "screenshots" directory. A nil logger uses slog.Default.
func NewScreenshotComponent(w *Window, l *slog.Logger) *ScreenshotComponent {
	if l == nil {
		l = slog.Default()
	}
	c := &ScreenshotComponent{Dir: "screenshots", window: w, logger: l, now: time.Now}
	c.SetDrawOrder(ScreenshotDrawOrder)
	return c
}

// Queue asks for a capture of the next frame. Safe to call from Update or
// Draw.
func (c *ScreenshotComponent) Queue(label string) {
	c.queue = append(c.queue, label)
}

// Pending returns the number of queued captures.
func (c *ScreenshotComponent) Pending() int { return len(c.queue) }

// Saved fires with the path of every file written.
func (c *ScreenshotComponent) Saved() *Event[string] { return &c.saved }

// Draw captures the window target for every queued label.
func (c *ScreenshotComponent) Draw(GameTime) {
	if len(c.queue) == 0 {
		return
	}
	screen := c.window.Target()
	if screen == nil {
		c.logger.Warn("screenshot skipped, nothing rendered", "queued", len(c.queue))
		c.queue = c.queue[:0]
		return
	}
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	c.save(unpremultiply(pixels, b.Dx(), b.Dy()))
}

// save writes img once per queued label and clears the queue.
func (c *ScreenshotComponent) save(img image.Image) {
	defer func() { c.queue = c.queue[:0] }()

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		c.logger.Warn("screenshot directory unavailable", "dir", c.Dir, "err", err)
		return
	}
	stamp := c.now().Format("20060102_150405")
	for _, label := range c.queue {
		path := filepath.Join(c.Dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			c.logger.Warn("screenshot not written", "err", err)
			continue
		}
		c.logger.Info("screenshot saved", "path", path)
		c.saved.Emit(path)
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
