package recolor

import (
	"bytes"
	"image"
	"math"
	"strings"
	"time"

	"printcraft-service/internal/util"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

const (
	// cornerSample is the edge length of the block sampled from each corner
	// when detecting the background color
	cornerSample = 5
	// bgSampleAlpha is the minimum alpha for a corner sample to count as
	// part of the background
	bgSampleAlpha = 200
	// bgThreshold is the max sum of absolute per-channel differences from
	// the background color for a pixel to classify as background
	bgThreshold = 60
	// minVisibleAlpha is the minimum alpha for a pixel to be remapped at all
	minVisibleAlpha = 10
)

// Engine recolors neutral garment mockups to a target color while preserving
// the shading and texture baked into the source image. Hue is substituted
// per pixel by scaling the target color with the source pixel's luminosity;
// background and transparent pixels are left untouched.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new recolor engine
func NewEngine() *Engine {
	return &Engine{logger: util.GetLogger()}
}

// IsWhiteBypass reports whether the selected color should skip the recolor
// pipeline entirely. Source mockups are authored on a white base, so pure
// white means the originals are already correct.
func IsWhiteBypass(name, hex string) bool {
	if strings.EqualFold(strings.TrimSpace(name), "white") {
		return true
	}
	h := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	return h == "FFFFFF" || h == "FFF"
}

// Recolor decodes src, remaps it to targetHex and re-encodes it as PNG.
// Any decode, parse or encode failure falls back to the unmodified source
// bytes; the preview must keep showing something, never a blank frame.
func (e *Engine) Recolor(src []byte, targetHex string) []byte {
	start := time.Now()
	defer func() {
		util.RecolorDuration.Observe(time.Since(start).Seconds())
	}()

	target, err := colorful.Hex(normalizeHex(targetHex))
	if err != nil {
		util.RecolorTotal.WithLabelValues("bad_color").Inc()
		e.logger.Warn("Invalid target color, serving original image",
			zap.String("hex", targetHex),
			zap.Error(err))
		return src
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		util.RecolorTotal.WithLabelValues("decode_error").Inc()
		e.logger.Warn("Failed to decode garment image, serving original",
			zap.Error(err))
		return src
	}

	out := e.RecolorImage(img, target)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		util.RecolorTotal.WithLabelValues("encode_error").Inc()
		e.logger.Warn("Failed to encode recolored image, serving original",
			zap.Error(err))
		return src
	}

	util.RecolorTotal.WithLabelValues("ok").Inc()
	return buf.Bytes()
}

// RecolorImage remaps a decoded image to the target color. The returned
// image is always a fresh NRGBA buffer; the input is not modified.
func (e *Engine) RecolorImage(img image.Image, target colorful.Color) *image.NRGBA {
	out := imaging.Clone(img)

	bgR, bgG, bgB := detectBackground(out)
	tR := target.R * 255
	tG := target.G * 255
	tB := target.B * 255

	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		a := pix[i+3]
		if a < minVisibleAlpha {
			continue
		}
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])

		if isBackground(r, g, b, bgR, bgG, bgB) {
			continue
		}

		// Luminosity-preserving substitution: keep the shading, swap the hue.
		f := (0.299*r + 0.587*g + 0.114*b) / 255
		pix[i] = clamp8(tR * f)
		pix[i+1] = clamp8(tG * f)
		pix[i+2] = clamp8(tB * f)
	}

	return out
}

// detectBackground averages opaque pixels from a 5x5 block in each corner.
// Falls back to white when no corner pixel qualifies.
func detectBackground(img *image.NRGBA) (r, g, b float64) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	n := cornerSample
	if n > w {
		n = w
	}
	if n > h {
		n = h
	}

	var sumR, sumG, sumB float64
	var count int
	corners := [4][2]int{
		{0, 0},
		{w - n, 0},
		{0, h - n},
		{w - n, h - n},
	}

	for _, c := range corners {
		for dy := 0; dy < n; dy++ {
			for dx := 0; dx < n; dx++ {
				i := img.PixOffset(img.Rect.Min.X+c[0]+dx, img.Rect.Min.Y+c[1]+dy)
				if img.Pix[i+3] <= bgSampleAlpha {
					continue
				}
				sumR += float64(img.Pix[i])
				sumG += float64(img.Pix[i+1])
				sumB += float64(img.Pix[i+2])
				count++
			}
		}
	}

	if count == 0 {
		return 255, 255, 255
	}
	return sumR / float64(count), sumG / float64(count), sumB / float64(count)
}

func isBackground(r, g, b, bgR, bgG, bgB float64) bool {
	return math.Abs(r-bgR)+math.Abs(g-bgG)+math.Abs(b-bgB) < bgThreshold
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func normalizeHex(hex string) string {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return hex
}
