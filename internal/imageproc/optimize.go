// Package imageproc holds the raster pipelines behind the image processing
// endpoints: artwork optimization and white-background removal.
package imageproc

import (
	"bytes"
	"image"

	"printcraft-service/internal/util"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// minOptimizeDim is the smallest edge below which artwork gets upscaled
	minOptimizeDim = 1200
	// maxOptimizeDim bounds the upscale so output stays manageable
	maxOptimizeDim = 2048
	// sharpenSigma controls the unsharp pass applied after any resize
	sharpenSigma = 0.8
)

// Optimize sharpens and, for small inputs, upscales customer artwork and
// re-encodes it as PNG. The second return reports whether enhancement
// succeeded; on any failure the original bytes come back untouched so the
// caller can degrade gracefully instead of erroring.
func Optimize(data []byte) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		util.GetLogger().Warn("Optimize: decode failed, passing original through", zap.Error(err))
		return data, false
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return data, false
	}

	out := img
	if w < minOptimizeDim && h < minOptimizeDim {
		longest := w
		if h > longest {
			longest = h
		}
		scale := float64(minOptimizeDim) / float64(longest)
		newW := int(float64(w) * scale)
		newH := int(float64(h) * scale)
		if newW > maxOptimizeDim {
			newW = maxOptimizeDim
		}
		if newH > maxOptimizeDim {
			newH = maxOptimizeDim
		}
		out = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}
	out = imaging.Sharpen(out, sharpenSigma)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		util.GetLogger().Warn("Optimize: encode failed, passing original through", zap.Error(err))
		return data, false
	}
	return buf.Bytes(), true
}

// DecodeDimensions returns the pixel size of an encoded image without
// decoding the full raster. Used to derive the 300 DPI size readout for a
// design asset.
func DecodeDimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
