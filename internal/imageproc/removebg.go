package imageproc

import (
	"bytes"

	"printcraft-service/internal/util"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// whiteThreshold is the per-channel floor above which a pixel counts as
// near-white background
const whiteThreshold = 240

// RemoveWhiteBackground converts near-white pixels to fully transparent and
// re-encodes as PNG with an alpha channel. The second return reports
// success; on failure the original bytes come back so the caller degrades
// instead of erroring.
func RemoveWhiteBackground(data []byte) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		util.GetLogger().Warn("RemoveWhiteBackground: decode failed, passing original through", zap.Error(err))
		return data, false
	}

	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] > whiteThreshold && pix[i+1] > whiteThreshold && pix[i+2] > whiteThreshold {
			pix[i+3] = 0
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		util.GetLogger().Warn("RemoveWhiteBackground: encode failed, passing original through", zap.Error(err))
		return data, false
	}
	return buf.Bytes(), true
}
