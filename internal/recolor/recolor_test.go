package recolor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockupImage builds a white-background image with a gray garment block in
// the middle, the shape a neutral product mockup decodes into.
func mockupImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.Set(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestIsWhiteBypass(t *testing.T) {
	assert.True(t, IsWhiteBypass("White", "#FFFFFF"))
	assert.True(t, IsWhiteBypass("white", "#000000"))
	assert.True(t, IsWhiteBypass("Snow", "#ffffff"))
	assert.True(t, IsWhiteBypass("Snow", "FFF"))
	assert.False(t, IsWhiteBypass("Black", "#000000"))
	assert.False(t, IsWhiteBypass("Off-White", "#FDFDFD"))
}

func TestRecolorImagePreservesLuminosity(t *testing.T) {
	e := NewEngine()
	target, err := colorful.Hex("#FF0000")
	require.NoError(t, err)

	out := e.RecolorImage(mockupImage(), target)

	// The mid-gray garment pixel keeps its brightness in the red channel
	c := out.NRGBAAt(10, 10)
	assert.Equal(t, uint8(128), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(255), c.A)
}

func TestRecolorImageLeavesBackgroundAlone(t *testing.T) {
	e := NewEngine()
	target, err := colorful.Hex("#0000FF")
	require.NoError(t, err)

	out := e.RecolorImage(mockupImage(), target)

	for _, p := range [][2]int{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {10, 1}} {
		c := out.NRGBAAt(p[0], p[1])
		assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c,
			"background pixel at %v must stay untouched", p)
	}
}

func TestRecolorImageNearBackgroundTolerance(t *testing.T) {
	img := mockupImage()
	// Slightly dirty background pixel, within the channel-diff threshold
	img.Set(2, 10, color.NRGBA{R: 245, G: 245, B: 245, A: 255})

	e := NewEngine()
	target, _ := colorful.Hex("#00FF00")
	out := e.RecolorImage(img, target)

	assert.Equal(t, uint8(245), out.NRGBAAt(2, 10).R,
		"near-background pixels classify as background")
}

func TestRecolorImageSkipsTransparentPixels(t *testing.T) {
	img := mockupImage()
	img.Set(10, 10, color.NRGBA{R: 128, G: 128, B: 128, A: 0})

	e := NewEngine()
	target, _ := colorful.Hex("#FF0000")
	out := e.RecolorImage(img, target)

	c := out.NRGBAAt(10, 10)
	assert.Equal(t, uint8(0), c.A)
	assert.Equal(t, uint8(128), c.G, "fully transparent pixels are not remapped")
}

func TestRecolorImageDoesNotModifyInput(t *testing.T) {
	img := mockupImage()
	e := NewEngine()
	target, _ := colorful.Hex("#FF0000")

	_ = e.RecolorImage(img, target)

	assert.Equal(t, uint8(128), img.NRGBAAt(10, 10).G)
}

func TestRecolorRoundTrip(t *testing.T) {
	e := NewEngine()
	src := encodePNG(t, mockupImage())

	out := e.Recolor(src, "1E90FF")

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	n := imaging.Clone(img)
	c := n.NRGBAAt(10, 10)
	assert.NotEqual(t, uint8(128), c.R, "garment pixels must shift toward the target")
}

func TestRecolorBadColorFallsBackToSource(t *testing.T) {
	e := NewEngine()
	src := encodePNG(t, mockupImage())

	out := e.Recolor(src, "not-a-color")
	assert.Equal(t, src, out)
}

func TestRecolorUndecodableSourceFallsBack(t *testing.T) {
	e := NewEngine()
	src := []byte("definitely not an image")

	out := e.Recolor(src, "#FF0000")
	assert.Equal(t, src, out)
}

func TestDetectBackgroundTinyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	r, g, b := detectBackground(img)
	assert.InDelta(t, 10, r, 0.001)
	assert.InDelta(t, 20, g, 0.001)
	assert.InDelta(t, 30, b, 0.001)
}

func TestDetectBackgroundIgnoresTransparentCorners(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	// Corners fully transparent, like a cut-out mockup
	r, g, b := detectBackground(img)
	assert.Equal(t, 255.0, r)
	assert.Equal(t, 255.0, g)
	assert.Equal(t, 255.0, b)
}

func TestCacheKeyNormalizesColor(t *testing.T) {
	src := []byte("mockup")
	assert.Equal(t, cacheKey(src, "#ff0000"), cacheKey(src, "FF0000"))
	assert.NotEqual(t, cacheKey(src, "#FF0000"), cacheKey(src, "#00FF00"))
	assert.NotEqual(t, cacheKey([]byte("a"), "#FF0000"), cacheKey([]byte("b"), "#FF0000"))
}

// mapCache is an in-memory Cache for exercising the hit/miss paths
type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.entries[key], nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func TestCachedEngineMissRecolorsAndStores(t *testing.T) {
	cache := newMapCache()
	ce := NewCachedEngine(NewEngine(), cache)
	src := encodePNG(t, mockupImage())

	out := ce.Recolor(src, "#FF0000")

	want := NewEngine().Recolor(src, "#FF0000")
	assert.Equal(t, want, out)
	assert.Len(t, cache.entries, 1)
	assert.Equal(t, out, cache.entries[cacheKey(src, "#FF0000")])
}

func TestCachedEngineHitSkipsRecolor(t *testing.T) {
	cache := newMapCache()
	ce := NewCachedEngine(NewEngine(), cache)
	src := encodePNG(t, mockupImage())

	sentinel := []byte("previously recolored")
	cache.entries[cacheKey(src, "#FF0000")] = sentinel

	out := ce.Recolor(src, "#FF0000")
	assert.Equal(t, sentinel, out, "a cached raster must be served as-is")
}

func TestCachedEngineDistinctColorsMissIndependently(t *testing.T) {
	cache := newMapCache()
	ce := NewCachedEngine(NewEngine(), cache)
	src := encodePNG(t, mockupImage())

	_ = ce.Recolor(src, "#FF0000")
	_ = ce.Recolor(src, "#00FF00")
	assert.Len(t, cache.entries, 2)
}
