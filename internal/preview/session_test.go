package preview

import (
	"sync"
	"testing"
	"time"

	"printcraft-service/internal/models"
	"printcraft-service/internal/placement"
	"printcraft-service/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hexRecolorer returns the target hex as the "image" so tests can tell which
// color produced a slot's raster. Gated hexes block until released, to
// simulate slow recolors still in flight.
type hexRecolorer struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls int
}

func newHexRecolorer() *hexRecolorer {
	return &hexRecolorer{gates: make(map[string]chan struct{})}
}

func (r *hexRecolorer) gate(hex string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{})
	r.gates[hex] = ch
	return ch
}

func (r *hexRecolorer) Recolor(src []byte, hex string) []byte {
	r.mu.Lock()
	gate := r.gates[hex]
	r.calls++
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return []byte(hex)
}

func (r *hexRecolorer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type recordingCallbacks struct {
	completed *models.ProductConfiguration
	cancelled bool
	changed   bool
}

func (c *recordingCallbacks) ConfigurationComplete(cfg *models.ProductConfiguration) {
	c.completed = cfg
}
func (c *recordingCallbacks) Cancel()        { c.cancelled = true }
func (c *recordingCallbacks) ChangeGarment() { c.changed = true }

func testGarment() *models.Garment {
	return &models.Garment{ID: 7, Name: "Classic Tee", BasePrice: 1500}
}

func newTestSession(rec Recolorer, cb Callbacks) *Session {
	sources := [][]byte{[]byte("front-src"), []byte("back-src")}
	return NewSession(testGarment(), sources, rec, cb)
}

func TestSessionDefaults(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)

	assert.Equal(t, "White", s.Color().Name)
	assert.Equal(t, placement.Front, s.Placement().Placement())
	assert.Equal(t, []byte("front-src"), s.Image(0))
	assert.Equal(t, []byte("back-src"), s.Image(1))

	q := s.Quote()
	assert.Equal(t, int64(85), q.Total, "defaults to one 5x5 transfer")
}

func TestSelectColorRecolorsEverySlot(t *testing.T) {
	rec := newHexRecolorer()
	s := newTestSession(rec, nil)

	s.SelectColor(models.GarmentColor{Name: "Black", HexColor: "#000000"})

	require.Eventually(t, func() bool {
		return !s.Pending(0) && !s.Pending(1)
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []byte("#000000"), s.Image(0))
	assert.Equal(t, []byte("#000000"), s.Image(1))
	assert.Equal(t, 2, rec.callCount())
}

func TestSelectColorWhiteBypassRestoresSources(t *testing.T) {
	rec := newHexRecolorer()
	s := newTestSession(rec, nil)

	s.SelectColor(models.GarmentColor{Name: "Black", HexColor: "#000000"})
	require.Eventually(t, func() bool { return !s.Pending(0) }, time.Second, 5*time.Millisecond)

	s.SelectColor(models.GarmentColor{Name: "White", HexColor: "#FFFFFF"})

	assert.Equal(t, []byte("front-src"), s.Image(0))
	assert.Equal(t, []byte("back-src"), s.Image(1))
	assert.False(t, s.Pending(0))
	assert.Equal(t, 2, rec.callCount(), "white must not trigger recolors")
}

func TestStaleRecolorResultIsDropped(t *testing.T) {
	rec := newHexRecolorer()
	s := newTestSession(rec, nil)

	slow := rec.gate("#000000")
	s.SelectColor(models.GarmentColor{Name: "Black", HexColor: "#000000"})
	s.SelectColor(models.GarmentColor{Name: "Red", HexColor: "#FF0000"})

	require.Eventually(t, func() bool {
		return string(s.Image(0)) == "#FF0000"
	}, time.Second, 5*time.Millisecond)

	// The older color's recolor finishes after the newer one and must lose
	close(slow)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []byte("#FF0000"), s.Image(0))
	assert.Equal(t, []byte("#FF0000"), s.Image(1))
}

func TestPendingKeepsPreviousImage(t *testing.T) {
	rec := newHexRecolorer()
	s := newTestSession(rec, nil)

	gate := rec.gate("#0000FF")
	s.SelectColor(models.GarmentColor{Name: "Blue", HexColor: "#0000FF"})

	assert.True(t, s.Pending(0))
	assert.Equal(t, []byte("front-src"), s.Image(0), "in-flight slots show the previous raster")

	close(gate)
	require.Eventually(t, func() bool { return !s.Pending(0) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte("#0000FF"), s.Image(0))
}

func TestImageOutOfRange(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	assert.Nil(t, s.Image(-1))
	assert.Nil(t, s.Image(9))
	assert.False(t, s.Pending(9))
}

func TestQuoteUsesScaleOverrideOnlyAfterManualResize(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	s.SetPrintSize(pricing.PresetSelection("10x10"))

	s.SelectPlacement(placement.Custom)
	auto := s.Quote()
	assert.Equal(t, int64(185), auto.UnitBase, "auto scale must not reprice")

	s.SetContainer(placement.Container{Width: 1000, Height: 1000})
	s.StartResize(placement.Point{X: 500, Y: 500})
	s.MovePointer(placement.Point{X: 250, Y: 500})
	s.EndGesture()

	adjusted := s.Quote()
	assert.Less(t, adjusted.UnitBase, auto.UnitBase,
		"shrinking the overlay must lower the priced area")
	assert.GreaterOrEqual(t, adjusted.UnitBase, int64(pricing.MinTransferPrice))
}

func TestCustomizationFlow(t *testing.T) {
	cb := &recordingCallbacks{}
	rec := newHexRecolorer()
	s := newTestSession(rec, cb)

	s.SelectColor(models.GarmentColor{Name: "Black", HexColor: "#000000"})
	require.Eventually(t, func() bool { return !s.Pending(0) }, time.Second, 5*time.Millisecond)

	s.SelectPlacement(placement.Custom)
	s.SetContainer(placement.Container{Width: 500, Height: 1000})

	s.StartDrag(placement.Point{X: 100, Y: 100})
	s.MovePointer(placement.Point{X: 200, Y: 200})
	s.EndGesture()

	s.StartResize(placement.Point{X: 0, Y: 0})
	s.MovePointer(placement.Point{X: 50, Y: 0})
	s.EndGesture()

	require.True(t, s.Placement().UserAdjusted())
	scaleBefore := s.Placement().Scale()

	// A print size change must not disturb the manually tuned overlay
	s.SetPrintSize(pricing.PresetSelection("10x10"))
	assert.Equal(t, scaleBefore, s.Placement().Scale())

	s.SetGarmentSize("L")
	s.SetGarmentQuantity(2)
	s.SetTransferQuantity(15)

	cfg := s.AddToCart()
	require.NotNil(t, cb.completed)
	assert.Equal(t, cfg, cb.completed)

	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, int64(7), cfg.GarmentID)
	assert.Equal(t, "Black", cfg.ColorName)
	assert.Equal(t, "custom", cfg.Placement)
	assert.Equal(t, "10x10", cfg.PrintSize)
	assert.Equal(t, "L", cfg.GarmentSize)
	assert.Equal(t, 2, cfg.GarmentQuantity)
	assert.Equal(t, 15, cfg.TransferQuantity)
	assert.InDelta(t, 70, cfg.PositionX, 0.001)
	assert.InDelta(t, 40, cfg.PositionY, 0.001)
	assert.Equal(t, scaleBefore, cfg.Scale)
	assert.Equal(t, cfg.TransferUnit*15, cfg.TransferTotal)

	assert.Equal(t, cfg.TransferTotal+2*1500, cfg.GrandTotal())
}

func TestAddToCartAnchorPlacementOmitsCustomGeometry(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	s.SelectPlacement(placement.BreastLeft)

	cfg := s.AddToCart()
	assert.Equal(t, "breast-left", cfg.Placement)
	assert.Zero(t, cfg.PositionX)
	assert.Zero(t, cfg.PositionY)
	assert.Zero(t, cfg.Scale)
}

func TestGrandTotalAddsGarmentSubtotal(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	s.SetGarmentQuantity(3)

	// One 5x5 transfer plus three garments at 1500
	assert.Equal(t, int64(85+3*1500), s.GrandTotal())
}

func TestCancelAndChangeGarmentForward(t *testing.T) {
	cb := &recordingCallbacks{}
	s := newTestSession(newHexRecolorer(), cb)

	s.Cancel()
	s.ChangeGarment()
	assert.True(t, cb.cancelled)
	assert.True(t, cb.changed)
}

func TestGestureLifecycleThroughSession(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	s.SelectPlacement(placement.Custom)
	s.SetContainer(placement.Container{Width: 500, Height: 500})

	assert.Equal(t, placement.GestureNone, s.Gesture())

	s.StartDrag(placement.Point{X: 100, Y: 100})
	assert.Equal(t, placement.GestureDrag, s.Gesture())

	s.MovePointer(placement.Point{X: 150, Y: 150})
	s.EndGesture()
	assert.Equal(t, placement.GestureNone, s.Gesture())

	pos := s.Placement().Position()
	assert.InDelta(t, 60, pos.X, 0.001)
	assert.InDelta(t, 40, pos.Y, 0.001)
}

func TestPointerAndQuoteInterleaveSafely(t *testing.T) {
	s := newTestSession(newHexRecolorer(), nil)
	s.SelectPlacement(placement.Custom)
	s.SetContainer(placement.Container{Width: 1000, Height: 1000})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.StartDrag(placement.Point{})
		for i := 0; i < 50; i++ {
			s.MovePointer(placement.Point{X: float64(i), Y: float64(i)})
		}
		s.EndGesture()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = s.Quote()
		}
	}()
	wg.Wait()

	q := s.Quote()
	assert.GreaterOrEqual(t, q.UnitBase, int64(pricing.MinTransferPrice))
}
