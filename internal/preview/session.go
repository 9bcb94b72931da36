// Package preview wires the recolor, placement and pricing engines into one
// customization session: the state behind an open product preview, from
// color selection through "Add to Cart".
package preview

import (
	"sync"
	"time"

	"printcraft-service/internal/models"
	"printcraft-service/internal/placement"
	"printcraft-service/internal/pricing"
	"printcraft-service/internal/recolor"
	"printcraft-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recolorer produces a colorized raster from a neutral source raster.
// recolor.Engine satisfies this.
type Recolorer interface {
	Recolor(src []byte, targetHex string) []byte
}

// Callbacks is the command interface the preview reports through
type Callbacks interface {
	ConfigurationComplete(cfg *models.ProductConfiguration)
	Cancel()
	ChangeGarment()
}

// imageSlot tracks one garment view. current keeps the previously displayed
// raster while a recolor for this slot is still in flight, so the preview
// never shows a blank frame.
type imageSlot struct {
	source  []byte
	current []byte
	pending bool
}

// Session is the UI-session-scoped customization state for one garment
// preview. Created when the preview opens, discarded when it closes or the
// configuration is handed to the cart.
type Session struct {
	mu sync.Mutex

	garment *models.Garment
	slots   []imageSlot

	// colorGen tags every recolor batch with the color change that started
	// it. Results arriving after a newer color change carry a stale tag and
	// are dropped; nothing is cancelled mid-flight.
	colorGen uint64
	color    models.GarmentColor

	state   *placement.State
	pointer *placement.PointerSession

	size        pricing.SizeSelection
	transferQty int
	garmentSize string
	garmentQty  int
	asset       *models.DesignAsset

	recolorer Recolorer
	callbacks Callbacks
	logger    *zap.Logger
}

// NewSession opens a customization session. sources are the decoded-from-URL
// raster bytes of the garment's images, in catalog order, authored as
// white-base mockups.
func NewSession(garment *models.Garment, sources [][]byte, rec Recolorer, cb Callbacks) *Session {
	slots := make([]imageSlot, len(sources))
	for i, src := range sources {
		slots[i] = imageSlot{source: src, current: src}
	}

	size := pricing.PresetSelection("5x5")
	state := placement.NewState(size.WidthIn)

	s := &Session{
		garment:     garment,
		slots:       slots,
		color:       models.GarmentColor{Name: "White", HexColor: "#FFFFFF", Available: true},
		state:       state,
		size:        size,
		transferQty: 1,
		garmentQty:  1,
		recolorer:   rec,
		callbacks:   cb,
		logger:      util.GetLogger(),
	}
	s.pointer = placement.NewPointerSession(state, placement.Container{})
	return s
}

// SetContainer tells the pointer session the preview container's pixel size
func (s *Session) SetContainer(c placement.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.SetContainer(c)
}

// StartDrag begins a translate gesture at the given pointer position
func (s *Session) StartDrag(p placement.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.StartDrag(p)
}

// StartResize begins a uniform-scale gesture from any corner handle
func (s *Session) StartResize(p placement.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.StartResize(p)
}

// MovePointer feeds the next mouse pointer position into the active gesture
func (s *Session) MovePointer(p placement.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.Move(p)
}

// MoveTouch feeds a touch move; multi-touch is ignored
func (s *Session) MoveTouch(points []placement.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.MoveTouch(points)
}

// EndGesture finishes the active gesture (mouse-up, touch-end or leave)
func (s *Session) EndGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer.End()
}

// Gesture returns the gesture currently in progress
func (s *Session) Gesture() placement.Gesture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer.Gesture()
}

// Placement exposes the placement state for reading derived position and
// scale. Mutations go through the session methods, which hold the lock.
func (s *Session) Placement() *placement.State { return s.state }

// Color returns the currently selected garment color
func (s *Session) Color() models.GarmentColor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// SelectColor switches the garment color and regenerates every garment image
// asynchronously. All images are requested concurrently; each completion
// replaces only its own slot, with no barrier across slots. Pure white
// bypasses regeneration and restores the source mockups.
func (s *Session) SelectColor(c models.GarmentColor) {
	s.mu.Lock()
	s.color = c
	s.colorGen++
	gen := s.colorGen

	if recolor.IsWhiteBypass(c.Name, c.HexColor) {
		for i := range s.slots {
			s.slots[i].current = s.slots[i].source
			s.slots[i].pending = false
		}
		s.mu.Unlock()
		return
	}

	for i := range s.slots {
		s.slots[i].pending = true
	}
	sources := make([][]byte, len(s.slots))
	for i := range s.slots {
		sources[i] = s.slots[i].source
	}
	hex := c.HexColor
	s.mu.Unlock()

	for i := range sources {
		go func(idx int, src []byte) {
			out := s.recolorer.Recolor(src, hex)
			s.applyRecolor(gen, idx, out)
		}(i, sources[i])
	}
}

// applyRecolor installs a finished recolor result unless the selected color
// changed while it was in flight.
func (s *Session) applyRecolor(gen uint64, idx int, out []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.colorGen {
		util.RecolorStaleDropped.Inc()
		s.logger.Debug("Dropping stale recolor result",
			zap.Int("image", idx),
			zap.Uint64("generation", gen))
		return
	}
	s.slots[idx].current = out
	s.slots[idx].pending = false
}

// Image returns the raster currently displayed for a garment view. While a
// recolor is pending this is the previous image, never nil.
func (s *Session) Image(idx int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return nil
	}
	return s.slots[idx].current
}

// Pending reports whether a garment view is awaiting its recolor
func (s *Session) Pending(idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return false
	}
	return s.slots[idx].pending
}

// SelectPlacement switches the print placement
func (s *Session) SelectPlacement(p placement.Placement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Select(p)
}

// DoneEditing exits the custom editing sub-mode
func (s *Session) DoneEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DoneEditing()
}

// SetPrintSize switches the transfer size selection and lets the placement
// state recompute its automatic scale where allowed
func (s *Session) SetPrintSize(sel pricing.SizeSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = sel
	s.state.SetPrintWidth(sel.WidthIn)
}

// SetTransferQuantity sets the DTF transfer unit count
func (s *Session) SetTransferQuantity(qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty < 1 {
		qty = 1
	}
	s.transferQty = qty
}

// SetGarmentSize selects the garment size
func (s *Session) SetGarmentSize(size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.garmentSize = size
}

// SetGarmentQuantity sets the garment count
func (s *Session) SetGarmentQuantity(qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty < 1 {
		qty = 1
	}
	s.garmentQty = qty
}

// SetDesignAsset attaches the customer's artwork
func (s *Session) SetDesignAsset(asset *models.DesignAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asset = asset
}

// Quote computes the live transfer price. In custom placement, once the user
// has manually resized, the visual scale overrides the priced area.
func (s *Session) Quote() pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteLocked()
}

func (s *Session) quoteLocked() pricing.Quote {
	var override float64
	if s.state.Placement() == placement.Custom && s.state.UserAdjusted() {
		override = s.state.Scale()
	}
	return pricing.ComputeTransferPrice(s.size, s.transferQty, override)
}

// GrandTotal is the live transfer total plus the garment subtotal
func (s *Session) GrandTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.quoteLocked()
	return q.Total + s.garment.BasePrice*int64(s.garmentQty)
}

// AddToCart resolves the session into an immutable ProductConfiguration and
// hands it to the ConfigurationComplete callback.
func (s *Session) AddToCart() *models.ProductConfiguration {
	s.mu.Lock()

	quote := s.quoteLocked()
	cfg := &models.ProductConfiguration{
		ID:               uuid.New().String(),
		GarmentID:        s.garment.ID,
		GarmentName:      s.garment.Name,
		GarmentBasePrice: s.garment.BasePrice,
		ColorName:        s.color.Name,
		ColorHex:         s.color.HexColor,
		GarmentSize:      s.garmentSize,
		GarmentQuantity:  s.garmentQty,
		PrintSize:        s.size.Label(),
		Placement:        string(s.state.Placement()),
		TransferQuantity: s.transferQty,
		TransferUnit:     quote.UnitPrice,
		TransferTotal:    quote.Total,
		CreatedAt:        time.Now(),
	}
	if s.asset != nil {
		cfg.DesignAssetID = s.asset.ID
	}
	if s.state.Placement() == placement.Custom {
		pos := s.state.Position()
		cfg.PositionX = pos.X
		cfg.PositionY = pos.Y
		cfg.Scale = s.state.Scale()
	}
	s.mu.Unlock()

	if s.callbacks != nil {
		s.callbacks.ConfigurationComplete(cfg)
	}
	return cfg
}

// Cancel closes the preview without producing a configuration
func (s *Session) Cancel() {
	if s.callbacks != nil {
		s.callbacks.Cancel()
	}
}

// ChangeGarment asks the host view to swap the garment under customization
func (s *Session) ChangeGarment() {
	if s.callbacks != nil {
		s.callbacks.ChangeGarment()
	}
}
