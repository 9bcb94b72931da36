// Package placement manages where and how large a design transfer renders on
// a garment preview: four fixed anchors plus a free-form mode with
// pointer-driven drag and corner-handle resize.
package placement

// Placement identifies a named or free-form print location on a garment
type Placement string

const (
	Front       Placement = "front"
	Back        Placement = "back"
	BreastLeft  Placement = "breast-left"
	BreastRight Placement = "breast-right"
	Custom      Placement = "custom"
)

const (
	// ReferencePrintWidth is the usable print area width of a standard
	// garment front, in inches. Auto scale is the selected print width as a
	// fraction of this.
	ReferencePrintWidth = 13.0

	frontScaleCap  = 70.0
	breastScaleCap = 25.0
	customScaleCap = 95.0

	// Position percentages clamp to [10,90] per axis, scale to [15,95]
	minPosition = 10.0
	maxPosition = 90.0
	minScale    = 15.0
	maxScale    = 95.0
)

// Position is a point in percent of the preview container
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether p is one of the five known placements
func (p Placement) Valid() bool {
	switch p {
	case Front, Back, BreastLeft, BreastRight, Custom:
		return true
	}
	return false
}

// Anchor returns the fixed anchor center for a placement. Custom starts from
// the front anchor until the user drags it elsewhere.
func Anchor(p Placement) Position {
	switch p {
	case BreastLeft:
		return Position{X: 30, Y: 25}
	case BreastRight:
		return Position{X: 70, Y: 25}
	default:
		return Position{X: 50, Y: 30}
	}
}

// AutoScale derives the overlay scale percentage from the selected print
// width. Breast placements cap much smaller than chest placements.
func AutoScale(p Placement, printWidthIn float64) float64 {
	scale := printWidthIn / ReferencePrintWidth * 100
	cap := frontScaleCap
	switch p {
	case BreastLeft, BreastRight:
		cap = breastScaleCap
	case Custom:
		cap = customScaleCap
	}
	if scale > cap {
		scale = cap
	}
	if scale < 0 {
		scale = 0
	}
	return scale
}

// State holds the live placement of the design overlay. For non-custom
// placements position and scale are derived, never stored; for custom they
// are mutable and, once manually adjusted, frozen against automatic
// recomputation until custom mode is left and re-entered.
type State struct {
	placement    Placement
	printWidthIn float64
	position     Position
	scale        float64
	userAdjusted bool
	editing      bool
}

// NewState creates a placement state with the initial front placement
func NewState(printWidthIn float64) *State {
	return &State{
		placement:    Front,
		printWidthIn: printWidthIn,
	}
}

// Placement returns the active placement
func (s *State) Placement() Placement { return s.placement }

// Editing reports whether the custom editing sub-mode is active
func (s *State) Editing() bool { return s.editing }

// UserAdjusted reports whether the user has manually dragged or resized
func (s *State) UserAdjusted() bool { return s.userAdjusted }

// Position returns the overlay center in percent of the container
func (s *State) Position() Position {
	if s.placement == Custom {
		return s.position
	}
	return Anchor(s.placement)
}

// Scale returns the overlay width in percent of the container
func (s *State) Scale() float64 {
	if s.placement == Custom {
		return s.scale
	}
	return AutoScale(s.placement, s.printWidthIn)
}

// Select switches to a placement. Entering custom resets position and scale
// to their defaults, clears the adjusted flag and starts the editing
// sub-mode.
func (s *State) Select(p Placement) {
	if !p.Valid() {
		return
	}
	s.placement = p
	if p == Custom {
		s.position = Anchor(Custom)
		s.scale = AutoScale(Custom, s.printWidthIn)
		s.userAdjusted = false
		s.editing = true
	} else {
		s.editing = false
	}
}

// DoneEditing exits the custom editing sub-mode without changing placement
func (s *State) DoneEditing() { s.editing = false }

// SetPrintWidth reacts to a print size change. Custom scale is only
// recomputed while the user has not manually adjusted it.
func (s *State) SetPrintWidth(widthIn float64) {
	s.printWidthIn = widthIn
	if s.placement == Custom && !s.userAdjusted {
		s.scale = AutoScale(Custom, widthIn)
	}
}

// ApplyDrag accumulates a drag delta, in percent of the container, into the
// custom position. Only applies in the custom editing sub-mode.
func (s *State) ApplyDrag(dxPct, dyPct float64) {
	if s.placement != Custom || !s.editing {
		return
	}
	s.position.X = clampF(s.position.X+dxPct, minPosition, maxPosition)
	s.position.Y = clampF(s.position.Y+dyPct, minPosition, maxPosition)
	s.userAdjusted = true
}

// ApplyResize accumulates a horizontal resize delta, in percent of the
// container, into the custom scale. All four corner handles drive this same
// uniform-scale computation.
func (s *State) ApplyResize(dxPct float64) {
	if s.placement != Custom || !s.editing {
		return
	}
	s.scale = clampF(s.scale+dxPct, minScale, maxScale)
	s.userAdjusted = true
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
