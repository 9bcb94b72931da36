package placement

// Gesture distinguishes what a pointer session is manipulating
type Gesture int

const (
	GestureNone Gesture = iota
	GestureDrag
	GestureResize
)

// Point is a pointer coordinate in container pixels
type Point struct {
	X float64
	Y float64
}

// Container is the pixel size of the preview container. A zero size means
// the container is not mounted yet and pointer moves are no-ops.
type Container struct {
	Width  float64
	Height float64
}

// PointerSession unifies mouse and single-finger touch input into one
// start/move/end gesture stream so drag and resize logic exists once.
// Releasing the pointer or leaving the container ends the gesture.
type PointerSession struct {
	state     *State
	container Container
	gesture   Gesture
	last      Point
}

// NewPointerSession creates a pointer session bound to a placement state
func NewPointerSession(state *State, container Container) *PointerSession {
	return &PointerSession{state: state, container: container}
}

// SetContainer updates the container size, e.g. after a layout change
func (ps *PointerSession) SetContainer(c Container) { ps.container = c }

// Gesture returns the gesture currently in progress
func (ps *PointerSession) Gesture() Gesture { return ps.gesture }

// StartDrag begins a translate gesture at the given pointer position
func (ps *PointerSession) StartDrag(p Point) {
	ps.gesture = GestureDrag
	ps.last = p
}

// StartResize begins a uniform-scale gesture from any corner handle. Which
// corner was grabbed does not matter: every handle drives the same
// horizontal-delta scale computation.
func (ps *PointerSession) StartResize(p Point) {
	ps.gesture = GestureResize
	ps.last = p
}

// Move feeds the next pointer position. Deltas between successive positions
// convert to percent-of-container offsets and accumulate into the placement
// state, clamped there.
func (ps *PointerSession) Move(p Point) {
	if ps.gesture == GestureNone {
		return
	}
	if ps.container.Width <= 0 || ps.container.Height <= 0 {
		return
	}

	dxPct := (p.X - ps.last.X) / ps.container.Width * 100
	dyPct := (p.Y - ps.last.Y) / ps.container.Height * 100

	switch ps.gesture {
	case GestureDrag:
		ps.state.ApplyDrag(dxPct, dyPct)
	case GestureResize:
		// Uniform scale from horizontal movement only.
		ps.state.ApplyResize(dxPct)
	}

	ps.last = p
}

// MoveTouch feeds a touch move. Only single-finger gestures manipulate the
// placement; multi-touch is ignored outright.
func (ps *PointerSession) MoveTouch(points []Point) {
	if len(points) != 1 {
		return
	}
	ps.Move(points[0])
}

// End finishes the active gesture (mouse-up, touch-end or pointer leave)
func (ps *PointerSession) End() {
	ps.gesture = GestureNone
}
