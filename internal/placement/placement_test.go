package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchors(t *testing.T) {
	assert.Equal(t, Position{X: 50, Y: 30}, Anchor(Front))
	assert.Equal(t, Position{X: 50, Y: 30}, Anchor(Back))
	assert.Equal(t, Position{X: 30, Y: 25}, Anchor(BreastLeft))
	assert.Equal(t, Position{X: 70, Y: 25}, Anchor(BreastRight))
	assert.Equal(t, Position{X: 50, Y: 30}, Anchor(Custom))
}

func TestAutoScaleCaps(t *testing.T) {
	// 13in on a 13in reference would be 100%, capped per placement
	assert.Equal(t, 70.0, AutoScale(Front, 13))
	assert.Equal(t, 70.0, AutoScale(Back, 13))
	assert.Equal(t, 25.0, AutoScale(BreastLeft, 13))
	assert.Equal(t, 25.0, AutoScale(BreastRight, 13))
	assert.Equal(t, 95.0, AutoScale(Custom, 13))
}

func TestAutoScaleProportional(t *testing.T) {
	// 6.5in is half the reference width
	assert.InDelta(t, 50.0, AutoScale(Front, 6.5), 0.001)
	assert.InDelta(t, 25.0, AutoScale(BreastLeft, 6.5), 0.001)
}

func TestSelectInvalidPlacementIgnored(t *testing.T) {
	s := NewState(5)
	s.Select(Placement("sleeve"))
	assert.Equal(t, Front, s.Placement())
}

func TestNonCustomPositionIsDerived(t *testing.T) {
	s := NewState(5)
	s.Select(BreastRight)
	assert.Equal(t, Position{X: 70, Y: 25}, s.Position())
	assert.InDelta(t, 5.0/13.0*100, s.Scale(), 0.001)
}

func TestEnteringCustomResetsAndStartsEditing(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)

	assert.True(t, s.Editing())
	assert.False(t, s.UserAdjusted())
	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())
	assert.InDelta(t, 10.0/13.0*100, s.Scale(), 0.001)
}

func TestDragOnlyInCustomEditing(t *testing.T) {
	s := NewState(10)
	s.ApplyDrag(5, 5)
	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())

	s.Select(Custom)
	s.DoneEditing()
	s.ApplyDrag(5, 5)
	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())
}

func TestDragClampsPosition(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)

	s.ApplyDrag(-1000, 1000)
	assert.Equal(t, Position{X: 10, Y: 90}, s.Position())
	assert.True(t, s.UserAdjusted())
}

func TestResizeClampsScale(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)

	s.ApplyResize(-1000)
	assert.Equal(t, 15.0, s.Scale())

	s.ApplyResize(1000)
	assert.Equal(t, 95.0, s.Scale())
}

func TestUserAdjustedFreezesScaleAcrossPrintSizeChange(t *testing.T) {
	s := NewState(5)
	s.Select(Custom)
	s.ApplyResize(10)
	adjusted := s.Scale()

	s.SetPrintWidth(10)
	assert.Equal(t, adjusted, s.Scale(), "manual scale must survive a print size change")

	// Leaving and re-entering custom thaws it again
	s.Select(Front)
	s.Select(Custom)
	s.SetPrintWidth(12)
	assert.InDelta(t, 12.0/13.0*100, s.Scale(), 0.001)
}

func TestPrintSizeChangeRetunesUnadjustedCustomScale(t *testing.T) {
	s := NewState(5)
	s.Select(Custom)

	s.SetPrintWidth(10)
	assert.InDelta(t, 10.0/13.0*100, s.Scale(), 0.001)
}

func TestPointerDragConvertsPixelsToPercent(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	ps := NewPointerSession(s, Container{Width: 500, Height: 1000})

	ps.StartDrag(Point{X: 100, Y: 100})
	ps.Move(Point{X: 200, Y: 200})
	ps.End()

	// 100px of 500 wide is 20%, 100px of 1000 tall is 10%
	assert.InDelta(t, 70.0, s.Position().X, 0.001)
	assert.InDelta(t, 40.0, s.Position().Y, 0.001)
}

func TestPointerResizeUsesHorizontalDeltaOnly(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	before := s.Scale()
	ps := NewPointerSession(s, Container{Width: 1000, Height: 1000})

	ps.StartResize(Point{X: 500, Y: 500})
	ps.Move(Point{X: 600, Y: 900})
	ps.End()

	assert.InDelta(t, before+10, s.Scale(), 0.001)
}

func TestPointerMoveWithoutGestureIsNoOp(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	ps := NewPointerSession(s, Container{Width: 500, Height: 500})

	ps.Move(Point{X: 300, Y: 300})
	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())
}

func TestPointerUnmountedContainerIsNoOp(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	ps := NewPointerSession(s, Container{})

	ps.StartDrag(Point{X: 0, Y: 0})
	ps.Move(Point{X: 50, Y: 50})

	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())
	assert.False(t, s.UserAdjusted())
}

func TestMultiTouchIgnored(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	ps := NewPointerSession(s, Container{Width: 500, Height: 500})

	ps.StartDrag(Point{X: 100, Y: 100})
	ps.MoveTouch([]Point{{X: 150, Y: 150}, {X: 300, Y: 300}})
	assert.Equal(t, Position{X: 50, Y: 30}, s.Position())

	ps.MoveTouch([]Point{{X: 150, Y: 150}})
	assert.NotEqual(t, Position{X: 50, Y: 30}, s.Position())
}

func TestGestureLifecycle(t *testing.T) {
	s := NewState(10)
	s.Select(Custom)
	ps := NewPointerSession(s, Container{Width: 500, Height: 500})

	assert.Equal(t, GestureNone, ps.Gesture())
	ps.StartResize(Point{})
	assert.Equal(t, GestureResize, ps.Gesture())
	ps.End()
	assert.Equal(t, GestureNone, ps.Gesture())
}
