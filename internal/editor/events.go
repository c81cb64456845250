package editor

import (
	"github.com/rectshot/rectshot/internal/geometry"
)

// PointerAction is the kind of a pointer event.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerMove
	PointerRelease
	PointerDoubleClick
)

// PointerButton identifies which button a press/release refers to.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonRight
)

// PointerEvent is one pointer input delivered to the editor. Pos is in
// logical canvas coordinates. Touch widens the handle hit zones.
type PointerEvent struct {
	Action PointerAction
	Pos    geometry.Point
	Button PointerButton
	Touch  bool
}

// Key identifies the keys the editor reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
)

// Modifier is a bitmask of held modifier keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModAlt
)

// KeyEvent is one key press delivered to the editor.
type KeyEvent struct {
	Key       Key
	Modifiers Modifier
}
