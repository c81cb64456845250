package editor

// Location classifies a pointer position relative to the selection: outside,
// inside, one of the eight handles, or nothing (idle). The original encoded
// groupings as enum bit tricks; here the enum is flat and the groupings are
// explicit predicates.
type Location int

const (
	LocationNone Location = iota
	LocationInside
	LocationOutside
	LocationTop
	LocationBottom
	LocationLeft
	LocationRight
	LocationTopLeft
	LocationTopRight
	LocationBottomLeft
	LocationBottomRight
)

func (l Location) String() string {
	switch l {
	case LocationNone:
		return "none"
	case LocationInside:
		return "inside"
	case LocationOutside:
		return "outside"
	case LocationTop:
		return "top"
	case LocationBottom:
		return "bottom"
	case LocationLeft:
		return "left"
	case LocationRight:
		return "right"
	case LocationTopLeft:
		return "top-left"
	case LocationTopRight:
		return "top-right"
	case LocationBottomLeft:
		return "bottom-left"
	case LocationBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// IsCorner reports whether l is one of the four corner handles.
func (l Location) IsCorner() bool {
	switch l {
	case LocationTopLeft, LocationTopRight, LocationBottomLeft, LocationBottomRight:
		return true
	}
	return false
}

// IsEdge reports whether l is one of the four edge handles.
func (l Location) IsEdge() bool {
	switch l {
	case LocationTop, LocationBottom, LocationLeft, LocationRight:
		return true
	}
	return false
}

// Cursor is the pointer shape a UI should show for a location.
type Cursor int

const (
	CursorCrosshair Cursor = iota // outside: draw a new selection
	CursorOpenHand                // inside: grab to move
	CursorSizeNWSE                // top-left / bottom-right diagonal resize
	CursorSizeNESW                // top-right / bottom-left diagonal resize
	CursorSizeVertical
	CursorSizeHorizontal
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorOpenHand:
		return "openhand"
	case CursorSizeNWSE:
		return "size-nwse"
	case CursorSizeNESW:
		return "size-nesw"
	case CursorSizeVertical:
		return "size-vertical"
	case CursorSizeHorizontal:
		return "size-horizontal"
	default:
		return "unknown"
	}
}

// CursorFor maps a location to its cursor shape.
func CursorFor(l Location) Cursor {
	switch l {
	case LocationTopLeft, LocationBottomRight:
		return CursorSizeNWSE
	case LocationTopRight, LocationBottomLeft:
		return CursorSizeNESW
	case LocationTop, LocationBottom:
		return CursorSizeVertical
	case LocationLeft, LocationRight:
		return CursorSizeHorizontal
	case LocationInside:
		return CursorOpenHand
	default:
		return CursorCrosshair
	}
}
