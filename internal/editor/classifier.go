package editor

import (
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/selection"
)

const (
	// Border strips become draggable only when the selection is at least
	// this big on both axes; smaller selections are easier to move than to
	// edge-resize.
	selectionSizeThreshold = 100

	borderDragAreaSize = 10
)

var handleLocations = [...]Location{
	selection.HandleTopLeft:     LocationTopLeft,
	selection.HandleTopRight:    LocationTopRight,
	selection.HandleBottomRight: LocationBottomRight,
	selection.HandleBottomLeft:  LocationBottomLeft,
	selection.HandleTop:         LocationTop,
	selection.HandleRight:       LocationRight,
	selection.HandleBottom:      LocationBottom,
	selection.HandleLeft:        LocationLeft,
}

// Classify maps a pointer position to a Location. Priority is deliberate:
// handle hit zones shadow border strips, border strips shadow the interior.
// Corners are tested before edges so overlapping zones resolve to the corner.
func Classify(pos geometry.Point, sel geometry.Rect, handles selection.Handles) Location {
	rect := sel.Normalized()
	if rect.IsEmpty() {
		// No selection, nothing to grab.
		return LocationOutside
	}

	if i := handles.Hit(pos); i >= 0 {
		return handleLocations[i]
	}

	if rect.W >= selectionSizeThreshold && rect.H >= selectionSizeThreshold {
		if rect.Adjusted(0, 0, 0, -rect.H+borderDragAreaSize).Contains(pos) {
			return LocationTop
		}
		if rect.Adjusted(0, rect.H-borderDragAreaSize, 0, 0).Contains(pos) {
			return LocationBottom
		}
		if rect.Adjusted(0, 0, -rect.W+borderDragAreaSize, 0).Contains(pos) {
			return LocationLeft
		}
		if rect.Adjusted(rect.W-borderDragAreaSize, 0, 0, 0).Contains(pos) {
			return LocationRight
		}
	}
	if rect.Contains(pos) {
		return LocationInside
	}
	return LocationOutside
}
