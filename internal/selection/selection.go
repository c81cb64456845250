// Package selection holds the user-drawn capture rectangle and the handle
// geometry derived from it. The rectangle is owned exclusively by the editor
// session; every mutation goes through Set* methods which notify observers
// synchronously.
package selection

import (
	"github.com/rectshot/rectshot/internal/geometry"
)

// Observer is called synchronously after every selection change.
type Observer func(geometry.Rect)

// Selection is the mutable capture rectangle in logical coordinates. It may
// be transiently inverted or zero-area while a drag is in progress;
// Normalized() is what gets committed.
type Selection struct {
	rect      geometry.Rect
	observers []Observer
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{}
}

// Subscribe registers an observer for rect changes.
func (s *Selection) Subscribe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Rect returns the raw rectangle, possibly inverted mid-drag.
func (s *Selection) Rect() geometry.Rect {
	return s.rect
}

// Normalized returns the rectangle with non-negative size.
func (s *Selection) Normalized() geometry.Rect {
	return s.rect.Normalized()
}

// IsEmpty reports whether the normalized selection has no area.
func (s *Selection) IsEmpty() bool {
	return s.rect.Normalized().IsEmpty()
}

// Contains reports whether p lies inside the normalized selection.
func (s *Selection) Contains(p geometry.Point) bool {
	return s.rect.Contains(p)
}

// SetRect replaces the rectangle and notifies observers if it changed.
func (s *Selection) SetRect(r geometry.Rect) {
	if s.rect == r {
		return
	}
	s.rect = r
	for _, fn := range s.observers {
		fn(s.rect)
	}
}

// Reset clears the selection to empty.
func (s *Selection) Reset() {
	s.SetRect(geometry.Rect{})
}
