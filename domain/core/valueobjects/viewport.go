package valueobjects

import (
	pkgerrors "canvas-backend/pkg/errors"
)

// Viewport is a value object describing the visible region of a canvas
type Viewport struct {
	x    float64
	y    float64
	zoom float64
}

// NewViewport creates a viewport with validation
func NewViewport(x, y, zoom float64) (Viewport, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) || !isValidCoordinate(zoom) {
		return Viewport{}, pkgerrors.NewValidationError("invalid viewport: values must be finite numbers")
	}
	if zoom <= 0 {
		return Viewport{}, pkgerrors.NewValidationError("invalid viewport: zoom must be positive")
	}
	return Viewport{x: x, y: y, zoom: zoom}, nil
}

// DefaultViewport returns an unzoomed viewport at the origin
func DefaultViewport() Viewport {
	return Viewport{x: 0, y: 0, zoom: 1}
}

// X returns the viewport X offset
func (v Viewport) X() float64 {
	return v.x
}

// Y returns the viewport Y offset
func (v Viewport) Y() float64 {
	return v.y
}

// Zoom returns the zoom factor
func (v Viewport) Zoom() float64 {
	return v.zoom
}

// Equals checks if two viewports are equal
func (v Viewport) Equals(other Viewport) bool {
	return v.x == other.x && v.y == other.y && v.zoom == other.zoom
}
