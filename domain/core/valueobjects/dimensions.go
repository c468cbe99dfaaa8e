package valueobjects

import (
	pkgerrors "canvas-backend/pkg/errors"
)

// Default card dimensions used whenever a node has not been measured yet.
const (
	DefaultCardWidth  = 300.0
	DefaultCardHeight = 150.0
)

// Dimensions is a value object holding a node's measured width and height.
// The zero value means "not measured"; consumers resolve it with OrDefault.
type Dimensions struct {
	width  float64
	height float64
}

// NewDimensions creates measured dimensions with validation
func NewDimensions(width, height float64) (Dimensions, error) {
	if !isValidCoordinate(width) || !isValidCoordinate(height) {
		return Dimensions{}, pkgerrors.NewValidationError("invalid dimensions: must be finite numbers")
	}
	if width < 0 || height < 0 {
		return Dimensions{}, pkgerrors.NewValidationError("invalid dimensions: must not be negative")
	}
	return Dimensions{width: width, height: height}, nil
}

// Width returns the measured width, 0 if unmeasured
func (d Dimensions) Width() float64 {
	return d.width
}

// Height returns the measured height, 0 if unmeasured
func (d Dimensions) Height() float64 {
	return d.height
}

// IsZero checks if the node has not been measured
func (d Dimensions) IsZero() bool {
	return d.width == 0 && d.height == 0
}

// OrDefault resolves unmeasured dimensions to the fixed card defaults
func (d Dimensions) OrDefault() Dimensions {
	if d.IsZero() {
		return Dimensions{width: DefaultCardWidth, height: DefaultCardHeight}
	}
	return d
}
