// Package geom provides the normalized plane geometry shared by blueprint
// entities, detection validation, and scoring. All coordinates live on a
// fixed 1000x1000 canvas regardless of source image resolution, which keeps
// model output, ground truth, and rendered blueprints directly comparable.
package geom

import "math"

// Canvas bounds for normalized blueprint coordinates.
const (
	CanvasMin = 0.0
	CanvasMax = 1000.0
)

// Coordinates is a point on the normalized canvas. Values are validated at
// construction and never mutated afterwards.
type Coordinates struct {
	X float64
	Y float64
}

// NewCoordinates builds a point, rejecting components outside the canvas.
func NewCoordinates(x, y float64) (Coordinates, error) {
	if x < CanvasMin || x > CanvasMax {
		return Coordinates{}, &RangeError{Field: "x", Value: x, Min: CanvasMin, Max: CanvasMax}
	}
	if y < CanvasMin || y > CanvasMax {
		return Coordinates{}, &RangeError{Field: "y", Value: y, Min: CanvasMin, Max: CanvasMax}
	}
	return Coordinates{X: x, Y: y}, nil
}

// DistanceTo returns the Euclidean distance to other.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	dx := c.X - other.X
	dy := c.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Slice returns the point as the [x, y] pair used on the wire.
func (c Coordinates) Slice() []float64 {
	return []float64{c.X, c.Y}
}
