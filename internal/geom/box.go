package geom

import (
	"fmt"
	"math"
)

// BoundingBox is an axis-aligned rectangle on the normalized canvas,
// stored as [x_min, y_min, x_max, y_max] corners. Construction enforces
// canvas range and strictly positive extent on both axes.
type BoundingBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// NewBoundingBox builds a box from its corner coordinates. Each value must
// lie on the canvas and each minimum must be strictly below its maximum;
// zero-width and zero-height boxes are rejected.
func NewBoundingBox(xMin, yMin, xMax, yMax float64) (BoundingBox, error) {
	for _, v := range []struct {
		field string
		value float64
	}{
		{"x_min", xMin},
		{"y_min", yMin},
		{"x_max", xMax},
		{"y_max", yMax},
	} {
		if v.value < CanvasMin || v.value > CanvasMax {
			return BoundingBox{}, &RangeError{Field: v.field, Value: v.value, Min: CanvasMin, Max: CanvasMax}
		}
	}
	if xMin >= xMax {
		return BoundingBox{}, &GeometryError{MinField: "x_min", MinValue: xMin, MaxField: "x_max", MaxValue: xMax}
	}
	if yMin >= yMax {
		return BoundingBox{}, &GeometryError{MinField: "y_min", MinValue: yMin, MaxField: "y_max", MaxValue: yMax}
	}
	return BoundingBox{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}, nil
}

// BoundingBoxFromSlice builds a box from a [x_min, y_min, x_max, y_max]
// wire slice.
func BoundingBoxFromSlice(vals []float64) (BoundingBox, error) {
	if len(vals) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box needs exactly 4 values, got %d", len(vals))
	}
	return NewBoundingBox(vals[0], vals[1], vals[2], vals[3])
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.YMax - b.YMin }

// Area returns width times height.
func (b BoundingBox) Area() float64 { return b.Width() * b.Height() }

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Coordinates {
	return Coordinates{X: (b.XMin + b.XMax) / 2, Y: (b.YMin + b.YMax) / 2}
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(p Coordinates) bool {
	return p.X >= b.XMin && p.X <= b.XMax && p.Y >= b.YMin && p.Y <= b.YMax
}

// Slice returns the box as the [x_min, y_min, x_max, y_max] form used on
// the wire.
func (b BoundingBox) Slice() []float64 {
	return []float64{b.XMin, b.YMin, b.XMax, b.YMax}
}

// IoU computes intersection over union between two boxes.
//
// Boxes that only touch along an edge or corner have zero intersection
// area and score 0.0. A zero union (only possible with degenerate boxes,
// which constructors reject) also scores 0.0 rather than dividing by zero.
// The result is symmetric and IoU(b, b) is 1.0 for any valid box.
func IoU(a, b BoundingBox) float64 {
	ix1 := math.Max(a.XMin, b.XMin)
	iy1 := math.Max(a.YMin, b.YMin)
	ix2 := math.Min(a.XMax, b.XMax)
	iy2 := math.Min(a.YMax, b.YMax)

	if ix2 <= ix1 || iy2 <= iy1 {
		return 0.0
	}

	intersection := (ix2 - ix1) * (iy2 - iy1)
	union := a.Area() + b.Area() - intersection
	if union == 0 {
		return 0.0
	}
	return intersection / union
}
