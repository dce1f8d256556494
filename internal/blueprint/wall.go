package blueprint

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/blueplan/roomsight/internal/geom"
)

// DefaultWallThickness is the stroke width used when a wall record does not
// carry an explicit thickness.
const DefaultWallThickness = 5.0

// MaxWallThickness caps wall thickness in normalized units. Anything wider
// is assumed to be a data error rather than a real wall.
const MaxWallThickness = 50.0

// axisTolerance is the slack allowed when classifying a wall as horizontal
// or vertical. Generated layouts are axis-aligned but traced ones drift.
const axisTolerance = 0.01

// Wall is a straight wall segment between two canvas points.
type Wall struct {
	ID          string
	Start       geom.Coordinates
	End         geom.Coordinates
	Thickness   float64
	LoadBearing bool
}

// NewWall builds a wall segment, rejecting non-positive or implausibly
// large thickness values.
func NewWall(id string, start, end geom.Coordinates, thickness float64, loadBearing bool) (Wall, error) {
	if thickness <= 0 {
		return Wall{}, fmt.Errorf("wall %s: thickness must be positive, got %g", id, thickness)
	}
	if thickness > MaxWallThickness {
		return Wall{}, fmt.Errorf("wall %s: thickness %g exceeds maximum %g", id, thickness, MaxWallThickness)
	}
	return Wall{ID: id, Start: start, End: end, Thickness: thickness, LoadBearing: loadBearing}, nil
}

// Length returns the segment length.
func (w Wall) Length() float64 {
	return w.Start.DistanceTo(w.End)
}

// IsHorizontal reports whether both endpoints share a y value within
// tolerance.
func (w Wall) IsHorizontal() bool {
	return math.Abs(w.End.Y-w.Start.Y) < axisTolerance
}

// IsVertical reports whether both endpoints share an x value within
// tolerance.
func (w Wall) IsVertical() bool {
	return math.Abs(w.End.X-w.Start.X) < axisTolerance
}

type wallJSON struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Start         []float64 `json:"start"`
	End           []float64 `json:"end"`
	Thickness     *float64  `json:"thickness,omitempty"`
	IsLoadBearing bool      `json:"is_load_bearing"`
}

// MarshalJSON emits the wire form with endpoints as [x, y] pairs and a
// fixed "line" type discriminator.
func (w Wall) MarshalJSON() ([]byte, error) {
	thickness := w.Thickness
	return json.Marshal(wallJSON{
		ID:            w.ID,
		Type:          "line",
		Start:         w.Start.Slice(),
		End:           w.End.Slice(),
		Thickness:     &thickness,
		IsLoadBearing: w.LoadBearing,
	})
}

// UnmarshalJSON parses the wire form, applying the default thickness when
// the field is absent and validating endpoints against the canvas.
func (w *Wall) UnmarshalJSON(data []byte) error {
	var wire wallJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	start, err := pointFromSlice(wire.Start)
	if err != nil {
		return fmt.Errorf("wall %s start: %w", wire.ID, err)
	}
	end, err := pointFromSlice(wire.End)
	if err != nil {
		return fmt.Errorf("wall %s end: %w", wire.ID, err)
	}

	thickness := DefaultWallThickness
	if wire.Thickness != nil {
		thickness = *wire.Thickness
	}

	parsed, err := NewWall(wire.ID, start, end, thickness, wire.IsLoadBearing)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func pointFromSlice(vals []float64) (geom.Coordinates, error) {
	if len(vals) != 2 {
		return geom.Coordinates{}, fmt.Errorf("point needs exactly 2 values, got %d", len(vals))
	}
	return geom.NewCoordinates(vals[0], vals[1])
}
