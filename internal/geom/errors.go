package geom

import "fmt"

// RangeError reports a coordinate value outside the allowed canvas range.
// Field carries the wire name of the offending value (e.g. "x_max") so
// callers can surface it directly to clients and logs.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// GeometryError reports a degenerate box whose minimum edge does not sit
// strictly below its maximum. Both offending fields are named so the
// message identifies the full constraint, not just one side of it.
type GeometryError struct {
	MinField string
	MinValue float64
	MaxField string
	MaxValue float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s (%g) must be strictly less than %s (%g)", e.MinField, e.MinValue, e.MaxField, e.MaxValue)
}
