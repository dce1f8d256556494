// Package validate checks and repairs room records coming back from the
// vision model. Model output is untrusted: fields go missing, coordinates
// land off the canvas, and boxes collapse. Validation here decides which
// records survive into a detection result.
package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/blueplan/roomsight/internal/geom"
)

// RoomRecord is one room entry from a detection response after it has
// passed validation. It mirrors the wire schema rather than the strict
// blueprint entity so callers see exactly what the model reported.
type RoomRecord struct {
	ID          string    `json:"id"`
	BoundingBox []float64 `json:"bounding_box"`
	NameHint    string    `json:"name_hint,omitempty"`
}

// SchemaError reports a room record whose structure does not match the
// expected shape: missing fields, wrong types, or a malformed box.
type SchemaError struct {
	RoomID string // empty when the record carries no usable id
	Msg    string
}

func (e *SchemaError) Error() string {
	if e.RoomID == "" {
		return e.Msg
	}
	return fmt.Sprintf("room %s: %s", e.RoomID, e.Msg)
}

// coordNames index the wire order of bounding box values for error messages.
var coordNames = [4]string{"x_min", "y_min", "x_max", "y_max"}

// Room validates a single raw record and returns its typed form. It fails
// with *SchemaError for structural problems and passes through
// *geom.RangeError and *geom.GeometryError for coordinate problems, so
// callers can distinguish the two with errors.As.
func Room(raw json.RawMessage) (RoomRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return RoomRecord{}, &SchemaError{Msg: "room record must be a JSON object"}
	}

	idRaw, ok := fields["id"]
	if !ok {
		return RoomRecord{}, &SchemaError{Msg: "missing 'id' field"}
	}
	var id string
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return RoomRecord{}, &SchemaError{Msg: "'id' must be a string"}
	}

	boxRaw, ok := fields["bounding_box"]
	if !ok {
		return RoomRecord{}, &SchemaError{RoomID: id, Msg: "missing 'bounding_box' field"}
	}
	box, err := decodeBox(boxRaw, id)
	if err != nil {
		return RoomRecord{}, err
	}
	if err := BoundingBox(box, id); err != nil {
		return RoomRecord{}, err
	}

	rec := RoomRecord{ID: id, BoundingBox: box}
	if hintRaw, ok := fields["name_hint"]; ok {
		// Hints are best-effort labels; a non-string hint is dropped
		// without failing the record.
		var hint string
		if err := json.Unmarshal(hintRaw, &hint); err == nil {
			rec.NameHint = hint
		}
	}
	return rec, nil
}

// decodeBox turns the raw bounding_box value into four floats, reporting
// non-array and non-numeric shapes as schema problems.
func decodeBox(raw json.RawMessage, roomID string) ([]float64, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &SchemaError{RoomID: roomID, Msg: "'bounding_box' must be an array"}
	}
	if len(elems) != 4 {
		return nil, &SchemaError{RoomID: roomID, Msg: fmt.Sprintf("bounding box needs exactly 4 values, got %d", len(elems))}
	}
	box := make([]float64, 4)
	for i, elem := range elems {
		if err := json.Unmarshal(elem, &box[i]); err != nil {
			return nil, &SchemaError{RoomID: roomID, Msg: fmt.Sprintf("%s must be a number", coordNames[i])}
		}
	}
	return box, nil
}

// BoundingBox checks a wire bounding box for range and geometry problems.
// roomID attributes errors to a record and may be empty.
func BoundingBox(vals []float64, roomID string) error {
	if len(vals) != 4 {
		return &SchemaError{RoomID: roomID, Msg: fmt.Sprintf("bounding box needs exactly 4 values, got %d", len(vals))}
	}
	if _, err := geom.NewBoundingBox(vals[0], vals[1], vals[2], vals[3]); err != nil {
		if roomID != "" {
			return fmt.Errorf("room %s: %w", roomID, err)
		}
		return err
	}
	return nil
}

// Rooms validates a batch of raw records, dropping invalid entries with a
// warning so one bad room does not sink an otherwise usable detection.
// Valid records keep their input order.
func Rooms(raws []json.RawMessage) []RoomRecord {
	valid := make([]RoomRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := Room(raw)
		if err != nil {
			slog.Warn("dropping invalid room record", "error", err)
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}

// SanitizeBoundingBox clamps the four coordinates onto the canvas and
// nudges a collapsed axis open by one unit (capped at the canvas edge) so
// the result is a usable box wherever possible. The input slice must hold
// exactly four values and is not modified.
func SanitizeBoundingBox(vals []float64) []float64 {
	xMin := clamp(vals[0])
	yMin := clamp(vals[1])
	xMax := clamp(vals[2])
	yMax := clamp(vals[3])

	if xMin >= xMax {
		xMax = math.Min(xMin+1, geom.CanvasMax)
	}
	if yMin >= yMax {
		yMax = math.Min(yMin+1, geom.CanvasMax)
	}

	return []float64{xMin, yMin, xMax, yMax}
}

func clamp(v float64) float64 {
	return math.Max(geom.CanvasMin, math.Min(v, geom.CanvasMax))
}
