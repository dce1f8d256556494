package blueprint

import (
	"encoding/json"
	"fmt"

	"github.com/blueplan/roomsight/internal/geom"
)

// Room is a detected or annotated room, identified by id and bounded by a
// normalized box. NameHint is a best-effort label such as "Kitchen" and may
// be empty.
type Room struct {
	ID       string
	Bounds   geom.BoundingBox
	NameHint string
}

// Area returns the bounding box area.
func (r Room) Area() float64 {
	return r.Bounds.Area()
}

type roomJSON struct {
	ID          string    `json:"id"`
	BoundingBox []float64 `json:"bounding_box"`
	NameHint    string    `json:"name_hint,omitempty"`
}

// MarshalJSON emits the wire form with the box as a flat
// [x_min, y_min, x_max, y_max] slice. NameHint is omitted when empty.
func (r Room) MarshalJSON() ([]byte, error) {
	return json.Marshal(roomJSON{
		ID:          r.ID,
		BoundingBox: r.Bounds.Slice(),
		NameHint:    r.NameHint,
	})
}

// UnmarshalJSON parses the wire form and validates the box geometry.
func (r *Room) UnmarshalJSON(data []byte) error {
	var wire roomJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	bounds, err := geom.BoundingBoxFromSlice(wire.BoundingBox)
	if err != nil {
		return fmt.Errorf("room %s: %w", wire.ID, err)
	}
	*r = Room{ID: wire.ID, Bounds: bounds, NameHint: wire.NameHint}
	return nil
}
