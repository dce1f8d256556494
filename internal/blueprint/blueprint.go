// Package blueprint holds the floor-plan entities shared by the detection
// pipeline, the dataset generator, and the scorer: walls, rooms, and the
// blueprint that owns them. Entities validate their own invariants at
// construction so downstream code can treat them as well-formed.
package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blueplan/roomsight/internal/geom"
)

// Layout validation errors.
var (
	ErrNoWalls         = errors.New("blueprint needs at least one wall")
	ErrDuplicateWallID = errors.New("duplicate wall id")
	ErrDuplicateRoomID = errors.New("duplicate room id")
	ErrOutOfBounds     = errors.New("outside blueprint bounds")
)

// Blueprint is a complete floor plan on the normalized canvas. Width and
// height bound its drawable area and everything added to it must fit
// inside.
type Blueprint struct {
	ID       string
	Width    float64
	Height   float64
	Walls    []Wall
	Rooms    []Room
	Metadata map[string]any
}

// New builds an empty blueprint. Dimensions must be positive and no larger
// than the canvas.
func New(id string, width, height float64) (*Blueprint, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("blueprint dimensions must be positive, got %gx%g", width, height)
	}
	if width > geom.CanvasMax || height > geom.CanvasMax {
		return nil, fmt.Errorf("blueprint dimensions exceed normalized range, got %gx%g", width, height)
	}
	return &Blueprint{
		ID:       id,
		Width:    width,
		Height:   height,
		Metadata: map[string]any{},
	}, nil
}

// AddWall appends a wall after checking both endpoints fit the blueprint.
// On error the blueprint is left unchanged.
func (b *Blueprint) AddWall(w Wall) error {
	if w.Start.X > b.Width || w.End.X > b.Width {
		return fmt.Errorf("%w: wall %s exceeds width %g", ErrOutOfBounds, w.ID, b.Width)
	}
	if w.Start.Y > b.Height || w.End.Y > b.Height {
		return fmt.Errorf("%w: wall %s exceeds height %g", ErrOutOfBounds, w.ID, b.Height)
	}
	b.Walls = append(b.Walls, w)
	return nil
}

// AddRoom appends a room after checking its box fits the blueprint. On
// error the blueprint is left unchanged.
func (b *Blueprint) AddRoom(r Room) error {
	if r.Bounds.XMax > b.Width || r.Bounds.YMax > b.Height {
		return fmt.Errorf("%w: room %s exceeds %gx%g", ErrOutOfBounds, r.ID, b.Width, b.Height)
	}
	b.Rooms = append(b.Rooms, r)
	return nil
}

// ValidateLayout checks structural consistency: at least one wall, and no
// duplicate wall or room ids.
func (b *Blueprint) ValidateLayout() error {
	if len(b.Walls) == 0 {
		return ErrNoWalls
	}

	wallIDs := make(map[string]struct{}, len(b.Walls))
	for _, w := range b.Walls {
		if _, ok := wallIDs[w.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateWallID, w.ID)
		}
		wallIDs[w.ID] = struct{}{}
	}

	roomIDs := make(map[string]struct{}, len(b.Rooms))
	for _, r := range b.Rooms {
		if _, ok := roomIDs[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRoomID, r.ID)
		}
		roomIDs[r.ID] = struct{}{}
	}

	return nil
}

type blueprintJSON struct {
	ID       string         `json:"id"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Walls    []Wall         `json:"walls"`
	Rooms    []Room         `json:"rooms"`
	Metadata map[string]any `json:"metadata"`
}

// MarshalJSON emits the wire form. Nil wall and room slices serialize as
// empty arrays so consumers never see null collections.
func (b *Blueprint) MarshalJSON() ([]byte, error) {
	wire := blueprintJSON{
		ID:       b.ID,
		Width:    b.Width,
		Height:   b.Height,
		Walls:    b.Walls,
		Rooms:    b.Rooms,
		Metadata: b.Metadata,
	}
	if wire.Walls == nil {
		wire.Walls = []Wall{}
	}
	if wire.Rooms == nil {
		wire.Rooms = []Room{}
	}
	if wire.Metadata == nil {
		wire.Metadata = map[string]any{}
	}
	return json.Marshal(wire)
}

// FromJSON parses a serialized blueprint, re-validating dimensions and the
// bounds of every wall and room on the way in.
func FromJSON(data []byte) (*Blueprint, error) {
	var wire blueprintJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}

	width, height := wire.Width, wire.Height
	if width == 0 {
		width = geom.CanvasMax
	}
	if height == 0 {
		height = geom.CanvasMax
	}

	b, err := New(wire.ID, width, height)
	if err != nil {
		return nil, err
	}
	if wire.Metadata != nil {
		b.Metadata = wire.Metadata
	}

	for _, w := range wire.Walls {
		if err := b.AddWall(w); err != nil {
			return nil, err
		}
	}
	for _, r := range wire.Rooms {
		if err := b.AddRoom(r); err != nil {
			return nil, err
		}
	}

	return b, nil
}
