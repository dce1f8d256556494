package dataset

import (
	"fmt"

	"github.com/blueplan/roomsight/internal/blueprint"
	"github.com/blueplan/roomsight/internal/geom"
)

// FloorPlan builds a blueprint incrementally, assigning sequential ids
// (room_001, wall_001, ...) as rooms and walls are added.
type FloorPlan struct {
	bp *blueprint.Blueprint
}

// NewFloorPlan starts an empty floor plan covering the full normalized
// canvas.
func NewFloorPlan(id string) (*FloorPlan, error) {
	return NewFloorPlanSized(id, geom.CanvasMax, geom.CanvasMax)
}

// NewFloorPlanSized starts an empty floor plan with explicit dimensions.
func NewFloorPlanSized(id string, width, height float64) (*FloorPlan, error) {
	bp, err := blueprint.New(id, width, height)
	if err != nil {
		return nil, err
	}
	return &FloorPlan{bp: bp}, nil
}

// AddRoom adds a rectangular room with its top-left corner at (x, y) and
// returns the generated room id.
func (f *FloorPlan) AddRoom(x, y, width, height float64, name string) (string, error) {
	bounds, err := geom.NewBoundingBox(x, y, x+width, y+height)
	if err != nil {
		return "", fmt.Errorf("room %q: %w", name, err)
	}
	id := fmt.Sprintf("room_%03d", len(f.bp.Rooms)+1)
	if err := f.bp.AddRoom(blueprint.Room{ID: id, Bounds: bounds, NameHint: name}); err != nil {
		return "", err
	}
	return id, nil
}

// AddWall adds a straight wall between the given points and returns the
// generated wall id.
func (f *FloorPlan) AddWall(x1, y1, x2, y2, thickness float64) (string, error) {
	start, err := geom.NewCoordinates(x1, y1)
	if err != nil {
		return "", err
	}
	end, err := geom.NewCoordinates(x2, y2)
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("wall_%03d", len(f.bp.Walls)+1)
	wall, err := blueprint.NewWall(id, start, end, thickness, false)
	if err != nil {
		return "", err
	}
	if err := f.bp.AddWall(wall); err != nil {
		return "", err
	}
	return id, nil
}

// AddRectangularRoomWithWalls adds a room plus the four walls outlining
// it, in top, right, bottom, left order.
func (f *FloorPlan) AddRectangularRoomWithWalls(x, y, width, height float64, name string) (string, error) {
	roomID, err := f.AddRoom(x, y, width, height, name)
	if err != nil {
		return "", err
	}

	segments := [][4]float64{
		{x, y, x + width, y},
		{x + width, y, x + width, y + height},
		{x + width, y + height, x, y + height},
		{x, y + height, x, y},
	}
	for _, s := range segments {
		if _, err := f.AddWall(s[0], s[1], s[2], s[3], blueprint.DefaultWallThickness); err != nil {
			return "", err
		}
	}
	return roomID, nil
}

// Blueprint returns the built plan.
func (f *FloorPlan) Blueprint() *blueprint.Blueprint {
	return f.bp
}
