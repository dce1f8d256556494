package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blueplan/roomsight/internal/blueprint"
	"github.com/blueplan/roomsight/internal/geom"
)

// GroundTruthSuffix names the annotation file that sits next to each
// generated blueprint image.
const GroundTruthSuffix = "_ground_truth.json"

// GroundTruth is the annotation document for one blueprint: which rooms
// exist and where, plus enough metadata to sanity-check the source image.
type GroundTruth struct {
	BlueprintID string              `json:"blueprint_id"`
	ImagePath   string              `json:"image_path"`
	Metadata    GroundTruthMetadata `json:"metadata"`
	Rooms       []blueprint.Room    `json:"ground_truth"`
}

// GroundTruthMetadata describes the annotated blueprint.
type GroundTruthMetadata struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	RoomCount int     `json:"room_count"`
	WallCount int     `json:"wall_count,omitempty"`
}

// NewGroundTruth builds the annotation document for a blueprint.
func NewGroundTruth(bp *blueprint.Blueprint) GroundTruth {
	return GroundTruth{
		BlueprintID: bp.ID,
		ImagePath:   fmt.Sprintf("blueprints/%s.png", bp.ID),
		Metadata: GroundTruthMetadata{
			Width:     bp.Width,
			Height:    bp.Height,
			RoomCount: len(bp.Rooms),
			WallCount: len(bp.Walls),
		},
		Rooms: bp.Rooms,
	}
}

// WriteGroundTruth writes the annotation document for bp into dir,
// creating the directory when needed, and returns the file path.
func WriteGroundTruth(bp *blueprint.Blueprint, dir string) (string, error) {
	gt := NewGroundTruth(bp)
	if gt.Rooms == nil {
		gt.Rooms = []blueprint.Room{}
	}

	data, err := json.MarshalIndent(gt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode ground truth for %s: %w", bp.ID, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create ground truth dir: %w", err)
	}
	path := filepath.Join(dir, bp.ID+GroundTruthSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write ground truth for %s: %w", bp.ID, err)
	}
	return path, nil
}

// LoadGroundTruth reads and schema-checks an annotation file.
func LoadGroundTruth(path string) (*GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %w", err)
	}
	return ParseGroundTruth(data)
}

// ParseGroundTruth decodes an annotation document, validating its schema
// first so malformed files fail with a message naming the offending field
// instead of a bare decode error.
func ParseGroundTruth(data []byte) (*GroundTruth, error) {
	if err := ValidateGroundTruthSchema(data); err != nil {
		return nil, err
	}
	var gt GroundTruth
	if err := json.Unmarshal(data, &gt); err != nil {
		return nil, fmt.Errorf("decode ground truth: %w", err)
	}
	return &gt, nil
}

// ValidateGroundTruthSchema checks the raw document for the required
// fields and room shapes without fully decoding it.
func ValidateGroundTruthSchema(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("ground truth must be a JSON object: %w", err)
	}

	for _, field := range []string{"blueprint_id", "image_path", "metadata", "ground_truth"} {
		if _, ok := doc[field]; !ok {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	var metadata map[string]json.RawMessage
	if err := json.Unmarshal(doc["metadata"], &metadata); err != nil {
		return fmt.Errorf("metadata must be a JSON object: %w", err)
	}
	for _, field := range []string{"width", "height", "room_count"} {
		if _, ok := metadata[field]; !ok {
			return fmt.Errorf("missing required metadata field: %s", field)
		}
	}

	var rooms []map[string]json.RawMessage
	if err := json.Unmarshal(doc["ground_truth"], &rooms); err != nil {
		return fmt.Errorf("ground_truth must be an array of rooms: %w", err)
	}

	for i, room := range rooms {
		if _, ok := room["id"]; !ok {
			return fmt.Errorf("room at index %d missing 'id' field", i)
		}
		if _, ok := room["bounding_box"]; !ok {
			return fmt.Errorf("room at index %d missing 'bounding_box' field", i)
		}

		var id string
		if err := json.Unmarshal(room["id"], &id); err != nil {
			return fmt.Errorf("room at index %d: 'id' must be a string", i)
		}
		var box []float64
		if err := json.Unmarshal(room["bounding_box"], &box); err != nil || len(box) != 4 {
			return fmt.Errorf("room %s bounding_box must be [x_min, y_min, x_max, y_max]", id)
		}
		for _, coord := range box {
			if coord < geom.CanvasMin || coord > geom.CanvasMax {
				return fmt.Errorf("room %s coordinate %g outside %g-%g range", id, coord, geom.CanvasMin, geom.CanvasMax)
			}
		}
	}

	return nil
}
