// Package scoring compares detected rooms against ground truth
// annotations. It matches predictions to annotated rooms by IoU, computes
// accuracy metrics per blueprint, and aggregates them across a generated
// test suite.
package scoring

import (
	"github.com/blueplan/roomsight/internal/blueprint"
	"github.com/blueplan/roomsight/internal/geom"
)

// DefaultIoUThreshold is the minimum overlap for a prediction to claim a
// ground truth room.
const DefaultIoUThreshold = 0.5

// Match pairs a predicted room with the ground truth room it claimed.
type Match struct {
	Predicted   blueprint.Room
	GroundTruth blueprint.Room
	IoU         float64
}

// MatchRooms assigns predictions to ground truth rooms greedily: each
// prediction, in input order, takes the unused ground truth room with the
// highest IoU at or above the threshold. Ties keep the first candidate in
// ground truth order, and a claimed room is never reassigned even if a
// later prediction overlaps it better. One match per room on both sides.
func MatchRooms(predicted, groundTruth []blueprint.Room, iouThreshold float64) []Match {
	matches := make([]Match, 0, len(predicted))
	used := make(map[int]struct{}, len(groundTruth))

	for _, pred := range predicted {
		bestIoU := 0.0
		bestIdx := -1

		for idx, gt := range groundTruth {
			if _, taken := used[idx]; taken {
				continue
			}
			iou := geom.IoU(pred.Bounds, gt.Bounds)
			if iou > bestIoU && iou >= iouThreshold {
				bestIoU = iou
				bestIdx = idx
			}
		}

		if bestIdx >= 0 {
			matches = append(matches, Match{
				Predicted:   pred,
				GroundTruth: groundTruth[bestIdx],
				IoU:         bestIoU,
			})
			used[bestIdx] = struct{}{}
		}
	}

	return matches
}
