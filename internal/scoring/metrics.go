package scoring

import "github.com/blueplan/roomsight/internal/blueprint"

// Metrics summarizes how a predicted room set compares against ground
// truth for one blueprint. Rates with a zero denominator report 0.0
// rather than NaN so empty inputs aggregate cleanly.
type Metrics struct {
	TotalGroundTruth  int       `json:"total_ground_truth"`
	TotalDetected     int       `json:"total_detected"`
	Matched           int       `json:"matched"`
	FalsePositives    int       `json:"false_positives"`
	FalseNegatives    int       `json:"false_negatives"`
	AverageIoU        float64   `json:"average_iou"`
	DetectionRate     float64   `json:"detection_rate"`
	FalsePositiveRate float64   `json:"false_positive_rate"`
	Precision         float64   `json:"precision"`
	Recall            float64   `json:"recall"`
	F1Score           float64   `json:"f1_score"`
	IoUs              []float64 `json:"ious"`
}

// Evaluate matches predictions against ground truth at the default
// threshold and derives the full metric set.
func Evaluate(predicted, groundTruth []blueprint.Room) Metrics {
	matches := MatchRooms(predicted, groundTruth, DefaultIoUThreshold)

	ious := make([]float64, 0, len(matches))
	iouSum := 0.0
	for _, m := range matches {
		ious = append(ious, m.IoU)
		iouSum += m.IoU
	}

	avgIoU := 0.0
	if len(ious) > 0 {
		avgIoU = iouSum / float64(len(ious))
	}

	detectionRate := 0.0
	if len(groundTruth) > 0 {
		detectionRate = float64(len(matches)) / float64(len(groundTruth))
	}

	falsePositives := len(predicted) - len(matches)
	falsePositiveRate := 0.0
	precision := 0.0
	if len(predicted) > 0 {
		falsePositiveRate = float64(falsePositives) / float64(len(predicted))
		precision = float64(len(matches)) / float64(len(predicted))
	}

	recall := detectionRate
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Metrics{
		TotalGroundTruth:  len(groundTruth),
		TotalDetected:     len(predicted),
		Matched:           len(matches),
		FalsePositives:    falsePositives,
		FalseNegatives:    len(groundTruth) - len(matches),
		AverageIoU:        avgIoU,
		DetectionRate:     detectionRate,
		FalsePositiveRate: falsePositiveRate,
		Precision:         precision,
		Recall:            recall,
		F1Score:           f1,
		IoUs:              ious,
	}
}
