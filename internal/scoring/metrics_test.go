package scoring

import (
	"math"
	"testing"

	"github.com/blueplan/roomsight/internal/blueprint"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		predicted []blueprint.Room
		truth     []blueprint.Room
		want      Metrics
	}{
		{
			name: "perfect detection",
			predicted: []blueprint.Room{
				room("p1", 100, 100, 400, 400),
				room("p2", 500, 100, 900, 400),
			},
			truth: []blueprint.Room{
				room("g1", 100, 100, 400, 400),
				room("g2", 500, 100, 900, 400),
			},
			want: Metrics{
				TotalGroundTruth: 2, TotalDetected: 2, Matched: 2,
				AverageIoU: 1.0, DetectionRate: 1.0, Precision: 1.0, Recall: 1.0, F1Score: 1.0,
			},
		},
		{
			name: "two of three rooms found",
			predicted: []blueprint.Room{
				room("p1", 100, 100, 400, 400),
				room("p2", 500, 100, 900, 400),
			},
			truth: []blueprint.Room{
				room("g1", 100, 100, 400, 400),
				room("g2", 500, 100, 900, 400),
				room("g3", 100, 500, 900, 900),
			},
			want: Metrics{
				TotalGroundTruth: 3, TotalDetected: 2, Matched: 2, FalseNegatives: 1,
				AverageIoU: 1.0, DetectionRate: 2.0 / 3.0, Precision: 1.0, Recall: 2.0 / 3.0, F1Score: 0.8,
			},
		},
		{
			name: "one hallucinated room",
			predicted: []blueprint.Room{
				room("p1", 100, 100, 400, 400),
				room("p2", 600, 600, 900, 900),
			},
			truth: []blueprint.Room{room("g1", 100, 100, 400, 400)},
			want: Metrics{
				TotalGroundTruth: 1, TotalDetected: 2, Matched: 1, FalsePositives: 1,
				AverageIoU: 1.0, DetectionRate: 1.0, FalsePositiveRate: 0.5,
				Precision: 0.5, Recall: 1.0, F1Score: 2.0 / 3.0,
			},
		},
		{
			name:  "nothing predicted",
			truth: []blueprint.Room{room("g1", 100, 100, 400, 400), room("g2", 500, 100, 900, 400)},
			want:  Metrics{TotalGroundTruth: 2, FalseNegatives: 2},
		},
		{
			name:      "nothing annotated",
			predicted: []blueprint.Room{room("p1", 100, 100, 400, 400)},
			want: Metrics{
				TotalDetected: 1, FalsePositives: 1, FalsePositiveRate: 1.0,
			},
		},
		{
			name: "empty on both sides",
			want: Metrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.predicted, tt.truth)

			if got.TotalGroundTruth != tt.want.TotalGroundTruth {
				t.Errorf("TotalGroundTruth = %d, want %d", got.TotalGroundTruth, tt.want.TotalGroundTruth)
			}
			if got.TotalDetected != tt.want.TotalDetected {
				t.Errorf("TotalDetected = %d, want %d", got.TotalDetected, tt.want.TotalDetected)
			}
			if got.Matched != tt.want.Matched {
				t.Errorf("Matched = %d, want %d", got.Matched, tt.want.Matched)
			}
			if got.FalsePositives != tt.want.FalsePositives {
				t.Errorf("FalsePositives = %d, want %d", got.FalsePositives, tt.want.FalsePositives)
			}
			if got.FalseNegatives != tt.want.FalseNegatives {
				t.Errorf("FalseNegatives = %d, want %d", got.FalseNegatives, tt.want.FalseNegatives)
			}
			if !almostEqual(got.AverageIoU, tt.want.AverageIoU) {
				t.Errorf("AverageIoU = %v, want %v", got.AverageIoU, tt.want.AverageIoU)
			}
			if !almostEqual(got.DetectionRate, tt.want.DetectionRate) {
				t.Errorf("DetectionRate = %v, want %v", got.DetectionRate, tt.want.DetectionRate)
			}
			if !almostEqual(got.FalsePositiveRate, tt.want.FalsePositiveRate) {
				t.Errorf("FalsePositiveRate = %v, want %v", got.FalsePositiveRate, tt.want.FalsePositiveRate)
			}
			if !almostEqual(got.Precision, tt.want.Precision) {
				t.Errorf("Precision = %v, want %v", got.Precision, tt.want.Precision)
			}
			if !almostEqual(got.Recall, tt.want.Recall) {
				t.Errorf("Recall = %v, want %v", got.Recall, tt.want.Recall)
			}
			if !almostEqual(got.F1Score, tt.want.F1Score) {
				t.Errorf("F1Score = %v, want %v", got.F1Score, tt.want.F1Score)
			}
			if len(got.IoUs) != got.Matched {
				t.Errorf("len(IoUs) = %d, want %d", len(got.IoUs), got.Matched)
			}
			if got.IoUs == nil {
				t.Error("IoUs should be an empty slice, not nil")
			}
		})
	}
}

func TestEvaluateAverageIoU(t *testing.T) {
	predicted := []blueprint.Room{
		room("p1", 0, 0, 100, 100),
		room("p2", 200, 200, 300, 300),
	}
	truth := []blueprint.Room{
		room("g1", 0, 0, 100, 120),
		room("g2", 200, 200, 300, 300),
	}

	got := Evaluate(predicted, truth)
	if got.Matched != 2 {
		t.Fatalf("Matched = %d, want 2", got.Matched)
	}
	// One overlap at 5/6, one exact.
	if want := (5.0/6.0 + 1.0) / 2.0; !almostEqual(got.AverageIoU, want) {
		t.Errorf("AverageIoU = %v, want %v", got.AverageIoU, want)
	}
}
