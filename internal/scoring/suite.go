package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/blueplan/roomsight/internal/blueprint"
)

// ManifestFileName is the index file written at the root of a generated
// test suite.
const ManifestFileName = "test_suite_manifest.json"

// PredictedSuffix names the detection result file a suite run expects to
// find for each blueprint.
const PredictedSuffix = "_predicted.json"

// ErrNoValidations reports a suite run where no blueprint had both a
// ground truth file and a predictions file.
var ErrNoValidations = errors.New("no validations performed")

// Manifest indexes a generated test suite: which blueprints exist, at
// which difficulty level, and where their images and annotations live.
type Manifest struct {
	TotalBlueprints int                      `json:"total_blueprints"`
	Levels          map[string]ManifestLevel `json:"levels"`
}

// ManifestLevel groups the blueprints of one difficulty level.
type ManifestLevel struct {
	Name       string              `json:"name"`
	Count      int                 `json:"count"`
	Blueprints []ManifestBlueprint `json:"blueprints"`
}

// ManifestBlueprint is one manifest entry. Paths are relative to the
// suite root.
type ManifestBlueprint struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	ImagePath       string `json:"image_path"`
	GroundTruthPath string `json:"ground_truth_path"`
	RoomCount       int    `json:"room_count"`
	WallCount       int    `json:"wall_count"`
}

// LoadManifest reads the suite index from a generated test suite
// directory.
func LoadManifest(suiteDir string) (*Manifest, error) {
	path := filepath.Join(suiteDir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// BlueprintMetrics is one blueprint's metrics annotated with its identity
// within the suite.
type BlueprintMetrics struct {
	Metrics
	BlueprintID string `json:"blueprint_id"`
	Level       string `json:"level"`
}

// SuiteReport aggregates per-blueprint metrics across a suite run.
// Averages are arithmetic means over the blueprints that were scored.
type SuiteReport struct {
	TotalBlueprints      int                `json:"total_blueprints"`
	AverageIoU           float64            `json:"average_iou"`
	AverageDetectionRate float64            `json:"average_detection_rate"`
	AveragePrecision     float64            `json:"average_precision"`
	AverageRecall        float64            `json:"average_recall"`
	AverageF1Score       float64            `json:"average_f1_score"`
	BlueprintMetrics     []BlueprintMetrics `json:"blueprint_metrics"`
}

// ValidateBlueprint scores one blueprint: predictedPath holds a detection
// result with a "rooms" array, groundTruthPath an annotation document
// with a "ground_truth" array. Either array may be missing or empty, in
// which case it scores as zero rooms.
func ValidateBlueprint(predictedPath, groundTruthPath string) (Metrics, error) {
	predData, err := os.ReadFile(predictedPath)
	if err != nil {
		return Metrics{}, fmt.Errorf("read predictions: %w", err)
	}
	var pred struct {
		Rooms []blueprint.Room `json:"rooms"`
	}
	if err := json.Unmarshal(predData, &pred); err != nil {
		return Metrics{}, fmt.Errorf("decode predictions %s: %w", predictedPath, err)
	}

	gtData, err := os.ReadFile(groundTruthPath)
	if err != nil {
		return Metrics{}, fmt.Errorf("read ground truth: %w", err)
	}
	var gt struct {
		Rooms []blueprint.Room `json:"ground_truth"`
	}
	if err := json.Unmarshal(gtData, &gt); err != nil {
		return Metrics{}, fmt.Errorf("decode ground truth %s: %w", groundTruthPath, err)
	}

	return Evaluate(pred.Rooms, gt.Rooms), nil
}

// RunSuite scores every blueprint in a generated suite against the
// prediction files in resultsDir. A blueprint missing its ground truth or
// predictions file is skipped with a warning; a file that exists but does
// not decode fails the run. Returns ErrNoValidations when nothing could
// be scored.
func RunSuite(suiteDir, resultsDir string) (*SuiteReport, error) {
	manifest, err := LoadManifest(suiteDir)
	if err != nil {
		return nil, err
	}

	levelNames := make([]string, 0, len(manifest.Levels))
	for name := range manifest.Levels {
		levelNames = append(levelNames, name)
	}
	sort.Strings(levelNames)

	var all []BlueprintMetrics
	for _, levelName := range levelNames {
		for _, entry := range manifest.Levels[levelName].Blueprints {
			gtPath := filepath.Join(suiteDir, "ground-truth", entry.ID+GroundTruthSuffix)
			predPath := filepath.Join(resultsDir, entry.ID+PredictedSuffix)

			if _, err := os.Stat(gtPath); err != nil {
				slog.Warn("ground truth not found, skipping blueprint", "blueprint_id", entry.ID, "path", gtPath)
				continue
			}
			if _, err := os.Stat(predPath); err != nil {
				slog.Warn("predictions not found, skipping blueprint", "blueprint_id", entry.ID, "path", predPath)
				continue
			}

			metrics, err := ValidateBlueprint(predPath, gtPath)
			if err != nil {
				return nil, fmt.Errorf("blueprint %s: %w", entry.ID, err)
			}
			all = append(all, BlueprintMetrics{
				Metrics:     metrics,
				BlueprintID: entry.ID,
				Level:       levelName,
			})
		}
	}

	if len(all) == 0 {
		return nil, ErrNoValidations
	}

	report := &SuiteReport{
		TotalBlueprints:  len(all),
		BlueprintMetrics: all,
	}
	for _, m := range all {
		report.AverageIoU += m.AverageIoU
		report.AverageDetectionRate += m.DetectionRate
		report.AveragePrecision += m.Precision
		report.AverageRecall += m.Recall
		report.AverageF1Score += m.F1Score
	}
	n := float64(len(all))
	report.AverageIoU /= n
	report.AverageDetectionRate /= n
	report.AveragePrecision /= n
	report.AverageRecall /= n
	report.AverageF1Score /= n

	return report, nil
}
