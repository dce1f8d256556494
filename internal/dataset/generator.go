// Package dataset generates synthetic blueprint test suites: rendered
// floor-plan images paired with ground truth annotations and a manifest
// indexing them by difficulty level.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/blueplan/roomsight/internal/render"
	"github.com/blueplan/roomsight/internal/scoring"
)

// Suite subdirectories, also used for the manifest's relative paths.
const (
	blueprintsDirName  = "blueprints"
	groundTruthDirName = "ground-truth"
)

// suiteLevel is one difficulty level of a generated suite.
type suiteLevel struct {
	key     string
	name    string
	layouts []layout
}

func levelFor(n int) (suiteLevel, error) {
	switch n {
	case 1:
		return suiteLevel{key: "level_1", name: level1Name, layouts: level1Layouts}, nil
	case 2:
		return suiteLevel{key: "level_2", name: level2Name, layouts: level2Layouts}, nil
	default:
		return suiteLevel{}, fmt.Errorf("unknown suite level %d", n)
	}
}

// Generator writes complete test suites: one rendered PNG and one ground
// truth file per layout, plus a manifest indexing them.
type Generator struct {
	outDir   string
	renderer *render.Renderer
	logger   *slog.Logger
}

// GeneratorConfig configures suite generation. OutDir is required; the
// rest default sensibly.
type GeneratorConfig struct {
	OutDir   string
	Renderer *render.Renderer
	Logger   *slog.Logger
}

// NewGenerator creates a suite generator from the given configuration.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.OutDir == "" {
		return nil, errors.New("output directory is required")
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(render.RendererConfig{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{outDir: cfg.OutDir, renderer: renderer, logger: logger}, nil
}

// Generate builds the requested suite levels, writes every artifact under
// the output directory, and returns the manifest it wrote. A nil or empty
// levels slice generates all levels.
func (g *Generator) Generate(levels []int) (*scoring.Manifest, error) {
	if len(levels) == 0 {
		levels = []int{1, 2}
	}

	manifest := &scoring.Manifest{Levels: map[string]scoring.ManifestLevel{}}
	for _, n := range levels {
		level, err := levelFor(n)
		if err != nil {
			return nil, err
		}
		g.logger.Info("generating suite level", "level", level.key, "blueprints", len(level.layouts))

		entries := make([]scoring.ManifestBlueprint, 0, len(level.layouts))
		for _, l := range level.layouts {
			entry, err := g.generateBlueprint(l)
			if err != nil {
				return nil, fmt.Errorf("level %d: %w", n, err)
			}
			entries = append(entries, entry)
		}

		manifest.Levels[level.key] = scoring.ManifestLevel{
			Name:       level.name,
			Count:      len(entries),
			Blueprints: entries,
		}
		manifest.TotalBlueprints += len(entries)
	}

	if err := g.writeManifest(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (g *Generator) generateBlueprint(l layout) (scoring.ManifestBlueprint, error) {
	fp, err := NewFloorPlan(l.id)
	if err != nil {
		return scoring.ManifestBlueprint{}, err
	}
	for _, r := range l.rooms {
		if _, err := fp.AddRectangularRoomWithWalls(r.x, r.y, r.w, r.h, r.label); err != nil {
			return scoring.ManifestBlueprint{}, fmt.Errorf("blueprint %s: %w", l.id, err)
		}
	}

	bp := fp.Blueprint()
	if err := bp.ValidateLayout(); err != nil {
		return scoring.ManifestBlueprint{}, fmt.Errorf("blueprint %s: %w", l.id, err)
	}

	imageName := bp.ID + ".png"
	if err := g.renderer.WriteFile(bp, filepath.Join(g.outDir, blueprintsDirName, imageName)); err != nil {
		return scoring.ManifestBlueprint{}, fmt.Errorf("render %s: %w", bp.ID, err)
	}
	if _, err := scoring.WriteGroundTruth(bp, filepath.Join(g.outDir, groundTruthDirName)); err != nil {
		return scoring.ManifestBlueprint{}, err
	}

	g.logger.Debug("generated blueprint",
		"blueprint_id", bp.ID,
		"rooms", len(bp.Rooms),
		"walls", len(bp.Walls),
	)

	return scoring.ManifestBlueprint{
		ID:              bp.ID,
		Description:     l.description,
		ImagePath:       path.Join(blueprintsDirName, imageName),
		GroundTruthPath: path.Join(groundTruthDirName, bp.ID+scoring.GroundTruthSuffix),
		RoomCount:       len(bp.Rooms),
		WallCount:       len(bp.Walls),
	}, nil
}

func (g *Generator) writeManifest(m *scoring.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	dest := filepath.Join(g.outDir, scoring.ManifestFileName)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
