// Package render rasterizes blueprints to PNG images. The generated
// pictures feed the detection pipeline's test suites, so they look like
// plain architectural drawings: white canvas, black wall lines, optional
// room fills, centered room labels.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/blueplan/roomsight/internal/blueprint"
)

// Default canvas dimensions in pixels.
const (
	DefaultImageWidth  = 1000
	DefaultImageHeight = 1000
)

// labelFontSize is the point size of room labels.
const labelFontSize = 12

// RendererConfig holds rendering options. Zero fields take the package
// defaults; RoomFill left nil disables room fills.
type RendererConfig struct {
	ImageWidth  int
	ImageHeight int
	Background  color.Color
	WallColor   color.Color
	RoomFill    color.Color
	FontPath    string // empty uses the embedded Go Regular face
}

// Renderer draws blueprints onto a pixel canvas.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a renderer with the given config.
func NewRenderer(config RendererConfig) *Renderer {
	if config.ImageWidth <= 0 {
		config.ImageWidth = DefaultImageWidth
	}
	if config.ImageHeight <= 0 {
		config.ImageHeight = DefaultImageHeight
	}
	if config.Background == nil {
		config.Background = color.White
	}
	if config.WallColor == nil {
		config.WallColor = color.Black
	}
	return &Renderer{config: config}
}

// Image renders the blueprint and returns PNG bytes.
func (r *Renderer) Image(bp *blueprint.Blueprint) ([]byte, error) {
	dc := r.draw(bp)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode blueprint %s: %w", bp.ID, err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the blueprint to a PNG file, creating parent
// directories as needed.
func (r *Renderer) WriteFile(bp *blueprint.Blueprint, path string) error {
	data, err := r.Image(bp)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blueprint %s: %w", bp.ID, err)
	}
	return nil
}

// draw paints rooms first, walls over them, labels last.
func (r *Renderer) draw(bp *blueprint.Blueprint) *gg.Context {
	dc := gg.NewContext(r.config.ImageWidth, r.config.ImageHeight)
	dc.SetColor(r.config.Background)
	dc.Clear()

	// Blueprint coordinates are normalized to the canvas units; scale
	// them into pixels.
	scaleX := float64(r.config.ImageWidth) / bp.Width
	scaleY := float64(r.config.ImageHeight) / bp.Height

	if r.config.RoomFill != nil {
		dc.SetColor(r.config.RoomFill)
		for _, room := range bp.Rooms {
			b := room.Bounds
			dc.DrawRectangle(b.XMin*scaleX, b.YMin*scaleY, b.Width()*scaleX, b.Height()*scaleY)
			dc.Fill()
		}
	}

	dc.SetColor(r.config.WallColor)
	for _, wall := range bp.Walls {
		thickness := wall.Thickness * math.Min(scaleX, scaleY)
		if thickness < 1 {
			thickness = 1
		}
		dc.SetLineWidth(thickness)
		dc.DrawLine(wall.Start.X*scaleX, wall.Start.Y*scaleY, wall.End.X*scaleX, wall.End.Y*scaleY)
		dc.Stroke()
	}

	r.drawLabels(dc, bp, scaleX, scaleY)
	return dc
}

func (r *Renderer) drawLabels(dc *gg.Context, bp *blueprint.Blueprint, scaleX, scaleY float64) {
	if face, err := r.labelFace(); err != nil {
		slog.Warn("falling back to built-in font", "path", r.config.FontPath, "error", err)
	} else {
		dc.SetFontFace(face)
	}

	dc.SetColor(color.Black)
	for _, room := range bp.Rooms {
		if room.NameHint == "" {
			continue
		}
		center := room.Bounds.Center()
		dc.DrawStringAnchored(room.NameHint, center.X*scaleX, center.Y*scaleY, 0.5, 0.5)
	}
}

// labelFace returns the face for room labels: the configured font file
// when set, otherwise the embedded Go Regular face, so generated suites
// render identically on any host.
func (r *Renderer) labelFace() (font.Face, error) {
	if r.config.FontPath != "" {
		return gg.LoadFontFace(r.config.FontPath, labelFontSize)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: labelFontSize}), nil
}
