// Package image prepares blueprint images for the vision model. Uploads
// arrive in whatever format a client had on disk; the model wants an
// sRGB PNG no larger than its input limit, with enough contrast that
// thin wall lines survive downscaling.
package image

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/bimg"
)

const (
	// MaxDimension is the largest side length the model accepts.
	MaxDimension = 2048
	// DefaultContrastFactor is the linear contrast multiplier applied
	// before inference. 1.0 leaves the image unchanged.
	DefaultContrastFactor = 1.5
)

// ProcessorConfig holds configuration for blueprint preprocessing. Zero
// fields take the package defaults.
type ProcessorConfig struct {
	MaxDimension   int
	ContrastFactor float64
}

// DefaultConfig returns the preprocessing defaults used in production.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		MaxDimension:   MaxDimension,
		ContrastFactor: DefaultContrastFactor,
	}
}

// Processor normalizes and enhances blueprint images.
type Processor struct {
	config ProcessorConfig
}

// NewProcessor creates a processor with the given config.
func NewProcessor(config ProcessorConfig) *Processor {
	if config.MaxDimension <= 0 {
		config.MaxDimension = MaxDimension
	}
	if config.ContrastFactor <= 0 {
		config.ContrastFactor = DefaultContrastFactor
	}
	return &Processor{config: config}
}

// Validate checks that data decodes as an image.
func Validate(data []byte) error {
	if _, err := bimg.NewImage(data).Metadata(); err != nil {
		return fmt.Errorf("invalid image data: %w", err)
	}
	return nil
}

// PreprocessBlueprint converts an uploaded blueprint into model input:
// sRGB PNG with metadata stripped, capped at the configured dimension
// with aspect ratio preserved, contrast boosted.
func (p *Processor) PreprocessBlueprint(data []byte) ([]byte, error) {
	normalized, err := p.normalize(data)
	if err != nil {
		return nil, err
	}
	return boostContrast(normalized, p.config.ContrastFactor)
}

// normalize re-encodes to PNG, strips metadata, and downscales oversized
// images. Images already within the limit keep their dimensions.
func (p *Processor) normalize(data []byte) ([]byte, error) {
	img := bimg.NewImage(data)
	metadata, err := img.Metadata()
	if err != nil {
		return nil, fmt.Errorf("read image metadata: %w", err)
	}

	options := bimg.Options{
		Type:           bimg.PNG,
		StripMetadata:  true,
		Interpretation: bimg.InterpretationSRGB,
	}
	width, height := metadata.Size.Width, metadata.Size.Height
	if width > p.config.MaxDimension || height > p.config.MaxDimension {
		options.Width, options.Height = fitWithin(width, height, p.config.MaxDimension)
	}

	out, err := img.Process(options)
	if err != nil {
		return nil, fmt.Errorf("normalize image: %w", err)
	}
	return out, nil
}

// fitWithin scales (width, height) down so the longer side equals max,
// preserving aspect ratio.
func fitWithin(width, height, max int) (int, int) {
	if width > height {
		return max, height * max / width
	}
	return width * max / height, max
}

// boostContrast applies a linear contrast multiplier around the mid tone
// and re-encodes as PNG.
func boostContrast(data []byte, factor float64) ([]byte, error) {
	if factor == 1.0 {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode normalized image: %w", err)
	}
	boosted := imaging.AdjustContrast(img, (factor-1.0)*100)

	var buf bytes.Buffer
	if err := png.Encode(&buf, boosted); err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}
