// Package detect runs the room detection pipeline: preprocess the
// blueprint image, prompt the vision model, parse its response, and
// validate the room records. Every run produces a Result envelope whether
// it succeeded or not.
package detect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blueplan/roomsight/internal/tracing"
	"github.com/blueplan/roomsight/internal/validate"
)

// ModelInvoker sends an image and prompt to a vision model and returns the
// raw response text.
type ModelInvoker interface {
	InvokeVisionModel(ctx context.Context, imagePNG []byte, prompt string) (string, error)
}

// Preprocessor normalizes a blueprint image before inference.
type Preprocessor interface {
	PreprocessBlueprint(image []byte) ([]byte, error)
}

// ResultCache stores validated room sets for reuse across identical
// requests. A miss is (nil, false, nil). Implementations must be safe for
// concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]validate.RoomRecord, bool, error)
	Set(ctx context.Context, key string, rooms []validate.RoomRecord) error
}

// Options select the prompt for a detection run.
type Options struct {
	Complexity   string
	HasSmallText bool
}

// Result is the detection envelope returned for every request.
// ProcessingTime is wall-clock seconds for the whole call, reported on
// failures too so operators can spot slow error paths.
type Result struct {
	Success        bool                  `json:"success"`
	Rooms          []validate.RoomRecord `json:"rooms"`
	ProcessingTime float64               `json:"processing_time"`
	Error          *string               `json:"error"`
}

// Service runs the detection pipeline. Collaborators are injected so the
// model, preprocessing, and caching can each be swapped or disabled.
type Service struct {
	invoker      ModelInvoker
	preprocessor Preprocessor
	cache        ResultCache
	metrics      *Metrics
	logger       *slog.Logger
	timeNow      func() time.Time // For testability
}

// ServiceConfig wires the pipeline's collaborators. Invoker is required;
// the rest are optional and disable their stage when nil.
type ServiceConfig struct {
	Invoker      ModelInvoker
	Preprocessor Preprocessor
	Cache        ResultCache
	Metrics      *Metrics
	Logger       *slog.Logger
}

// NewService creates a detection service from the given configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Invoker == nil {
		return nil, errors.New("model invoker is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		invoker:      cfg.Invoker,
		preprocessor: cfg.Preprocessor,
		cache:        cfg.Cache,
		metrics:      cfg.Metrics,
		logger:       logger,
		timeNow:      time.Now,
	}, nil
}

// Detect runs the full pipeline on a PNG blueprint image. It never returns
// a Go error: failures are folded into the envelope together with the
// elapsed time, which is what stored results and clients expect to see.
func (s *Service) Detect(ctx context.Context, image []byte, opts Options) Result {
	start := s.timeNow()

	complexity := opts.Complexity
	if complexity == "" {
		complexity = ComplexityStandard
	}

	rooms, err := s.run(ctx, image, complexity, opts.HasSmallText)
	elapsed := s.timeNow().Sub(start).Seconds()

	if err != nil {
		s.logger.ErrorContext(ctx, "room detection failed",
			"error", err,
			"complexity", complexity,
			"elapsed_seconds", elapsed,
		)
		if s.metrics != nil {
			s.metrics.IncDetections(StatusFailure, complexity)
			s.metrics.ObserveDuration(StatusFailure, elapsed)
		}
		msg := err.Error()
		return Result{Success: false, Rooms: []validate.RoomRecord{}, ProcessingTime: elapsed, Error: &msg}
	}

	if s.metrics != nil {
		s.metrics.IncDetections(StatusSuccess, complexity)
		s.metrics.ObserveDuration(StatusSuccess, elapsed)
		s.metrics.ObserveRoomCount(len(rooms))
	}
	s.logger.InfoContext(ctx, "room detection completed",
		"rooms", len(rooms),
		"complexity", complexity,
		"elapsed_seconds", elapsed,
	)
	return Result{Success: true, Rooms: rooms, ProcessingTime: elapsed}
}

func (s *Service) run(ctx context.Context, image []byte, complexity string, hasSmallText bool) ([]validate.RoomRecord, error) {
	prompt := PromptFor(complexity, hasSmallText)

	var cacheKey string
	if s.cache != nil {
		cacheKey = resultKey(image, prompt)
		rooms, ok, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "detection cache lookup failed", "error", err)
		case ok:
			s.logger.DebugContext(ctx, "detection served from cache", "rooms", len(rooms))
			return rooms, nil
		}
	}

	processed := image
	if s.preprocessor != nil {
		var err error
		processed, err = s.stagePreprocess(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("preprocess image: %w", err)
		}
	}

	text, err := s.stageInvoke(ctx, processed, prompt)
	if err != nil {
		return nil, fmt.Errorf("invoke vision model: %w", err)
	}

	raws, err := s.stageParse(ctx, text)
	if err != nil {
		return nil, err
	}

	rooms := s.stageValidate(ctx, raws)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, rooms); err != nil {
			s.logger.WarnContext(ctx, "detection cache store failed", "error", err)
		}
	}
	return rooms, nil
}

func (s *Service) stagePreprocess(ctx context.Context, image []byte) ([]byte, error) {
	_, end := tracing.StartSpan(ctx, "detect.preprocess")
	start := s.timeNow()
	processed, err := s.preprocessor.PreprocessBlueprint(image)
	s.observeStage(StagePreprocess, start)
	end(err)
	return processed, err
}

func (s *Service) stageInvoke(ctx context.Context, image []byte, prompt string) (string, error) {
	ctx, end := tracing.StartSpan(ctx, "detect.invoke_model")
	start := s.timeNow()
	text, err := s.invoker.InvokeVisionModel(ctx, image, prompt)
	s.observeStage(StageInvoke, start)
	end(err)
	return text, err
}

func (s *Service) stageParse(ctx context.Context, text string) ([]json.RawMessage, error) {
	_, end := tracing.StartSpan(ctx, "detect.parse_response")
	start := s.timeNow()
	raws, err := ParseRooms(text)
	s.observeStage(StageParse, start)
	end(err)
	return raws, err
}

func (s *Service) stageValidate(ctx context.Context, raws []json.RawMessage) []validate.RoomRecord {
	_, end := tracing.StartSpan(ctx, "detect.validate_rooms")
	start := s.timeNow()
	rooms := validate.Rooms(raws)
	s.observeStage(StageValidate, start)
	end(nil)

	if dropped := len(raws) - len(rooms); dropped > 0 && s.metrics != nil {
		s.metrics.AddRecordsDropped(dropped)
	}
	return rooms
}

func (s *Service) observeStage(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, s.timeNow().Sub(start).Seconds())
	}
}

// resultKey derives the cache key from the image bytes and the exact
// prompt text, so a prompt change never serves stale rooms.
func resultKey(image []byte, prompt string) string {
	h := sha256.New()
	h.Write(image)
	h.Write([]byte(prompt))
	return "detect:" + hex.EncodeToString(h.Sum(nil))
}
