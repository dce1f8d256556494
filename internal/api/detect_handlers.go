package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/blueplan/roomsight/internal/detect"
	"github.com/blueplan/roomsight/internal/middleware"
)

// Error code logged when the pipeline reports a failed detection run.
const ErrCodeDetectionFailed = "detection_failed"

// DefaultMaxImageBytes bounds request bodies when no limit is configured.
const DefaultMaxImageBytes = 10 << 20

// DetectRequest is the JSON request body for POST /detect.
type DetectRequest struct {
	Image        string `json:"image"`
	Complexity   string `json:"complexity,omitempty"`
	HasSmallText bool   `json:"has_small_text,omitempty"`
}

// DetectResponse is the detection envelope returned by POST /detect: the
// pipeline result plus the model that produced it.
type DetectResponse struct {
	detect.Result
	Model string `json:"model,omitempty"`
}

// ResultStore persists detection envelopes for later retrieval and scoring.
type ResultStore interface {
	PutResult(ctx context.Context, resultID string, result []byte) (string, error)
}

// DetectHandlers holds dependencies for the detection endpoint.
type DetectHandlers struct {
	service  *detect.Service
	store    ResultStore
	model    string
	maxBytes int64
}

// DetectHandlersConfig configures the detection handler. Service is
// required. Store is optional; when set, every detection envelope is
// persisted under the request ID. MaxImageBytes bounds the decoded image
// size and defaults to DefaultMaxImageBytes.
type DetectHandlersConfig struct {
	Service       *detect.Service
	Store         ResultStore
	ModelID       string
	MaxImageBytes int64
}

// NewDetectHandlers creates a new detection handler.
func NewDetectHandlers(config DetectHandlersConfig) *DetectHandlers {
	maxBytes := config.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &DetectHandlers{
		service:  config.Service,
		store:    config.Store,
		model:    config.ModelID,
		maxBytes: maxBytes,
	}
}

// Detect handles POST /detect - runs room detection on a blueprint image.
//
// The request is either JSON ({"image": base64, "complexity": ...,
// "has_small_text": ...}) or raw image bytes with an image/* content type.
// Pipeline failures return 500 with the detection envelope; only
// transport-level failures use the error envelope.
func (h *DetectHandlers) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	// Base64 inflates the payload by a third, so the read limit leaves
	// room for encoding overhead on JSON bodies. The decoded image is
	// checked against the real limit below.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+h.maxBytes/3+1024)

	image, opts, ok := h.readRequest(w, r)
	if !ok {
		return
	}
	if int64(len(image)) > h.maxBytes {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodePayloadTooLarge)
		WriteError(w, ctx, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
			"Image exceeds the configured size limit")
		return
	}

	result := h.service.Detect(r.Context(), image, opts)

	response := DetectResponse{Result: result}
	if result.Success {
		response.Model = h.model
	}

	if h.store != nil {
		h.storeResult(w, r, response)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
		middleware.UpdateResponseContext(w, middleware.SetErrorCode(r.Context(), ErrCodeDetectionFailed))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode detection response", "error", err)
	}
}

// readRequest extracts the image bytes and detection options from the
// request body. On failure it writes the error response and returns
// ok=false.
func (h *DetectHandlers) readRequest(w http.ResponseWriter, r *http.Request) ([]byte, detect.Options, bool) {
	mediaType := r.Header.Get("Content-Type")
	if mediaType != "" {
		if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = mt
		}
	}

	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return h.readRawRequest(w, r)
	case mediaType == "" || mediaType == "application/json":
		return h.readJSONRequest(w, r)
	default:
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnsupportedType)
		WriteError(w, ctx, http.StatusUnsupportedMediaType, ErrCodeUnsupportedType,
			"Unsupported content type. Allowed types: application/json, image/png, image/jpeg")
		return nil, detect.Options{}, false
	}
}

func (h *DetectHandlers) readJSONRequest(w http.ResponseWriter, r *http.Request) ([]byte, detect.Options, bool) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if h.writeTooLarge(w, r, err) {
			return nil, detect.Options{}, false
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return nil, detect.Options{}, false
	}

	if req.Image == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "image is required")
		return nil, detect.Options{}, false
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "image must be valid base64")
		return nil, detect.Options{}, false
	}

	if !validComplexity(req.Complexity) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation,
			"complexity must be one of simple, standard, complex")
		return nil, detect.Options{}, false
	}

	return image, detect.Options{Complexity: req.Complexity, HasSmallText: req.HasSmallText}, true
}

func (h *DetectHandlers) readRawRequest(w http.ResponseWriter, r *http.Request) ([]byte, detect.Options, bool) {
	image, err := io.ReadAll(r.Body)
	if err != nil {
		if h.writeTooLarge(w, r, err) {
			return nil, detect.Options{}, false
		}
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body")
		return nil, detect.Options{}, false
	}

	if len(image) == 0 {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "request body is empty")
		return nil, detect.Options{}, false
	}

	return image, detect.Options{}, true
}

// writeTooLarge maps body reads cut off by MaxBytesReader to 413.
func (h *DetectHandlers) writeTooLarge(w http.ResponseWriter, r *http.Request, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	ctx := middleware.SetErrorCode(r.Context(), ErrCodePayloadTooLarge)
	WriteError(w, ctx, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
		"Request body exceeds the configured size limit")
	return true
}

// storeResult persists the detection envelope under the request ID and
// exposes the object key to the client. Store failures are logged but do
// not fail the request; the client still gets its detection.
func (h *DetectHandlers) storeResult(w http.ResponseWriter, r *http.Request, response DetectResponse) {
	resultID := middleware.GetRequestID(r.Context())
	if resultID == "" {
		resultID = uuid.New().String()
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to marshal detection result for storage", "error", err)
		return
	}

	key, err := h.store.PutResult(r.Context(), resultID, data)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to store detection result",
			"result_id", resultID,
			"error", err,
		)
		return
	}
	w.Header().Set("X-Result-Key", key)
}

func validComplexity(c string) bool {
	switch c {
	case "", detect.ComplexitySimple, detect.ComplexityStandard, detect.ComplexityComplex:
		return true
	}
	return false
}
