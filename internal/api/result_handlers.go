package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/blueplan/roomsight/internal/artifact"
	"github.com/blueplan/roomsight/internal/middleware"
)

// ResultPresigner signs time-limited download URLs for stored artifacts.
type ResultPresigner interface {
	PresignDownload(ctx context.Context, key string) (*artifact.DownloadURL, error)
}

// ResultHandlers serves download URLs for stored detection results.
type ResultHandlers struct {
	presigner ResultPresigner
}

// NewResultHandlers creates a new result handler.
func NewResultHandlers(presigner ResultPresigner) *ResultHandlers {
	return &ResultHandlers{
		presigner: presigner,
	}
}

// ResultURLResponse is the response for GET /results/{id}/url.
type ResultURLResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ExpiresAt string `json:"expires_at"` // RFC 3339
}

// ResultURL handles GET /results/{id}/url - signs a download URL for a
// stored detection result. Signing does not check that the object exists;
// a URL for an unknown id returns 404 from the object store itself.
func (h *ResultHandlers) ResultURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	key, err := artifact.ResultKey(r.PathValue("id"))
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Invalid result id")
		return
	}

	signed, err := h.presigner.PresignDownload(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to sign result download URL",
			"key", key,
			"error", err,
		)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to sign download URL")
		return
	}

	response := ResultURLResponse{
		URL:       signed.URL,
		Key:       signed.Key,
		ExpiresAt: signed.ExpiresAt.UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
