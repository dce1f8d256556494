package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blueplan/roomsight/internal/artifact"
)

// fakePresigner signs URLs without an object store.
type fakePresigner struct {
	lastKey string
	err     error
}

func (f *fakePresigner) PresignDownload(ctx context.Context, key string) (*artifact.DownloadURL, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastKey = key
	return &artifact.DownloadURL{
		URL:       "https://artifacts.example.com/" + key + "?X-Amz-Signature=abc",
		Key:       key,
		ExpiresAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newResultURLRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/results/"+id+"/url", nil)
	req.SetPathValue("id", id)
	return req
}

func TestResultURL_Success(t *testing.T) {
	presigner := &fakePresigner{}
	handlers := NewResultHandlers(presigner)

	w := httptest.NewRecorder()
	handlers.ResultURL(w, newResultURLRequest("level1_test_001"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", w.Code, w.Body.String())
	}

	var resp ResultURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	wantKey := "results/level1_test_001_predicted.json"
	if resp.Key != wantKey {
		t.Errorf("expected key %s, got %s", wantKey, resp.Key)
	}
	if presigner.lastKey != wantKey {
		t.Errorf("presigner received key %s, want %s", presigner.lastKey, wantKey)
	}
	if resp.URL == "" {
		t.Error("expected a signed URL")
	}
	if resp.ExpiresAt != "2025-06-01T12:00:00Z" {
		t.Errorf("expected RFC 3339 expiry, got %s", resp.ExpiresAt)
	}
}

func TestResultURL_SanitizesID(t *testing.T) {
	presigner := &fakePresigner{}
	handlers := NewResultHandlers(presigner)

	// Path traversal characters are stripped before the key is built
	w := httptest.NewRecorder()
	handlers.ResultURL(w, newResultURLRequest("..%2F..%2Fsecret"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if presigner.lastKey != "results/2F2Fsecret_predicted.json" {
		t.Errorf("expected sanitized key, got %s", presigner.lastKey)
	}
}

func TestResultURL_InvalidID(t *testing.T) {
	presigner := &fakePresigner{}
	handlers := NewResultHandlers(presigner)

	// Nothing survives sanitization, so there is no key to sign
	w := httptest.NewRecorder()
	handlers.ResultURL(w, newResultURLRequest("///"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("expected error code %s, got %s", ErrCodeValidation, resp.Error.Code)
	}
	if presigner.lastKey != "" {
		t.Errorf("presigner should not be called, got key %s", presigner.lastKey)
	}
}

func TestResultURL_PresignError(t *testing.T) {
	presigner := &fakePresigner{err: errors.New("signing failed")}
	handlers := NewResultHandlers(presigner)

	w := httptest.NewRecorder()
	handlers.ResultURL(w, newResultURLRequest("level1_test_001"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if resp.Error.Code != ErrCodeInternal {
		t.Errorf("expected error code %s, got %s", ErrCodeInternal, resp.Error.Code)
	}
}

func TestResultURL_MethodNotAllowed(t *testing.T) {
	handlers := NewResultHandlers(&fakePresigner{})

	req := httptest.NewRequest(http.MethodPost, "/results/abc/url", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handlers.ResultURL(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
