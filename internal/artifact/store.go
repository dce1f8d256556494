// Package artifact persists pipeline artifacts in an S3-compatible
// object store: rendered blueprint images, ground truth annotations, and
// detection results.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/blueplan/roomsight/internal/scoring"
	"github.com/blueplan/roomsight/internal/tracing"
)

// Object key prefixes, one per artifact kind.
const (
	blueprintPrefix   = "blueprints/"
	groundTruthPrefix = "ground-truth/"
	resultPrefix      = "results/"
)

// Content types for stored artifacts.
const (
	contentTypePNG  = "image/png"
	contentTypeJSON = "application/json"
)

// DefaultURLExpiry bounds how long presigned download URLs stay valid.
const DefaultURLExpiry = 15 * time.Minute

// ErrInvalidArtifactID reports an artifact id that is empty after
// sanitization.
var ErrInvalidArtifactID = errors.New("invalid artifact id")

// Store reads and writes artifacts in a single bucket. Safe for
// concurrent use.
type Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	urlExpiry time.Duration
	timeNow   func() time.Time // For testability
}

// StoreConfig holds the object store configuration. Bucket and static
// credentials are required; Endpoint switches the client to path-style
// addressing for S3-compatible stores such as MinIO or R2.
type StoreConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	URLExpiry       time.Duration
}

// NewStore creates an artifact store from the given configuration.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("static credentials are required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = DefaultURLExpiry
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)

	return &Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		urlExpiry: cfg.URLExpiry,
		timeNow:   time.Now,
	}, nil
}

// Client returns the underlying S3 client so readiness checks can share
// the store's connection settings.
func (s *Store) Client() *s3.Client {
	return s.client
}

// BlueprintImageKey returns the object key for a rendered blueprint PNG.
func BlueprintImageKey(blueprintID string) (string, error) {
	id := sanitizeID(blueprintID)
	if id == "" {
		return "", ErrInvalidArtifactID
	}
	return blueprintPrefix + id + ".png", nil
}

// GroundTruthKey returns the object key for a ground truth annotation.
func GroundTruthKey(blueprintID string) (string, error) {
	id := sanitizeID(blueprintID)
	if id == "" {
		return "", ErrInvalidArtifactID
	}
	return groundTruthPrefix + id + scoring.GroundTruthSuffix, nil
}

// ResultKey returns the object key for a stored detection result.
func ResultKey(resultID string) (string, error) {
	id := sanitizeID(resultID)
	if id == "" {
		return "", ErrInvalidArtifactID
	}
	return resultPrefix + id + scoring.PredictedSuffix, nil
}

// sanitizeID strips everything but alphanumerics, hyphens, and
// underscores so ids cannot escape their key prefix.
func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PutBlueprintImage stores a rendered blueprint PNG and returns its key.
func (s *Store) PutBlueprintImage(ctx context.Context, blueprintID string, png []byte) (string, error) {
	key, err := BlueprintImageKey(blueprintID)
	if err != nil {
		return "", err
	}
	return key, s.put(ctx, key, png, contentTypePNG)
}

// PutGroundTruth stores a ground truth annotation document and returns
// its key.
func (s *Store) PutGroundTruth(ctx context.Context, blueprintID string, doc []byte) (string, error) {
	key, err := GroundTruthKey(blueprintID)
	if err != nil {
		return "", err
	}
	return key, s.put(ctx, key, doc, contentTypeJSON)
}

// PutResult stores a detection result envelope and returns its key.
func (s *Store) PutResult(ctx context.Context, resultID string, result []byte) (string, error) {
	key, err := ResultKey(resultID)
	if err != nil {
		return "", err
	}
	return key, s.put(ctx, key, result, contentTypeJSON)
}

func (s *Store) put(ctx context.Context, key string, data []byte, contentType string) (err error) {
	ctx, end := tracing.StartStorageSpan(ctx, "s3", tracing.StorageOperationPut)
	defer func() { end(err) }()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Get fetches an object by key.
func (s *Store) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := tracing.StartStorageSpan(ctx, "s3", tracing.StorageOperationGet)
	defer func() { end(err) }()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err = io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// DownloadURL is a time-limited GET URL for a stored artifact.
type DownloadURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PresignDownload signs a GET URL for key. Signing is local; the object
// is not checked for existence.
func (s *Store) PresignDownload(ctx context.Context, key string) (signed *DownloadURL, err error) {
	ctx, end := tracing.StartStorageSpan(ctx, "s3", tracing.StorageOperationPresign)
	defer func() { end(err) }()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign download %s: %w", key, err)
	}
	return &DownloadURL{
		URL:       req.URL,
		Key:       key,
		ExpiresAt: s.timeNow().Add(s.urlExpiry),
	}, nil
}
