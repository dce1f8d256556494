package health

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Checker reports whether the artifact store's bucket is reachable.
type S3Checker struct {
	client *s3.Client
	bucket string
}

// NewS3Checker creates a health checker for the given bucket.
func NewS3Checker(client *s3.Client, bucket string) *S3Checker {
	return &S3Checker{
		client: client,
		bucket: bucket,
	}
}

// HealthCheck issues a HeadBucket request against the configured bucket.
func (s *S3Checker) HealthCheck(ctx context.Context) error {
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket not configured")
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}
