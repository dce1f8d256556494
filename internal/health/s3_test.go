package health

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func testS3Client(endpoint string) *s3.Client {
	return s3.New(s3.Options{
		Region: "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			"test-access-key",
			"test-secret-key",
			"",
		)),
		BaseEndpoint:     aws.String(endpoint),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
	})
}

func TestS3Checker_HealthCheck_Unreachable(t *testing.T) {
	checker := NewS3Checker(testS3Client("http://localhost:1"), "roomsight-artifacts")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := checker.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() = nil, want error for unreachable endpoint")
	}
}

func TestS3Checker_HealthCheck_MissingBucket(t *testing.T) {
	checker := NewS3Checker(testS3Client("http://localhost:1"), "")

	if err := checker.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil, want error for empty bucket name")
	}
}
