// Package vision invokes the Bedrock-hosted vision model that reads
// blueprint images. It owns the Anthropic messages payload, the retry
// policy for transient service failures, and nothing about what the
// response text means.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Defaults for ClientConfig fields left zero.
const (
	DefaultModelID    = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultRegion     = "us-east-1"
	DefaultMaxRetries = 3
	DefaultTimeout    = 60 * time.Second
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 4096
)

// modelAPI is the slice of the Bedrock runtime API the client calls.
type modelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// ClientConfig holds configuration for the vision client. Zero fields take
// the package defaults.
type ClientConfig struct {
	ModelID    string
	Region     string
	MaxRetries int
	Timeout    time.Duration // overall budget per InvokeVisionModel call
	Logger     *slog.Logger
}

// Client invokes the vision model with an image and a prompt. It is safe
// for concurrent use.
type Client struct {
	api        modelAPI
	modelID    string
	maxRetries int
	timeout    time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error // For testability
}

// NewClient creates a Bedrock vision client using the default AWS
// credential chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		api:        bedrockruntime.NewFromConfig(awsCfg),
		modelID:    cfg.ModelID,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		logger:     logger,
		sleep:      sleepContext,
	}, nil
}

// messageRequest is the Anthropic messages payload Bedrock expects for
// Claude models.
type messageRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Source *imageSource `json:"source,omitempty"`
	Text   string       `json:"text,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// InvokeVisionModel sends a PNG image and prompt to the model and returns
// the response text. Transient service failures are retried with
// exponential backoff (1s, 2s, ...) up to the configured attempt count;
// the whole call, sleeps included, runs under the configured timeout.
func (c *Client) InvokeVisionModel(ctx context.Context, imagePNG []byte, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(messageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: "image/png",
						Data:      base64.StdEncoding.EncodeToString(imagePNG),
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode model request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			if err := c.sleep(ctx, backoff); err != nil {
				return "", err
			}
		}

		text, err := c.invokeOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		if !isTransient(err) {
			return "", err
		}
		lastErr = err
		c.logger.WarnContext(ctx, "vision model invocation failed",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"error", err,
		)
	}

	return "", &TransientError{Err: lastErr}
}

func (c *Client) invokeOnce(ctx context.Context, body []byte) (string, error) {
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", c.modelID, err)
	}

	var resp messageResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("model response carried no content blocks")
	}
	return resp.Content[0].Text, nil
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
