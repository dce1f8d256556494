// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Bedrock vision model. Zero values fall back to the vision client defaults.
	BedrockModelID        string `koanf:"bedrock_model_id"`
	BedrockRegion         string `koanf:"bedrock_region"`
	BedrockMaxRetries     int    `koanf:"bedrock_max_retries"`
	BedrockTimeoutSeconds int    `koanf:"bedrock_timeout_seconds"`

	// Image preprocessing. Zero values fall back to the image processor defaults.
	ImageMaxDimension   int     `koanf:"image_max_dimension"`
	ImageContrastFactor float64 `koanf:"image_contrast_factor"`
	MaxImageSizeMB      int     `koanf:"max_image_size_mb"` // Request body limit. Default: 10MB

	// Redis result cache. Leaving the address empty disables caching.
	RedisAddr       string `koanf:"redis_addr"`
	RedisPassword   string `koanf:"redis_password"`
	RedisDB         int    `koanf:"redis_db"`
	CacheTTLMinutes int    `koanf:"cache_ttl_minutes"`

	// S3 artifact storage (optional)
	S3Bucket          string `koanf:"s3_bucket"`
	S3Region          string `koanf:"s3_region"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
	S3Endpoint        string `koanf:"s3_endpoint"`

	// Tracing
	TracingEnabled      bool    `koanf:"tracing_enabled"`
	TracingExporterType string  `koanf:"tracing_exporter_type"`
	TracingOTLPEndpoint string  `koanf:"tracing_otlp_endpoint"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
	TracingInsecureMode bool    `koanf:"tracing_insecure_mode"`

	// CORS. Leaving the list empty disables cross-origin handling.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// Configuration validation errors.
var (
	ErrMissingS3Bucket          = errors.New("S3_BUCKET is required")
	ErrMissingS3AccessKeyID     = errors.New("S3_ACCESS_KEY_ID is required")
	ErrMissingS3SecretAccessKey = errors.New("S3_SECRET_ACCESS_KEY is required")
	ErrInvalidPort              = errors.New("PORT must be a valid integer")
	ErrInvalidMaxImageSize      = errors.New("MAX_IMAGE_SIZE_MB must be a positive integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort                = 8080
	DefaultEnv                 = "development"
	DefaultMaxImageSizeMB      = 10
	DefaultCacheTTLMinutes     = 24 * 60
	DefaultTracingSamplingRate = 1.0
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Parse port from env, collecting error if invalid
	// Try ROOMSIGHT_PORT first, then PORT for platforms that inject it
	port, portErr := getEnvIntOrDefaultMulti([]string{"ROOMSIGHT_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	bedrockRetries, retriesErr := getEnvIntOrDefault("BEDROCK_MAX_RETRIES", k.Int("bedrock_max_retries"), 0)
	if retriesErr != nil {
		loadErrs = append(loadErrs, retriesErr)
	}

	bedrockTimeout, timeoutErr := getEnvIntOrDefault("BEDROCK_TIMEOUT_SECONDS", k.Int("bedrock_timeout_seconds"), 0)
	if timeoutErr != nil {
		loadErrs = append(loadErrs, timeoutErr)
	}

	maxDimension, dimensionErr := getEnvIntOrDefault("IMAGE_MAX_DIMENSION", k.Int("image_max_dimension"), 0)
	if dimensionErr != nil {
		loadErrs = append(loadErrs, dimensionErr)
	}

	contrastFactor, contrastErr := getEnvFloatOrDefault("IMAGE_CONTRAST_FACTOR", k.Float64("image_contrast_factor"), 0)
	if contrastErr != nil {
		loadErrs = append(loadErrs, contrastErr)
	}

	maxImageSize, sizeErr := getEnvIntOrDefault("MAX_IMAGE_SIZE_MB", k.Int("max_image_size_mb"), DefaultMaxImageSizeMB)
	if sizeErr != nil {
		loadErrs = append(loadErrs, sizeErr)
	}

	redisDB, dbErr := getEnvIntOrDefault("REDIS_DB", k.Int("redis_db"), 0)
	if dbErr != nil {
		loadErrs = append(loadErrs, dbErr)
	}

	cacheTTL, ttlErr := getEnvIntOrDefault("CACHE_TTL_MINUTES", k.Int("cache_ttl_minutes"), DefaultCacheTTLMinutes)
	if ttlErr != nil {
		loadErrs = append(loadErrs, ttlErr)
	}

	samplingRate, samplingErr := getEnvFloatOrDefault("TRACING_SAMPLING_RATE", k.Float64("tracing_sampling_rate"), DefaultTracingSamplingRate)
	if samplingErr != nil {
		loadErrs = append(loadErrs, samplingErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                  port,
		Env:                   getEnvOrDefaultMulti([]string{"ROOMSIGHT_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		BedrockModelID:        getEnvOrKoanf("BEDROCK_MODEL_ID", k, "bedrock_model_id"),
		BedrockRegion:         getEnvOrKoanf("BEDROCK_REGION", k, "bedrock_region"),
		BedrockMaxRetries:     bedrockRetries,
		BedrockTimeoutSeconds: bedrockTimeout,
		ImageMaxDimension:     maxDimension,
		ImageContrastFactor:   contrastFactor,
		MaxImageSizeMB:        maxImageSize,
		RedisAddr:             getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		RedisPassword:         getEnvOrKoanf("REDIS_PASSWORD", k, "redis_password"),
		RedisDB:               redisDB,
		CacheTTLMinutes:       cacheTTL,
		S3Bucket:              getEnvOrKoanf("S3_BUCKET", k, "s3_bucket"),
		S3Region:              getEnvOrKoanf("S3_REGION", k, "s3_region"),
		S3AccessKeyID:         getEnvOrKoanf("S3_ACCESS_KEY_ID", k, "s3_access_key_id"),
		S3SecretAccessKey:     getEnvOrKoanf("S3_SECRET_ACCESS_KEY", k, "s3_secret_access_key"),
		S3Endpoint:            getEnvOrKoanf("S3_ENDPOINT", k, "s3_endpoint"),
		TracingEnabled:        getEnvBoolOrDefault("TRACING_ENABLED", k, "tracing_enabled", false),
		TracingExporterType:   getEnvOrKoanf("TRACING_EXPORTER_TYPE", k, "tracing_exporter_type"),
		TracingOTLPEndpoint:   getEnvOrKoanf("TRACING_OTLP_ENDPOINT", k, "tracing_otlp_endpoint"),
		TracingSamplingRate:   samplingRate,
		TracingInsecureMode:   getEnvBoolOrDefault("TRACING_INSECURE_MODE", k, "tracing_insecure_mode", false),
		CORSAllowedOrigins:    getEnvStringsOrKoanf("CORS_ALLOWED_ORIGINS", k, "cors_allowed_origins"),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
// Note: A zero value in a YAML file falls back to the default; zero is not supported in YAML files.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvStringsOrKoanf returns the environment variable as a comma-separated
// list if set, otherwise the koanf string slice. Entries are trimmed and
// blanks dropped.
func getEnvStringsOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) []string {
	if val := os.Getenv(envKey); val != "" {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return k.Strings(koanfKey)
}

// getEnvBoolOrDefault returns the environment variable as bool if set, otherwise the koanf value, or default.
// Recognized env values are true/1/yes/on and false/0/no/off; anything else is ignored.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) bool {
	val := defaultVal
	if k.Exists(koanfKey) {
		val = k.Bool(koanfKey)
	}
	if env := os.Getenv(envKey); env != "" {
		// Env var takes precedence over file config
		switch strings.ToLower(env) {
		case "true", "1", "yes", "on":
			val = true
		case "false", "0", "no", "off":
			val = false
		}
	}
	return val
}

// Validate checks that the configuration is internally consistent.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.MaxImageSizeMB <= 0 {
		errs = append(errs, ErrInvalidMaxImageSize)
	}

	// S3 storage is optional. Only validate fields if any S3 value is set.
	if c.S3Bucket != "" || c.S3Region != "" || c.S3AccessKeyID != "" || c.S3SecretAccessKey != "" || c.S3Endpoint != "" {
		if c.S3Bucket == "" {
			errs = append(errs, ErrMissingS3Bucket)
		}
		if c.S3AccessKeyID == "" {
			errs = append(errs, ErrMissingS3AccessKeyID)
		}
		if c.S3SecretAccessKey == "" {
			errs = append(errs, ErrMissingS3SecretAccessKey)
		}
	}

	return errs
}

// CacheEnabled reports whether a Redis result cache should be wired up.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// ArtifactStoreEnabled reports whether an S3 artifact store should be wired up.
func (c *Config) ArtifactStoreEnabled() bool {
	return c.S3Bucket != ""
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                    fmt.Sprintf("%d", c.Port),
		"env":                     c.Env,
		"bedrock_model_id":        c.BedrockModelID,
		"bedrock_region":          c.BedrockRegion,
		"bedrock_max_retries":     fmt.Sprintf("%d", c.BedrockMaxRetries),
		"bedrock_timeout_seconds": fmt.Sprintf("%d", c.BedrockTimeoutSeconds),
		"image_max_dimension":     fmt.Sprintf("%d", c.ImageMaxDimension),
		"image_contrast_factor":   fmt.Sprintf("%g", c.ImageContrastFactor),
		"max_image_size_mb":       fmt.Sprintf("%d", c.MaxImageSizeMB),
		"redis_addr":              c.RedisAddr,
		"redis_password":          maskSecret(c.RedisPassword),
		"redis_db":                fmt.Sprintf("%d", c.RedisDB),
		"cache_ttl_minutes":       fmt.Sprintf("%d", c.CacheTTLMinutes),
		"s3_bucket":               c.S3Bucket,
		"s3_region":               c.S3Region,
		"s3_access_key_id":        maskSecret(c.S3AccessKeyID),
		"s3_secret_access_key":    maskSecret(c.S3SecretAccessKey),
		"s3_endpoint":             c.S3Endpoint,
		"tracing_enabled":         fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_exporter_type":   c.TracingExporterType,
		"tracing_otlp_endpoint":   c.TracingOTLPEndpoint,
		"tracing_sampling_rate":   fmt.Sprintf("%g", c.TracingSamplingRate),
		"tracing_insecure_mode":   fmt.Sprintf("%t", c.TracingInsecureMode),
		"cors_allowed_origins":    strings.Join(c.CORSAllowedOrigins, ","),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}
