// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/portfolio-builder/internal/schemas"
)

// Defaults
const (
	DefaultProvider       = "gemini"
	DefaultModel          = "gemini-2.5-flash"
	DefaultTemperature    = 0.5
	DefaultOutputDir      = "portfolio"
	DefaultArchiveName    = "my_portfolio.zip"
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 10 << 20
	DefaultTimeout        = 5 * time.Minute
)

// Credential environment variables, in lookup order
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "gemini"}

// S3 environment variables
const (
	EnvS3Bucket    = "S3_BUCKET"
	EnvS3Endpoint  = "S3_ENDPOINT_URL"
	EnvS3Region    = "S3_REGION"
	EnvS3AccessKey = "S3_ACCESS_KEY"
	EnvS3SecretKey = "S3_SECRET_KEY"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Model
	APIKey      string   `json:"api_key,omitempty"`
	Provider    string   `json:"provider,omitempty" validate:"omitempty,oneof=gemini genai"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`

	// Output
	OutputDir   string `json:"output_dir,omitempty"`
	ArchiveName string `json:"archive_name,omitempty" validate:"omitempty,endswith=.zip"`

	// Server
	Port           int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	MaxUploadBytes int64    `json:"max_upload_bytes,omitempty" validate:"omitempty,min=1"`
	Timeout        Duration `json:"timeout,omitempty"`

	Verbose bool `json:"verbose,omitempty"`

	// Optional export of packaged sites
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config holds settings for uploading packaged sites to S3-compatible storage
type S3Config struct {
	Bucket      string `json:"bucket,omitempty"`
	EndpointURL string `json:"endpoint_url,omitempty" validate:"omitempty,url"`
	Region      string `json:"region,omitempty"`
	AccessKey   string `json:"access_key,omitempty" validate:"required_with=SecretKey"`
	SecretKey   string `json:"secret_key,omitempty" validate:"required_with=AccessKey"`
}

// Enabled reports whether a bucket is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Duration is a time.Duration written as a Go duration string in JSON
type Duration time.Duration

// UnmarshalJSON parses strings such as "90s" or "5m"
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Defaults returns the built-in configuration
func Defaults() Config {
	temperature := float32(DefaultTemperature)
	return Config{
		Provider:       DefaultProvider,
		Model:          DefaultModel,
		Temperature:    &temperature,
		OutputDir:      DefaultOutputDir,
		ArchiveName:    DefaultArchiveName,
		Port:           DefaultPort,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Timeout:        Duration(DefaultTimeout),
	}
}

// LoadConfig loads configuration from a JSON file.
// The document is checked against the config schema before decoding.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, &ConfigurationError{Message: "failed to parse config JSON", Cause: fmt.Errorf("%s is not valid JSON", path)}
	}
	if err := schemas.ValidateConfig(data); err != nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("config file %s does not match schema", path), Cause: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Message: "failed to parse config JSON", Cause: err}
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Required values such as the API key are checked by ResolveAPIKey instead.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &ConfigurationError{Message: "invalid config", Cause: err}
		}
		msgs := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msgs = append(msgs, describe(fe))
		}
		return &ConfigurationError{Message: strings.Join(msgs, "; ")}
	}

	if c.Timeout < 0 {
		return &ConfigurationError{Message: "'timeout' must be non-negative"}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("'%s' must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("'%s' must be at most %s", field, fe.Param())
	case "endswith":
		return fmt.Sprintf("'%s' must end with %s", field, fe.Param())
	case "required_with":
		return fmt.Sprintf("'%s' is required when %s is set", field, fe.Param())
	default:
		return fmt.Sprintf("'%s' failed %s validation", field, fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Bools are not merged: unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Temperature == nil {
		result.Temperature = defaults.Temperature
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ArchiveName == "" {
		result.ArchiveName = defaults.ArchiveName
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}

	if result.S3.Bucket == "" {
		result.S3.Bucket = defaults.S3.Bucket
	}
	if result.S3.EndpointURL == "" {
		result.S3.EndpointURL = defaults.S3.EndpointURL
	}
	if result.S3.Region == "" {
		result.S3.Region = defaults.S3.Region
	}
	if result.S3.AccessKey == "" && result.S3.SecretKey == "" {
		result.S3.AccessKey = defaults.S3.AccessKey
		result.S3.SecretKey = defaults.S3.SecretKey
	}

	return result
}

// TemperatureValue returns the configured temperature or the default
func (c *Config) TemperatureValue() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// TimeoutValue returns the configured request timeout or the default
func (c *Config) TimeoutValue() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout)
}

// FromEnv returns the settings found in the environment. It is meant to be
// passed to MergeWithDefaults so file values win over the environment.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Config{
		S3: S3Config{
			Bucket:      getenv(EnvS3Bucket),
			EndpointURL: getenv(EnvS3Endpoint),
			Region:      getenv(EnvS3Region),
			AccessKey:   getenv(EnvS3AccessKey),
			SecretKey:   getenv(EnvS3SecretKey),
		},
	}
	for _, name := range APIKeyEnvVars {
		if key := strings.TrimSpace(getenv(name)); key != "" {
			cfg.APIKey = key
			break
		}
	}
	return cfg
}

// ResolveAPIKey picks the model credential: the flag value first, then the
// config file, then the environment. A missing key is a ConfigurationError.
func ResolveAPIKey(flagValue string, fileCfg *Config, getenv func(string) string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	if fileCfg != nil {
		if key := strings.TrimSpace(fileCfg.APIKey); key != "" {
			return key, nil
		}
	}
	if key := FromEnv(getenv).APIKey; key != "" {
		return key, nil
	}
	return "", &ConfigurationError{
		Message: fmt.Sprintf("no API key configured: pass --api-key, set api_key in the config file, or set %s", strings.Join(APIKeyEnvVars, " or ")),
	}
}
