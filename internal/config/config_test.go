package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"provider": "genai",
		"model": "gemini-2.5-pro",
		"temperature": 0,
		"output_dir": "site",
		"port": 9000,
		"timeout": "90s",
		"verbose": true,
		"s3": {"bucket": "portfolios", "region": "eu-west-1"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "genai", cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0), *cfg.Temperature)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.TimeoutValue())
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"provider": "openai", "port": 0}`))
	assert.Nil(t, cfg)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "does not match schema")
	assert.Contains(t, err.Error(), "provider")
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"job_url": "https://example.com/job"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoadConfig_RelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rel.json"), []byte(`{"model": "m"}`), 0644))
	t.Chdir(dir)

	cfg, err := LoadConfig("rel.json")
	require.NoError(t, err)
	assert.Equal(t, "m", cfg.Model)
}

func TestValidate(t *testing.T) {
	hot := float32(2.5)
	cold := float32(-0.1)
	ok := float32(2)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"defaults are valid", Defaults(), ""},
		{"max temperature", Config{Temperature: &ok}, ""},
		{"temperature too high", Config{Temperature: &hot}, "'temperature' must be at most 2"},
		{"negative temperature", Config{Temperature: &cold}, "'temperature' must be at least 0"},
		{"unknown provider", Config{Provider: "openai"}, "'provider' must be one of: gemini genai"},
		{"port out of range", Config{Port: 70000}, "'port' must be at most 65535"},
		{"negative port", Config{Port: -1}, "'port' must be at least 1"},
		{"archive name", Config{ArchiveName: "site.tar"}, "'archive_name' must end with .zip"},
		{"negative timeout", Config{Timeout: Duration(-time.Second)}, "'timeout' must be non-negative"},
		{"s3 key without secret", Config{S3: S3Config{AccessKey: "AK"}}, "'s3.secret_key' is required"},
		{"s3 bad endpoint", Config{S3: S3Config{EndpointURL: "not a url"}}, "s3.endpoint_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	temperature := float32(1.1)
	cfg := &Config{
		Model:       "gemini-2.5-pro",
		Temperature: &temperature,
		S3:          S3Config{Bucket: "from-file"},
	}
	defaults := Defaults()
	defaults.S3 = S3Config{Bucket: "from-env", Region: "us-east-1", AccessKey: "AK", SecretKey: "SK"}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "gemini-2.5-pro", merged.Model)
	assert.Equal(t, float32(1.1), merged.TemperatureValue())
	assert.Equal(t, DefaultProvider, merged.Provider)
	assert.Equal(t, DefaultOutputDir, merged.OutputDir)
	assert.Equal(t, DefaultArchiveName, merged.ArchiveName)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
	assert.Equal(t, DefaultTimeout, merged.TimeoutValue())
	assert.Equal(t, "from-file", merged.S3.Bucket)
	assert.Equal(t, "us-east-1", merged.S3.Region)
	assert.Equal(t, "AK", merged.S3.AccessKey)

	// original untouched
	assert.Equal(t, "", cfg.Provider)
}

func TestTemperatureValue_Default(t *testing.T) {
	assert.Equal(t, float32(DefaultTemperature), (&Config{}).TemperatureValue())
}

func TestFromEnv(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"gemini":       "lowercase-key",
		EnvS3Bucket:    "bucket",
		EnvS3Endpoint:  "http://localhost:9000",
		EnvS3AccessKey: "AK",
		EnvS3SecretKey: "SK",
	}))

	assert.Equal(t, "lowercase-key", cfg.APIKey)
	assert.Equal(t, "bucket", cfg.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.S3.EndpointURL)
	assert.Empty(t, cfg.S3.Region)
}

func TestResolveAPIKey_Precedence(t *testing.T) {
	env := envMap(map[string]string{"GEMINI_API_KEY": "env-key", "gemini": "legacy-key"})
	file := &Config{APIKey: "file-key"}

	key, err := ResolveAPIKey("flag-key", file, env)
	require.NoError(t, err)
	assert.Equal(t, "flag-key", key)

	key, err = ResolveAPIKey("", file, env)
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)

	key, err = ResolveAPIKey("", nil, env)
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	key, err = ResolveAPIKey("  ", &Config{}, envMap(map[string]string{"gemini": "legacy-key"}))
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", key)
}

func TestResolveAPIKey_Missing(t *testing.T) {
	_, err := ResolveAPIKey("", &Config{}, envMap(nil))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "no API key configured")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"2m"`)))
	assert.Equal(t, Duration(2*time.Minute), d)

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))

	assert.Error(t, d.UnmarshalJSON([]byte(`120`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}
