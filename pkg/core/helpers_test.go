package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile_MissingFileIsIgnored(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), ".env.missing"))

	require.NoErrorf(t, err, "a missing env file should be skipped, got %v", err)
}

func TestLoadEnvFile_SetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SURVEY_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SURVEY_TEST_KEY") })

	err := loadEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", os.Getenv("SURVEY_TEST_KEY"))
}

func TestGetEnv_KeyValue(t *testing.T) {
	t.Setenv("xyz", "abc")

	result := getEnv("xyz", "development")

	expected := "abc"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development) = %q; expected: %q`, result, expected)
}

func TestGetEnv_FallbackValue(t *testing.T) {
	t.Setenv("xyz", "")

	result := getEnv("xyz", "development")

	expected := "development"

	assert.Equalf(t, expected, result, `getEnv("xyz", "development") = %q; expected: %q`, result, expected)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, expected string
	}{
		{"http://localhost:8000", "/login", "http://localhost:8000/login"},
		{"http://localhost:8000/", "/login", "http://localhost:8000/login"},
		{"http://localhost:8000/", "submit-answers", "http://localhost:8000/submit-answers"},
		{"http://localhost:8000", "", "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinURL(tt.base, tt.path))
		})
	}
}

func TestIsProd(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.IsProd())

	cfg := NewConfig(WithEnvironment("production"))
	assert.True(t, cfg.IsProd())

	cfg = NewConfig()
	assert.False(t, cfg.IsProd())
}
