package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGeminiKeyPriorityOrder(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "second")
	t.Setenv("VITE_API_KEY", "third")
	t.Setenv("NEXT_PUBLIC_API_KEY", "fourth")
	assert.Equal(t, "second", resolveGeminiKey())

	t.Setenv("GEMINI_API_KEY", "first")
	assert.Equal(t, "first", resolveGeminiKey())
}

func TestGeminiKeyUnset(t *testing.T) {
	for _, name := range geminiKeyEnvVars {
		t.Setenv(name, "")
	}
	assert.Equal(t, "", resolveGeminiKey())
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	assert.Equal(t, "8080", getEnv("SERVER_PORT", "8080"))

	t.Setenv("SERVER_PORT", "9999")
	assert.Equal(t, "9999", getEnv("SERVER_PORT", "8080"))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, Duration("", 30*time.Second))
	assert.Equal(t, 30*time.Second, Duration("bogus", 30*time.Second))
	assert.Equal(t, 5*time.Minute, Duration("5m", 30*time.Second))
}
