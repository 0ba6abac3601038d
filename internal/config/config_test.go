package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTHORIZED_USER", "")
	t.Setenv("SCORE_THRESHOLD", "")
	t.Setenv("PAYMENT_DELAY", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.JWTSecret)
	assert.False(t, cfg.APIEnabled())

	assert.Equal(t, 0.5, cfg.ScoreThreshold)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.Equal(t, "template", cfg.StockProvider)
	assert.Equal(t, "automl", cfg.ClassifierBackend)
	assert.Equal(t, "http://localhost:3000", cfg.WebUIBaseURL)
	assert.Empty(t, cfg.AuthorizedUsers)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AUTHORIZED_USER", "123, 456")
	t.Setenv("SCORE_THRESHOLD", "0.8")
	t.Setenv("PAYMENT_DELAY", "500ms")
	t.Setenv("GCLOUD_PROJECT", "")
	t.Setenv("PROJECT_ID", "food-project")
	t.Setenv("REGION_NAME", "")
	t.Setenv("COMPUTE_REGION", "us-central1")
	t.Setenv("DISCORD_REDIRECT_URI", "https://bot.example.com/api/auth/callback")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{123, 456}, cfg.AuthorizedUsers)
	assert.Equal(t, 0.8, cfg.ScoreThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.PaymentDelay)
	assert.Equal(t, "food-project", cfg.GCloudProject)
	assert.Equal(t, "us-central1", cfg.GCloudRegion)
	assert.Equal(t, "https://bot.example.com", cfg.WebUIBaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "user id", key: "AUTHORIZED_USER", val: "abc"},
		{name: "threshold", key: "SCORE_THRESHOLD", val: "1.5"},
		{name: "delay", key: "PAYMENT_DELAY", val: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DiscordToken:      "token",
		AuthorizedUsers:   []int64{1},
		StockProvider:     "template",
		StockAPIURL:       "https://example.com/<%STOCK_QUOTE%>.json",
		ClassifierBackend: "automl",
		GCloudProject:     "p",
		GCloudRegion:      "r",
		ModelID:           "m",
	}
	require.NoError(t, valid.Validate())

	noToken := valid
	noToken.DiscordToken = ""
	assert.ErrorContains(t, noToken.Validate(), "DISCORD_TOKEN")

	noUsers := valid
	noUsers.AuthorizedUsers = nil
	assert.ErrorContains(t, noUsers.Validate(), "AUTHORIZED_USER")

	openai := valid
	openai.ClassifierBackend = "openai"
	assert.ErrorContains(t, openai.Validate(), "OPENAI_API_KEY")

	yahoo := valid
	yahoo.StockProvider = "yahoo"
	yahoo.StockAPIURL = ""
	assert.NoError(t, yahoo.Validate())
}

func TestValidateJWTSecret(t *testing.T) {
	cfg := Config{
		DiscordToken:      "token",
		AuthorizedUsers:   []int64{1},
		StockProvider:     "yahoo",
		ClassifierBackend: "openai",
		OpenAIAPIKey:      "k",
	}
	require.NoError(t, cfg.Validate())

	for _, weak := range []string{"dev-only-change-me", "short"} {
		cfg.JWTSecret = weak
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	}

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.APIEnabled())
}
