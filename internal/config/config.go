package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Discord Bot
	DiscordToken    string
	AuthorizedUsers []int64
	LoadingSticker  string

	// Stock quotes
	StockAPIURL   string
	StockProvider string

	// Image classification
	ClassifierBackend string
	GCloudProject     string
	GCloudRegion      string
	ModelID           string
	ScoreThreshold    float64
	OpenAIAPIKey      string
	OpenAIModel       string
	FoodMappingFile   string

	// Timing
	PaymentDelay time.Duration
	SessionTTL   time.Duration
	HTTPTimeout  time.Duration

	// Database (optional payment journal)
	DatabaseURL string

	// Web Server
	WebBind      string
	WebUIBaseURL string

	// Discord OAuth2
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string

	// Session; the HTTP API is disabled when empty
	JWTSecret string
}

// minJWTSecretLen is the shortest accepted HS256 signing secret.
const minJWTSecretLen = 32

// APIEnabled reports whether the HTTP API can sign sessions.
func (c *Config) APIEnabled() bool {
	return c.JWTSecret != ""
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("STOCK_PROVIDER", "template")
	v.SetDefault("CLASSIFIER_BACKEND", "automl")
	v.SetDefault("SCORE_THRESHOLD", "0.5")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("FOOD_MAPPING_FILE", "data/food_mapping.txt")
	v.SetDefault("PAYMENT_DELAY", "2s")
	v.SetDefault("SESSION_TTL", "0s")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("WEB_BIND", "0.0.0.0:3000")
	v.SetDefault("DISCORD_REDIRECT_URI", "http://localhost:3000/api/auth/callback")

	cfg := &Config{
		DiscordToken:        v.GetString("DISCORD_TOKEN"),
		LoadingSticker:      v.GetString("LOADING_STICKER_URL"),
		StockAPIURL:         v.GetString("STOCK_API_URL"),
		StockProvider:       strings.ToLower(v.GetString("STOCK_PROVIDER")),
		ClassifierBackend:   strings.ToLower(v.GetString("CLASSIFIER_BACKEND")),
		GCloudProject:       firstNonEmpty(v.GetString("GCLOUD_PROJECT"), v.GetString("PROJECT_ID")),
		GCloudRegion:        firstNonEmpty(v.GetString("REGION_NAME"), v.GetString("COMPUTE_REGION")),
		ModelID:             v.GetString("MODEL_ID"),
		OpenAIAPIKey:        v.GetString("OPENAI_API_KEY"),
		OpenAIModel:         v.GetString("OPENAI_MODEL"),
		FoodMappingFile:     v.GetString("FOOD_MAPPING_FILE"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		WebBind:             v.GetString("WEB_BIND"),
		DiscordClientID:     v.GetString("DISCORD_CLIENT_ID"),
		DiscordClientSecret: v.GetString("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURI:  v.GetString("DISCORD_REDIRECT_URI"),
		JWTSecret:           v.GetString("JWT_SECRET"),
	}

	users, err := parseUserIDs(v.GetString("AUTHORIZED_USER"))
	if err != nil {
		return nil, err
	}
	cfg.AuthorizedUsers = users

	threshold, err := strconv.ParseFloat(strings.TrimSpace(v.GetString("SCORE_THRESHOLD")), 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("SCORE_THRESHOLD must be a number between 0 and 1")
	}
	cfg.ScoreThreshold = threshold

	if cfg.PaymentDelay, err = parseDuration(v, "PAYMENT_DELAY"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDuration(v, "SESSION_TTL"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = parseDuration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}

	// Extract base URL from redirect URI
	cfg.WebUIBaseURL = extractBaseURL(cfg.DiscordRedirectURI)

	return cfg, nil
}

// Validate checks the settings the Discord bot cannot run without.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if len(c.AuthorizedUsers) == 0 {
		return fmt.Errorf("AUTHORIZED_USER is required")
	}
	if c.APIEnabled() && len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLen)
	}
	switch c.StockProvider {
	case "template":
		if c.StockAPIURL == "" {
			return fmt.Errorf("STOCK_API_URL is required")
		}
	case "yahoo":
	default:
		return fmt.Errorf("unknown STOCK_PROVIDER %q", c.StockProvider)
	}
	switch c.ClassifierBackend {
	case "automl":
		if c.GCloudProject == "" || c.GCloudRegion == "" || c.ModelID == "" {
			return fmt.Errorf("GCLOUD_PROJECT, REGION_NAME and MODEL_ID are required for the automl classifier")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai classifier")
		}
	default:
		return fmt.Errorf("unknown CLASSIFIER_BACKEND %q", c.ClassifierBackend)
	}
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("AUTHORIZED_USER contains an invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func extractBaseURL(redirectURI string) string {
	// e.g., "http://localhost:3000/api/auth/callback" -> "http://localhost:3000"
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "http://localhost:3000"
	}

	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
}
