// Package config loads server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/mmynk/billsplitter/internal/auth"
	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/scan"
	"github.com/mmynk/billsplitter/internal/vision"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port            string
	StaticPath      string
	DBPath          string
	LogLevel        string
	LogFormat       string
	DefaultCurrency string
	ShutdownTimeout time.Duration

	// Scan access
	ScanAccessCode     string
	ScanAccessCodeHash string
	SessionSecret      string
	SessionTTL         time.Duration

	// Classifier
	AnthropicAPIKey string
	VisionModel     string
	VisionMaxTokens int64
	VisionTimeout   time.Duration
	MaxImageBytes   int
	ScanRateLimit   string
	TrustProxy      bool

	// Notifications
	TelegramBotToken string
	TelegramChatID   string
	NotifyLocation   *time.Location

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and optional .env files.
// Unset keys take their defaults; malformed values are errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	p := parser{k: k}
	cfg := &Config{
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		StaticPath:         valueOrDefault(k.String("STATIC_PATH"), "./static"),
		DBPath:             valueOrDefault(k.String("DB_PATH"), "./data/scans.db"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "text"),
		DefaultCurrency:    currency.Normalize(valueOrDefault(k.String("DEFAULT_CURRENCY"), "MVR")),
		ShutdownTimeout:    p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		ScanAccessCode:     strings.TrimSpace(k.String("SCAN_ACCESS_CODE")),
		ScanAccessCodeHash: strings.TrimSpace(k.String("SCAN_ACCESS_CODE_HASH")),
		SessionSecret:      k.String("SESSION_SECRET"),
		SessionTTL:         p.duration("SESSION_TTL", 12*time.Hour),
		AnthropicAPIKey:    strings.TrimSpace(k.String("ANTHROPIC_API_KEY")),
		VisionModel:        valueOrDefault(k.String("VISION_MODEL"), vision.DefaultModel),
		VisionMaxTokens:    int64(p.integer("VISION_MAX_TOKENS", int(vision.DefaultMaxTokens))),
		VisionTimeout:      p.duration("VISION_TIMEOUT", vision.DefaultTimeout),
		MaxImageBytes:      p.integer("MAX_IMAGE_BYTES", scan.DefaultMaxImageBytes),
		ScanRateLimit:      valueOrDefault(k.String("SCAN_RATE_LIMIT"), "10-M"),
		TrustProxy:         parseBool(k.String("TRUST_PROXY")),
		TelegramBotToken:   strings.TrimSpace(k.String("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:     strings.TrimSpace(k.String("TELEGRAM_CHAT_ID")),
		NotifyLocation:     p.location("NOTIFY_TIMEZONE"),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if !currency.Known(cfg.DefaultCurrency) {
		return nil, fmt.Errorf("DEFAULT_CURRENCY: unsupported currency %q", cfg.DefaultCurrency)
	}
	if cfg.VisionMaxTokens <= 0 {
		return nil, errors.New("VISION_MAX_TOKENS must be positive")
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, errors.New("MAX_IMAGE_BYTES must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if len(cfg.ScanAccessCode) > auth.MaxAccessCodeBytes {
		return nil, fmt.Errorf("SCAN_ACCESS_CODE must be at most %d bytes", auth.MaxAccessCodeBytes)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT: want text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ScanEnabled reports whether an access code or hash is configured.
func (c *Config) ScanEnabled() bool {
	return c.ScanAccessCode != "" || c.ScanAccessCodeHash != ""
}

// parser collects errors so every malformed key is reported at once.
type parser struct {
	k    *koanf.Koanf
	errs []error
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(p.k.String(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	raw := strings.TrimSpace(p.k.String(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) location(key string) *time.Location {
	raw := strings.TrimSpace(p.k.String(key))
	if raw == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return time.UTC
	}
	return loc
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
