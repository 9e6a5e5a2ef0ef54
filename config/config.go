package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	KratosURL      string        // Kratos internal URL (Frontend API - port 4433)
	KratosAdminURL string        // Kratos Admin API URL (port 4434)
	Port           string        // Service port
	CacheTTL       time.Duration // Session cache TTL

	CSRFSecret       string // CSRF secret for token generation
	AuthSharedSecret string // Shared secret for internal endpoints

	AllowedEmails       []string // Exact email addresses allowed through the gate
	AllowedEmailDomains []string // Email domains allowed through the gate
	AllowAllWhenEmpty   bool     // Open the gate when both allowlists are empty

	AllowedRedirectDomains []string      // Domains token redirects may target
	DocsBaseURL            string        // Default documentation site URL
	DocsTokenAudience      string        // Audience name for docs tokens
	DocsTokenSecret        string        // HMAC secret for docs tokens
	DocsTokenTTL           time.Duration // Docs token lifetime

	RedisAddr     string // Redis address for profiles and access requests
	RedisPassword string // Redis password, empty for none

	AccessRequestWebhookURL string // Mail webhook notified on access requests
	AdminEmail              string // Recipient of access-request notifications

	SessionPollInterval time.Duration // Identity provider poll interval for watch streams
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		KratosURL:      getEnv("KRATOS_URL", "http://kratos:4433"),
		KratosAdminURL: getEnv("KRATOS_ADMIN_URL", "http://kratos:4434"),
		Port:           getEnv("PORT", "8888"),
		CacheTTL:       5 * time.Minute, // Default 5 minutes

		CSRFSecret:       getEnv("CSRF_SECRET", ""),
		AuthSharedSecret: getEnv("AUTH_SHARED_SECRET", ""),

		AllowedEmails:       splitList(getEnv("ALLOWED_EMAILS", "")),
		AllowedEmailDomains: splitList(getEnv("ALLOWED_EMAIL_DOMAINS", "")),

		AllowedRedirectDomains: splitList(getEnv("ALLOWED_REDIRECT_DOMAINS", "")),
		DocsBaseURL:            getEnv("DOCS_BASE_URL", ""),
		DocsTokenAudience:      getEnv("DOCS_TOKEN_AUDIENCE", "docs"),
		DocsTokenSecret:        getEnv("DOCS_TOKEN_SECRET", ""),
		DocsTokenTTL:           time.Hour, // Default 1 hour

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AccessRequestWebhookURL: getEnv("ACCESS_REQUEST_WEBHOOK_URL", ""),
		AdminEmail:              getEnv("ADMIN_EMAIL", ""),

		SessionPollInterval: 5 * time.Second, // Default 5 seconds
	}

	if v := os.Getenv("ALLOW_ALL_WHEN_EMPTY"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOW_ALL_WHEN_EMPTY format: %w", err)
		}
		config.AllowAllWhenEmpty = parsed
	}

	// Parse CACHE_TTL if provided
	if cacheTTLStr := os.Getenv("CACHE_TTL"); cacheTTLStr != "" {
		duration, err := time.ParseDuration(cacheTTLStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL format: %w", err)
		}
		config.CacheTTL = duration
	}

	// Parse DOCS_TOKEN_TTL if provided
	if ttlStr := os.Getenv("DOCS_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DOCS_TOKEN_TTL format: %w", err)
		}
		config.DocsTokenTTL = duration
	}

	// Parse SESSION_POLL_INTERVAL if provided
	if intervalStr := os.Getenv("SESSION_POLL_INTERVAL"); intervalStr != "" {
		duration, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_POLL_INTERVAL format: %w", err)
		}
		config.SessionPollInterval = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.KratosURL == "" {
		return fmt.Errorf("KRATOS_URL cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.DocsTokenTTL <= 0 {
		return fmt.Errorf("DOCS_TOKEN_TTL must be positive")
	}

	if c.SessionPollInterval <= 0 {
		return fmt.Errorf("SESSION_POLL_INTERVAL must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
