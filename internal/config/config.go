// Package config provides environment-driven configuration for the
// CareerBridge server: HTTP settings, database, uploads, SMS and AI keys.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	Port        int
	DatabaseURL string

	// Uploads
	UploadDir     string // local blob storage root; ignored when S3 is set
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	MaxUploadSize int64 // bytes

	// Integrations
	GeminiAPIKey string
	Twilio       TwilioConfig
}

// TwilioConfig holds SMS provider settings. SMS sending is skipped entirely
// unless Enabled is true.
type TwilioConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	FromNumber string
}

// DefaultMaxUploadSize limits resume and photo uploads to 5MB.
const DefaultMaxUploadSize = 5 * 1024 * 1024

// Load reads server configuration from the environment. DATABASE_URL is
// required; everything else has a default or is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          8080,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		UploadDir:     envOr("UPLOAD_DIR", "uploads"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      envOr("S3_REGION", "auto"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		MaxUploadSize: DefaultMaxUploadSize,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		Twilio: TwilioConfig{
			Enabled:    envBool("TWILIO_ENABLED"),
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if sizeStr := os.Getenv("MAX_UPLOAD_SIZE"); sizeStr != "" {
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %q", sizeStr)
		}
		cfg.MaxUploadSize = size
	}

	return cfg, nil
}

// Validate checks settings that are only required in combination, such as
// Twilio credentials when SMS is enabled.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Twilio.Enabled {
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.FromNumber == "" {
			return fmt.Errorf("TWILIO_ENABLED is set but TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are not all configured")
		}
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_BUCKET is set but S3_ACCESS_KEY and S3_SECRET_KEY are not both configured")
	}
	return nil
}

// UseS3 reports whether uploads should go to object storage instead of the
// local upload directory.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "true", "True", "TRUE", "1", "t":
		return true
	}
	return false
}
