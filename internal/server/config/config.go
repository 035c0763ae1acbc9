// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Payload backends understood by PayloadBackend.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Config holds runtime settings for the mediakeeper server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP API.
//   - SigningKey: HMAC secret for signing tokens (HS512) and keying credential
//     hashes. Do not use the development default in prod.
//   - Issuer / Audience / TokenTTL: token scope and lifetime.
//   - AccountsFile / MediaFile: JSON files backing the two collections.
//   - MediaDir: directory holding payload files for the fs backend.
//   - PayloadBackend: "fs" or "s3".
//   - AdminUsername / AdminPassword: account created when no admin exists.
//   - MaxUploadBytes: upper bound for a single payload upload.
//   - PruneOrphans: drop media records whose payload is gone at startup.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for the s3 backend.
type Config struct {
	ListenAddr     string
	SigningKey     string
	Issuer         string
	Audience       string
	TokenTTL       time.Duration
	AccountsFile   string
	MediaFile      string
	MediaDir       string
	PayloadBackend string
	AdminUsername  string
	AdminPassword  string
	MaxUploadBytes int64
	PruneOrphans   bool
	LogLevel       string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SigningKey and the admin credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5001"
	c.SigningKey = "mediakeeper-development-signing-key"
	c.Issuer = "mediakeeper"
	c.Audience = "mediakeeper-clients"
	c.TokenTTL = time.Hour
	c.AccountsFile = "users.json"
	c.MediaFile = "data.json"
	c.MediaDir = "Resources/Media"
	c.PayloadBackend = BackendFS
	c.AdminUsername = "Admin"
	c.AdminPassword = "AdminPassword"
	c.MaxUploadBytes = 32 << 20
	c.PruneOrphans = false
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "mediakeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate reports the first setting that would make the server unusable.
func (c *Config) Validate() error {
	switch {
	case c.SigningKey == "":
		return errors.New("signing key must not be empty")
	case c.Issuer == "":
		return errors.New("issuer must not be empty")
	case c.Audience == "":
		return errors.New("audience must not be empty")
	case c.TokenTTL < time.Second:
		return fmt.Errorf("token lifetime must be at least 1s, got %s", c.TokenTTL)
	case strings.TrimSpace(c.AdminUsername) == "" || c.AdminPassword == "":
		return errors.New("admin credentials must not be empty")
	case c.AccountsFile == "" || c.MediaFile == "":
		return errors.New("store files must be set")
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes)
	}

	switch c.PayloadBackend {
	case BackendFS:
		if c.MediaDir == "" {
			return errors.New("media dir must be set for the fs backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return errors.New("s3 bucket must be set for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown payload backend %q", c.PayloadBackend)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
