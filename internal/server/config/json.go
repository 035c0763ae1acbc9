package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mediakeeper/internal/flagx"
	"github.com/dmitrijs2005/mediakeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell a
// missing key apart from a zero value, so a partial file only overrides what
// it names.
type JsonConfig struct {
	ListenAddr     *string         `json:"listen_addr"`
	SigningKey     *string         `json:"signing_key"`
	Issuer         *string         `json:"issuer"`
	Audience       *string         `json:"audience"`
	TokenTTL       *timex.Duration `json:"token_ttl"`
	AccountsFile   *string         `json:"accounts_file"`
	MediaFile      *string         `json:"media_file"`
	MediaDir       *string         `json:"media_dir"`
	PayloadBackend *string         `json:"payload_backend"`
	AdminUsername  *string         `json:"admin_username"`
	AdminPassword  *string         `json:"admin_password"`
	MaxUploadBytes *int64          `json:"max_upload_bytes"`
	PruneOrphans   *bool           `json:"prune_orphans"`
	LogLevel       *string         `json:"log_level"`
	S3RootUser     *string         `json:"s3_root_user"`
	S3RootPassword *string         `json:"s3_root_password"`
	S3Bucket       *string         `json:"s3_bucket"`
	S3Region       *string         `json:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c / -config (or
// $MEDIAKEEPER_CONFIG). Nothing happens when no file is configured.
func parseJson(config *Config) error {
	path := flagx.ConfigFile()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.ListenAddr, c.ListenAddr)
	set(&config.SigningKey, c.SigningKey)
	set(&config.Issuer, c.Issuer)
	set(&config.Audience, c.Audience)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	set(&config.AccountsFile, c.AccountsFile)
	set(&config.MediaFile, c.MediaFile)
	set(&config.MediaDir, c.MediaDir)
	set(&config.PayloadBackend, c.PayloadBackend)
	set(&config.AdminUsername, c.AdminUsername)
	set(&config.AdminPassword, c.AdminPassword)
	set(&config.MaxUploadBytes, c.MaxUploadBytes)
	set(&config.PruneOrphans, c.PruneOrphans)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
