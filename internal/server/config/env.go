package config

import "github.com/dmitrijs2005/mediakeeper/internal/flagx"

const envPrefix = "MEDIAKEEPER_"

// parseEnv overlays MEDIAKEEPER_* environment variables.
func parseEnv(config *Config) {
	flagx.EnvString(&config.ListenAddr, envPrefix+"LISTEN_ADDR")
	flagx.EnvString(&config.SigningKey, envPrefix+"SIGNING_KEY")
	flagx.EnvString(&config.Issuer, envPrefix+"ISSUER")
	flagx.EnvString(&config.Audience, envPrefix+"AUDIENCE")
	flagx.EnvDuration(&config.TokenTTL, envPrefix+"TOKEN_TTL")
	flagx.EnvString(&config.AccountsFile, envPrefix+"ACCOUNTS_FILE")
	flagx.EnvString(&config.MediaFile, envPrefix+"MEDIA_FILE")
	flagx.EnvString(&config.MediaDir, envPrefix+"MEDIA_DIR")
	flagx.EnvString(&config.PayloadBackend, envPrefix+"PAYLOAD_BACKEND")
	flagx.EnvString(&config.AdminUsername, envPrefix+"ADMIN_USERNAME")
	flagx.EnvString(&config.AdminPassword, envPrefix+"ADMIN_PASSWORD")
	flagx.EnvBool(&config.PruneOrphans, envPrefix+"PRUNE_ORPHANS")
	flagx.EnvString(&config.LogLevel, envPrefix+"LOG_LEVEL")
}
