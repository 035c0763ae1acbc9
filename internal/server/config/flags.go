package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5001")
//	-s string   token signing key
//	-i string   token issuer
//	-o string   token audience
//	-t int      token lifetime, seconds
//	-f string   accounts file
//	-m string   media file
//	-r string   media payload directory
//	-k string   payload backend (fs|s3)
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and flags
// owned by other components do not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-s", "-i", "-o", "-t", "-f", "-m", "-r", "-k", "-l",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.SigningKey, "s", config.SigningKey, "token signing key")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "token issuer")
	fs.StringVar(&config.Audience, "o", config.Audience, "token audience")

	ttl := fs.Int("t", int(config.TokenTTL.Seconds()), "token lifetime (in seconds)")

	fs.StringVar(&config.AccountsFile, "f", config.AccountsFile, "accounts file")
	fs.StringVar(&config.MediaFile, "m", config.MediaFile, "media file")
	fs.StringVar(&config.MediaDir, "r", config.MediaDir, "media payload directory")
	fs.StringVar(&config.PayloadBackend, "k", config.PayloadBackend, "payload backend (fs|s3)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.TokenTTL = time.Duration(*ttl) * time.Second
	return nil
}
