package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/config"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type env struct {
	cfg      *config.Config
	manager  *repomanager.JSONRepositoryManager
	codec    *auth.Codec
	accounts *AccountService
	media    *MediaService
	admin    *auth.Identity
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.AccountsFile = filepath.Join(dir, "users.json")
	cfg.MediaFile = filepath.Join(dir, "data.json")
	cfg.MediaDir = filepath.Join(dir, "Resources", "Media")

	hasher := auth.NewCredentialHasher([]byte(cfg.SigningKey))
	m, err := repomanager.Open(context.Background(), &cfg, hasher, logging.Nop())
	require.NoError(t, err)

	codec := auth.NewCodec([]byte(cfg.SigningKey), cfg.Issuer, cfg.Audience, time.Hour)

	adminAcc, ok := m.Accounts().FindByUsername(cfg.AdminUsername)
	require.True(t, ok)
	admin := auth.IdentityOf(adminAcc)

	return &env{
		cfg:      &cfg,
		manager:  m,
		codec:    codec,
		accounts: NewAccountService(m, hasher, codec, logging.Nop()),
		media:    NewMediaService(m, logging.Nop()),
		admin:    &admin,
	}
}

// register creates a client account and returns its identity.
func (e *env) register(t *testing.T, username string) *auth.Identity {
	t.Helper()
	acc, err := e.accounts.Register(context.Background(), username, "pw-"+username)
	require.NoError(t, err)
	id := auth.IdentityOf(acc)
	return &id
}

func ptr[T any](v T) *T { return &v }

var png = MediaUpload{Name: "pic", Description: "a picture", ContentType: "image/png", Data: []byte("png-bytes")}

func (e *env) upload(t *testing.T, caller *auth.Identity) models.Media {
	t.Helper()
	m, err := e.media.Create(context.Background(), caller, png)
	require.NoError(t, err)
	return m
}
