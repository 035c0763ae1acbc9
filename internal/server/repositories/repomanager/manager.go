// Package repomanager owns the process-wide stores: one account store and one
// media store, opened once from config and shared by every request.
package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/config"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/media"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/payloads"
)

type RepositoryManager interface {
	Accounts() *accounts.Store
	Media() *media.Store
	FlushAll(ctx context.Context) error
}

// Hasher derives stored credentials; the bootstrap admin password goes
// through it before it is saved.
type Hasher interface {
	Hash(secret string) string
}

// JSONRepositoryManager keeps both collections in JSON files.
type JSONRepositoryManager struct {
	accounts *accounts.Store
	media    *media.Store
}

// Open loads both stores. A malformed file fails the whole open. Media
// records without a payload are reported, and dropped when cfg.PruneOrphans
// is set.
func Open(ctx context.Context, cfg *config.Config, hasher Hasher, logger logging.Logger) (*JSONRepositoryManager, error) {
	acc, err := accounts.Open(cfg.AccountsFile, accounts.BootstrapAccount{
		Username:   cfg.AdminUsername,
		Credential: hasher.Hash(cfg.AdminPassword),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("accounts store: %w", err)
	}

	blobs, err := payloads.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("payload store: %w", err)
	}

	med, err := media.Open(cfg.MediaFile, blobs, logger)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	orphans, err := med.Reconcile(ctx, cfg.PruneOrphans)
	if err != nil {
		return nil, fmt.Errorf("reconcile media: %w", err)
	}
	if len(orphans) > 0 {
		logger.Warn(ctx, "media records without payload", "ids", orphans, "pruned", cfg.PruneOrphans)
	}

	return New(acc, med), nil
}

func New(acc *accounts.Store, med *media.Store) *JSONRepositoryManager {
	return &JSONRepositoryManager{accounts: acc, media: med}
}

func (m *JSONRepositoryManager) Accounts() *accounts.Store { return m.accounts }

func (m *JSONRepositoryManager) Media() *media.Store { return m.media }

// FlushAll flushes every store, attempting all of them even if one fails.
func (m *JSONRepositoryManager) FlushAll(ctx context.Context) error {
	return errors.Join(
		m.accounts.Flush(ctx),
		m.media.Flush(ctx),
	)
}
