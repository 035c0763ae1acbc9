// Package accounts is the account store: unique usernames, credential
// lookups and the guarantee that at least one administrator exists.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/collection"
)

// BootstrapAccount is the administrator created when none exists.
// Credential is already hashed.
type BootstrapAccount struct {
	Username   string
	Credential string
}

type Store struct {
	records *collection.Store[models.Account]
	log     logging.Logger
}

// Open loads the accounts file at path and runs Bootstrap. The file is
// flushed right away when bootstrap changed anything.
func Open(path string, admin BootstrapAccount, logger logging.Logger) (*Store, error) {
	records, err := collection.Open[models.Account](path)
	if err != nil {
		return nil, err
	}

	s := New(records, logger)

	changed, err := s.Bootstrap(admin)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if changed {
		if err := s.Flush(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// New wraps records without bootstrapping.
func New(records *collection.Store[models.Account], logger logging.Logger) *Store {
	return &Store{
		records: records,
		log:     logger.With("module", "accounts"),
	}
}

func uniqueUsername(current []models.Account, candidate models.Account) error {
	for _, a := range current {
		if a.ID != candidate.ID && a.Username == candidate.Username {
			return fmt.Errorf("%w: %q", common.ErrorDuplicateUsername, candidate.Username)
		}
	}
	return nil
}

// otherAdmins counts admins other than the account with id.
func otherAdmins(current []models.Account, id uint64) int {
	n := 0
	for _, a := range current {
		if a.ID != id && a.IsAdmin() {
			n++
		}
	}
	return n
}

// keepAnAdmin refuses an update that would demote the last administrator.
func keepAnAdmin(current []models.Account, candidate models.Account) error {
	if candidate.IsAdmin() {
		return nil
	}
	for _, a := range current {
		if a.ID == candidate.ID && a.IsAdmin() && otherAdmins(current, a.ID) == 0 {
			return common.ErrorLastAdmin
		}
	}
	return nil
}

// Register appends a Client account. The username must be unused.
func (s *Store) Register(username, credential string) (models.Account, error) {
	return s.records.Append(models.Account{
		Username:   username,
		Credential: credential,
		Role:       models.RoleClient,
	}, uniqueUsername)
}

// AuthenticateByCredential returns the account whose username and hashed
// credential both match exactly.
func (s *Store) AuthenticateByCredential(username, credential string) (models.Account, bool) {
	a, ok := s.FindByUsername(username)
	if !ok {
		return models.Account{}, false
	}
	if subtle.ConstantTimeCompare([]byte(a.Credential), []byte(credential)) != 1 {
		return models.Account{}, false
	}
	return a, true
}

func (s *Store) FindByID(id uint64) (models.Account, bool) {
	return s.records.FindByID(id)
}

func (s *Store) FindByUsername(username string) (models.Account, bool) {
	for a := range s.records.FindAllWhere(func(a models.Account) bool { return a.Username == username }) {
		return a, true
	}
	return models.Account{}, false
}

func (s *Store) All() []models.Account {
	return s.records.All()
}

func (s *Store) HasAdmin() bool {
	for range s.records.FindAllWhere(models.Account.IsAdmin) {
		return true
	}
	return false
}

// Update merges patch into account id. Usernames stay unique and the last
// administrator cannot be demoted.
func (s *Store) Update(id uint64, patch models.AccountPatch) (models.Account, error) {
	return s.records.ReplaceByID(id, func(a models.Account) (models.Account, error) {
		return patch.Apply(a), nil
	}, uniqueUsername, keepAnAdmin)
}

// Delete removes account id unless it is the last administrator.
func (s *Store) Delete(id uint64) (models.Account, error) {
	return s.records.RemoveByID(id, func(current []models.Account, a models.Account) error {
		if a.IsAdmin() && otherAdmins(current, a.ID) == 0 {
			return common.ErrorLastAdmin
		}
		return nil
	})
}

// Bootstrap makes sure an administrator exists. When none does, the account
// named admin.Username is promoted and given admin.Credential, or created
// with it if the name is free. It reports whether anything changed.
func (s *Store) Bootstrap(admin BootstrapAccount) (bool, error) {
	if s.HasAdmin() {
		return false, nil
	}
	if admin.Username == "" || admin.Credential == "" {
		return false, errors.New("bootstrap account needs a username and credential")
	}

	ctx := context.Background()
	role := models.RoleAdmin

	if existing, ok := s.FindByUsername(admin.Username); ok {
		credential := admin.Credential
		if _, err := s.Update(existing.ID, models.AccountPatch{Role: &role, Credential: &credential}); err != nil {
			return false, err
		}
		s.log.Warn(ctx, "no administrator found, promoted existing account and reset its password", "id", existing.ID, "username", existing.Username)
		return true, nil
	}

	created, err := s.records.Append(models.Account{
		Username:   admin.Username,
		Credential: admin.Credential,
		Role:       models.RoleAdmin,
	}, uniqueUsername)
	if err != nil {
		return false, err
	}
	s.log.Warn(ctx, "no administrator found, created bootstrap account", "id", created.ID, "username", created.Username)
	return true, nil
}

// Flush writes the account list to disk. Failures are logged and returned.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.records.Flush(ctx); err != nil {
		s.log.Error(ctx, "accounts flush failed", "path", s.records.Path(), "error", err)
		return err
	}
	return nil
}
