// Package services contains the server-side use cases. Each operation checks
// the caller against the access policy, changes the in-memory store and then
// flushes it explicitly.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/repomanager"
)

// AccountUpdate carries the self-service fields of an account. Nil fields
// are left unchanged; Password is plaintext and hashed before storing.
type AccountUpdate struct {
	Username *string
	Password *string
}

type AccountService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.CredentialHasher
	codec       *auth.Codec
	log         logging.Logger
}

func NewAccountService(m repomanager.RepositoryManager, hasher *auth.CredentialHasher, codec *auth.Codec, logger logging.Logger) *AccountService {
	return &AccountService{
		repomanager: m,
		hasher:      hasher,
		codec:       codec,
		log:         logger.With("module", "account_service"),
	}
}

func validateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", validationError("username must not be empty")
	}
	return username, nil
}

func validatePassword(password string) error {
	if password == "" {
		return validationError("password must not be empty")
	}
	return nil
}

// Register creates a Client account.
func (s *AccountService) Register(ctx context.Context, username, password string) (models.Account, error) {
	username, err := validateUsername(username)
	if err != nil {
		return models.Account{}, err
	}
	if err := validatePassword(password); err != nil {
		return models.Account{}, err
	}

	store := s.repomanager.Accounts()
	acc, err := store.Register(username, s.hasher.Hash(password))
	if err != nil {
		return models.Account{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Account{}, err
	}

	s.log.Info(ctx, "account registered", "id", acc.ID, "username", acc.Username)
	return acc, nil
}

// Login checks the credentials and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	acc, ok := s.repomanager.Accounts().AuthenticateByCredential(username, s.hasher.Hash(password))
	if !ok {
		s.log.Debug(ctx, "login rejected", "username", username)
		return "", common.ErrorUnauthorized
	}

	token, err := s.codec.Issue(auth.IdentityOf(acc))
	if err != nil {
		s.log.Error(ctx, "token issue failed", "id", acc.ID, "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *AccountService) List(ctx context.Context) []models.Account {
	return s.repomanager.Accounts().All()
}

func (s *AccountService) Get(ctx context.Context, id uint64) (models.Account, error) {
	acc, ok := s.repomanager.Accounts().FindByID(id)
	if !ok {
		return models.Account{}, common.ErrorNotFound
	}
	return acc, nil
}

// Update changes username and/or password of account id. Allowed for the
// account itself and for admins.
func (s *AccountService) Update(ctx context.Context, caller *auth.Identity, id uint64, upd AccountUpdate) (models.Account, error) {
	caller, err := s.caller(ctx, "account update", caller)
	if err != nil {
		return models.Account{}, err
	}
	if _, err := auth.RequireOwnerOrAdmin(caller, id); err != nil {
		s.denied(ctx, "account update", caller, err)
		return models.Account{}, err
	}

	var patch models.AccountPatch
	if upd.Username != nil {
		username, err := validateUsername(*upd.Username)
		if err != nil {
			return models.Account{}, err
		}
		patch.Username = &username
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return models.Account{}, err
		}
		hashed := s.hasher.Hash(*upd.Password)
		patch.Credential = &hashed
	}

	return s.update(ctx, id, patch)
}

// SetRole grants or revokes Admin. Only admins may call it, including on
// their own account.
func (s *AccountService) SetRole(ctx context.Context, caller *auth.Identity, id uint64, role models.Role) (models.Account, error) {
	caller, err := s.caller(ctx, "role change", caller)
	if err != nil {
		return models.Account{}, err
	}
	if _, err := auth.RequireRole(caller, models.RoleAdmin); err != nil {
		s.denied(ctx, "role change", caller, err)
		return models.Account{}, err
	}

	acc, err := s.update(ctx, id, models.AccountPatch{Role: &role})
	if err != nil {
		return models.Account{}, err
	}
	s.log.Info(ctx, "account role changed", "id", id, "role", role, "by", caller.ID)
	return acc, nil
}

// Delete removes account id. Allowed for the account itself and for admins.
// Media owned by the account is kept.
func (s *AccountService) Delete(ctx context.Context, caller *auth.Identity, id uint64) (models.Account, error) {
	caller, err := s.caller(ctx, "account delete", caller)
	if err != nil {
		return models.Account{}, err
	}
	if _, err := auth.RequireOwnerOrAdmin(caller, id); err != nil {
		s.denied(ctx, "account delete", caller, err)
		return models.Account{}, err
	}

	store := s.repomanager.Accounts()
	acc, err := store.Delete(id)
	if err != nil {
		return models.Account{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Account{}, err
	}

	s.log.Info(ctx, "account deleted", "id", id, "by", caller.ID)
	return acc, nil
}

func (s *AccountService) update(ctx context.Context, id uint64, patch models.AccountPatch) (models.Account, error) {
	store := s.repomanager.Accounts()
	acc, err := store.Update(id, patch)
	if err != nil {
		return models.Account{}, err
	}
	if err := store.Flush(ctx); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

func (s *AccountService) caller(ctx context.Context, op string, caller *auth.Identity) (*auth.Identity, error) {
	resolved, err := currentCaller(s.repomanager, caller)
	if err != nil {
		s.denied(ctx, op, caller, err)
		return nil, err
	}
	return resolved, nil
}

func (s *AccountService) denied(ctx context.Context, op string, caller *auth.Identity, err error) {
	var who any = "anonymous"
	if caller != nil {
		who = caller.ID
	}
	s.log.Debug(ctx, "access denied", "op", op, "caller", who, "reason", err)
}
