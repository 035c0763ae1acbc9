package accounts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bootstrapAdmin = BootstrapAccount{Username: "Admin", Credential: "hashed-admin"}

// newEmpty returns a store over an empty file without running bootstrap.
func newEmpty(t *testing.T) *Store {
	t.Helper()
	records, err := collection.Open[models.Account](filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return New(records, logging.Nop())
}

func writeAccounts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func countAdmins(accounts []models.Account) int {
	n := 0
	for _, a := range accounts {
		if a.IsAdmin() {
			n++
		}
	}
	return n
}

func TestRegisterAndAuthenticate_Scenario(t *testing.T) {
	s := newEmpty(t)

	alice, err := s.Register("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), alice.ID)
	assert.Equal(t, models.RoleClient, alice.Role)

	_, err = s.Register("alice", "anything")
	assert.ErrorIs(t, err, common.ErrorDuplicateUsername)
	assert.Len(t, s.All(), 1)

	got, ok := s.AuthenticateByCredential("alice", "pw1")
	require.True(t, ok)
	assert.Equal(t, alice, got)

	_, ok = s.AuthenticateByCredential("alice", "wrong")
	assert.False(t, ok)
	_, ok = s.AuthenticateByCredential("bob", "pw1")
	assert.False(t, ok)
}

func TestRegister_IDsFollowExistingMaximum(t *testing.T) {
	path := writeAccounts(t, `[
		{"id":1,"username":"a","credential":"x","role":"Admin"},
		{"id":3,"username":"b","credential":"y","role":"Client"}
	]`)
	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)

	c, err := s.Register("c", "z")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), c.ID)
}

func TestOpen_BootstrapsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, models.Account{ID: 1, Username: "Admin", Credential: "hashed-admin", Role: models.RoleAdmin}, all[0])

	reopened, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, all, reopened.All(), "bootstrap result is flushed and not repeated")
}

func TestOpen_BootstrapWithClientsOnly(t *testing.T) {
	path := writeAccounts(t, `[{"id":1,"username":"alice","credential":"x","role":"Client"}]`)

	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, 1, countAdmins(all), "exactly one admin after construction")
	assert.Equal(t, uint64(2), all[1].ID)
}

func TestOpen_ExistingAdminAddsNone(t *testing.T) {
	path := writeAccounts(t, `[{"id":5,"username":"root","credential":"x","role":"Admin"}]`)

	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)
	assert.Len(t, s.All(), 1)
}

func TestBootstrap_PromotesNameHolder(t *testing.T) {
	path := writeAccounts(t, `[{"id":2,"username":"Admin","credential":"mine","role":"Client"}]`)

	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, models.RoleAdmin, all[0].Role)
	assert.Equal(t, "hashed-admin", all[0].Credential, "credential is reset to the bootstrap one")
	assert.Equal(t, uint64(2), all[0].ID)

	_, ok := s.AuthenticateByCredential("Admin", "mine")
	assert.False(t, ok)
}

func TestBootstrap_RequiresCredentials(t *testing.T) {
	s := newEmpty(t)
	_, err := s.Bootstrap(BootstrapAccount{})
	require.Error(t, err)

	changed, err := s.Bootstrap(bootstrapAdmin)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Bootstrap(bootstrapAdmin)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOpen_MalformedFileIsFatal(t *testing.T) {
	path := writeAccounts(t, `[{"id":1,"username":"a","role":"Superuser"}]`)
	_, err := Open(path, bootstrapAdmin, logging.Nop())
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	s := newEmpty(t)
	alice, err := s.Register("alice", "pw")
	require.NoError(t, err)
	_, err = s.Register("bob", "pw")
	require.NoError(t, err)

	name := "alicia"
	cred := "new"
	got, err := s.Update(alice.ID, models.AccountPatch{Username: &name, Credential: &cred})
	require.NoError(t, err)
	assert.Equal(t, models.Account{ID: alice.ID, Username: "alicia", Credential: "new", Role: models.RoleClient}, got)

	same := "alicia"
	_, err = s.Update(alice.ID, models.AccountPatch{Username: &same})
	require.NoError(t, err, "keeping your own name is not a duplicate")

	taken := "bob"
	_, err = s.Update(alice.ID, models.AccountPatch{Username: &taken})
	assert.ErrorIs(t, err, common.ErrorDuplicateUsername)

	_, err = s.Update(99, models.AccountPatch{Username: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_LastAdminCannotBeDemoted(t *testing.T) {
	s := newEmpty(t)
	_, err := s.Bootstrap(bootstrapAdmin)
	require.NoError(t, err)
	admin, ok := s.FindByUsername("Admin")
	require.True(t, ok)

	client := models.RoleClient
	_, err = s.Update(admin.ID, models.AccountPatch{Role: &client})
	assert.ErrorIs(t, err, common.ErrorLastAdmin)

	bob, err := s.Register("bob", "pw")
	require.NoError(t, err)
	adminRole := models.RoleAdmin
	_, err = s.Update(bob.ID, models.AccountPatch{Role: &adminRole})
	require.NoError(t, err)

	demoted, err := s.Update(admin.ID, models.AccountPatch{Role: &client})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, demoted.Role)
}

func TestDelete(t *testing.T) {
	s := newEmpty(t)
	_, err := s.Bootstrap(bootstrapAdmin)
	require.NoError(t, err)
	admin, _ := s.FindByUsername("Admin")
	alice, err := s.Register("alice", "pw")
	require.NoError(t, err)

	_, err = s.Delete(admin.ID)
	assert.ErrorIs(t, err, common.ErrorLastAdmin)
	_, ok := s.FindByID(admin.ID)
	assert.True(t, ok)

	deleted, err := s.Delete(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, deleted)

	_, err = s.Delete(alice.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)

	_, err = s.Register("alice", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	reopened, err := Open(path, bootstrapAdmin, logging.Nop())
	require.NoError(t, err)
	_, ok := reopened.AuthenticateByCredential("alice", "pw")
	assert.True(t, ok)
}
