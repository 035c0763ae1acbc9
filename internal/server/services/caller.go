package services

import (
	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/auth"
	"github.com/dmitrijs2005/mediakeeper/internal/server/repositories/repomanager"
)

// currentCaller checks a token identity against the account it names. The
// account must still exist under the same id and username, otherwise the
// token belongs to a deleted account whose id may have been reused. The
// returned identity carries the stored role. A nil caller stays nil so the
// policy reports it as unauthenticated.
func currentCaller(m repomanager.RepositoryManager, caller *auth.Identity) (*auth.Identity, error) {
	if caller == nil {
		return nil, nil
	}
	acc, ok := m.Accounts().FindByID(caller.ID)
	if !ok || acc.Username != caller.Name {
		return nil, common.ErrorUnauthorized
	}
	id := auth.IdentityOf(acc)
	return &id, nil
}
