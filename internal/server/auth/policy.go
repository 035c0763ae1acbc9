package auth

import (
	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/server/models"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Unauthenticated Decision = iota
	Forbidden
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Err maps a Decision to the error a denied operation reports.
func (d Decision) Err() error {
	switch d {
	case Allowed:
		return nil
	case Forbidden:
		return common.ErrorForbidden
	default:
		return common.ErrorUnauthorized
	}
}

// Requirement describes what an operation needs from its caller. The zero
// value only asks for an identity.
type Requirement struct {
	Role  *models.Role
	Owner *uint64
}

// Decide evaluates req for id (nil means no identity). With both Role and
// Owner set the caller passes by satisfying either.
func Decide(id *Identity, req Requirement) Decision {
	if id == nil {
		return Unauthenticated
	}
	if req.Role == nil && req.Owner == nil {
		return Allowed
	}
	if req.Role != nil && id.Role == *req.Role {
		return Allowed
	}
	if req.Owner != nil && id.ID == *req.Owner {
		return Allowed
	}
	return Forbidden
}

func RequireAuthenticated(id *Identity) (Identity, error) {
	return enforce(id, Requirement{})
}

func RequireRole(id *Identity, role models.Role) (Identity, error) {
	return enforce(id, Requirement{Role: &role})
}

// RequireOwnerOrAdmin passes the owner of a record or any admin. ownerID
// must come from the stored record, never from request input.
func RequireOwnerOrAdmin(id *Identity, ownerID uint64) (Identity, error) {
	admin := models.RoleAdmin
	return enforce(id, Requirement{Role: &admin, Owner: &ownerID})
}

func enforce(id *Identity, req Requirement) (Identity, error) {
	if err := Decide(id, req).Err(); err != nil {
		return Identity{}, err
	}
	return *id, nil
}
