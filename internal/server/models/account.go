// Package models defines the records kept in the JSON collection files.
package models

// Account is a registered principal. Credential holds the hashed secret and
// is never sent to clients.
type Account struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Credential string `json:"credential"`
	Role       Role   `json:"role"`
}

func (a Account) Key() uint64 { return a.ID }

func (a Account) WithKey(id uint64) Account {
	a.ID = id
	return a
}

func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// AccountPatch lists the fields an update may change; nil leaves a field as is.
type AccountPatch struct {
	Username   *string
	Credential *string
	Role       *Role
}

// Apply returns a copy of a with the patch merged in. The id is never touched.
func (p AccountPatch) Apply(a Account) Account {
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Credential != nil {
		a.Credential = *p.Credential
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	return a
}
