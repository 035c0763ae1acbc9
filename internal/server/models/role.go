package models

import "fmt"

// Role is the closed set of privilege levels an account can hold.
type Role uint8

const (
	RoleClient Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// ParseRole is the inverse of String. Anything but "Client" or "Admin" fails.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Client":
		return RoleClient, nil
	case "Admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if r > RoleAdmin {
		return nil, fmt.Errorf("unknown role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
