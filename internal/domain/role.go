package domain

import "fmt"

// Role identifies what kind of principal is signed in. The set is closed;
// role checks elsewhere switch over it exhaustively.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole converts a wire value into a Role, rejecting anything outside
// the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleOwner:
		return RoleOwner, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleEmployee:
		return true
	default:
		return false
	}
}
