// AngelaMos | 2026
// role.go

package auth

import (
	"strconv"
)

// Role is the integer tier stored on a user. Values outside the named
// constants are valid and carry their own ability.
type Role int

const (
	RoleGuest  Role = 0
	RoleAdmin  Role = 1
	RoleMember Role = 2
)

// AbilityCatalogWrite gates every category and product mutation.
const AbilityCatalogWrite = "1"

// Abilities is the claim set a token issued for this role carries.
func (r Role) Abilities() []string {
	return []string{strconv.Itoa(int(r))}
}

func (r Role) Can(ability string) bool {
	for _, a := range r.Abilities() {
		if a == ability {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	default:
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
}
