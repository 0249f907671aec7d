package session

// Role is the single effective role derived from a token's role claim.
type Role string

const (
	RoleUnknown Role = "unknown"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleClient  Role = "client"
)

// rolePrecedence is checked in order; the first role present wins.
var rolePrecedence = []Role{RoleAdmin, RoleMember, RoleClient}

// DeriveRole maps a roles array to exactly one Role.
func DeriveRole(roles []string) Role {
	for _, want := range rolePrecedence {
		for _, r := range roles {
			if Role(r) == want {
				return want
			}
		}
	}
	return RoleUnknown
}

func (r Role) String() string { return string(r) }
