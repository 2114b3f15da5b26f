package authdomain

// Role is the caller's role in the fantasy API. Only admins are privileged;
// tournament ownership is decided per tournament, not by role.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	return r == RolePlayer || r == RoleAdmin
}

// ParseRole maps a claim value to a role. Anything unknown is a player.
func ParseRole(s string) Role {
	if r := Role(s); r.IsValid() {
		return r
	}
	return RolePlayer
}

func (r Role) String() string {
	return string(r)
}
