package domain

// Actor role constants.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Actor is the authenticated principal attached to every request by the
// identity middleware. Authentication itself happens upstream; the domain
// engine only consumes the resulting identity.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsValidRole checks whether the given role string is a known role.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
