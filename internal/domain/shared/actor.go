package shared

import "github.com/google/uuid"

// Role is the coarse capability of the caller, as carried in the access token
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSalesRep Role = "sales"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSalesRep
}

// Actor identifies who is performing an operation. Permission checks happen
// outside the domain; the engine only needs to know whose behalf it acts on.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor may act on any rep in the tenant
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanActFor reports whether the actor may act on behalf of repID
func (a Actor) CanActFor(repID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == repID
}
