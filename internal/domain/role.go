package domain

// Role is a GitHub per-repository collaborator permission level.
type Role string

// Collaborator role names as returned by the GitHub permission endpoint.
const (
	RoleNone     Role = "none"
	RoleRead     Role = "read"
	RoleTriage   Role = "triage"
	RoleWrite    Role = "write"
	RoleMaintain Role = "maintain"
	RoleAdmin    Role = "admin"
)

// GrantsAccess reports whether the role is high enough to see a deployment.
// Only maintain and admin qualify.
func (r Role) GrantsAccess() bool {
	return r == RoleMaintain || r == RoleAdmin
}
