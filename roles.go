package auth

// Role is the account's dashboard role
type Role = string

const (
	// RoleUser is the lowest-privilege role, assigned to local registrations
	RoleUser Role = "User"
	// RoleAuditor is assigned to accounts created via federated sign-in
	RoleAuditor Role = "Auditor"
	// RoleAnalyst can work report queues
	RoleAnalyst Role = "Analyst"
	// RoleManager can approve analyst output
	RoleManager Role = "Manager"
	// RoleAdmin administers the dashboard
	RoleAdmin Role = "Admin"
)

// DefaultRole is applied when a record reaches the store with no role set.
const DefaultRole = RoleUser

// DefaultFederatedRole is applied to accounts created lazily on first
// federated sign-in.
const DefaultFederatedRole = RoleAuditor

var roleHierarchy = map[Role]int{
	RoleUser:    0,
	RoleAuditor: 1,
	RoleAnalyst: 2,
	RoleManager: 3,
	RoleAdmin:   4,
}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	_, ok := roleHierarchy[r]
	return ok
}

// RoleIsAtLeast checks if a role meets the minimum required level.
// Unknown roles never satisfy any minimum.
func RoleIsAtLeast(r, minRole Role) bool {
	current, ok := roleHierarchy[r]
	if !ok {
		return false
	}

	min, ok := roleHierarchy[minRole]
	if !ok {
		return false
	}

	return current >= min
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{
		RoleUser,
		RoleAuditor,
		RoleAnalyst,
		RoleManager,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}
