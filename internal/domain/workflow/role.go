package workflow

// Role represents an actor role recognised by the transition rules
type Role string

const (
	RoleLecturer    Role = "LECTURER"
	RoleCoordinator Role = "PROGRAMME_COORDINATOR"
	RoleManager     Role = "ACADEMIC_MANAGER"
)

var validRoles = map[Role]bool{
	RoleLecturer:    true,
	RoleCoordinator: true,
	RoleManager:     true,
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, validRoles[role]
}

// IsValid returns true if the role is recognised
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// RoleSet is the set of roles an actor holds. An actor may hold several
// roles at once; a transition is allowed if any held role permits it.
type RoleSet map[Role]bool

// NewRoleSet builds a RoleSet from the given roles, dropping unknown ones
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.IsValid() {
			set[r] = true
		}
	}
	return set
}

// Has returns true if the set contains the role
func (rs RoleSet) Has(role Role) bool {
	return rs[role]
}

// Roles returns the members of the set
func (rs RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(rs))
	for _, r := range []Role{RoleLecturer, RoleCoordinator, RoleManager} {
		if rs[r] {
			roles = append(roles, r)
		}
	}
	return roles
}
