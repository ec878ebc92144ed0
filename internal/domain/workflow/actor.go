package workflow

// Actor identifies who is requesting an operation. The identity provider
// supplies it per request; the workflow never sees credentials.
type Actor struct {
	ID    string
	Name  string
	Roles RoleSet
}

// Is reports whether the actor holds the role
func (a Actor) Is(role Role) bool {
	return a.Roles.Has(role)
}
