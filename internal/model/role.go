package model

// Role is the closed set of access tiers a user can hold.
type Role string

const (
	RoleReader      Role = "reader"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleContributor, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether r carries override authority over content it does not own.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleContributor
}
