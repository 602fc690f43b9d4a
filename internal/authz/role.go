package authz

import "encoding/json"

// Role is the effective access level an identity holds over one resource
// chain. Values are totally ordered: a higher role implies every capability
// of the roles below it.
type Role int

const (
	RoleNoAccess Role = iota
	RoleCollaborator
	RoleProjectAdmin
	RoleOrgAdmin
	RoleSystemAdmin
)

var roleNames = map[Role]string{
	RoleNoAccess:     "no_access",
	RoleCollaborator: "collaborator",
	RoleProjectAdmin: "project_admin",
	RoleOrgAdmin:     "org_admin",
	RoleSystemAdmin:  "system_admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "no_access"
}

// AtLeast reports whether the role meets the given threshold.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// MarshalJSON encodes the role as its string form.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func maxRole(a, b Role) Role {
	if a >= b {
		return a
	}
	return b
}
