package authz

import (
	"context"
	"errors"
	"strings"
)

// Resolver computes the single highest-precedence role an identity holds
// over a loaded resource chain. It consults the grant store fresh on every
// call, so revoking a grant is reflected on the next check.
type Resolver struct {
	grants GrantStore
}

// NewResolver constructs a Resolver.
func NewResolver(grants GrantStore) (*Resolver, error) {
	if grants == nil {
		return nil, errors.New("authz: grant store is required")
	}
	return &Resolver{grants: grants}, nil
}

// Resolve evaluates every applicable grant source and returns the maximum.
// Precedence, not discovery order, determines the result: a user holding
// both an organization-admin grant and a redundant collaborator grant on
// the same chain resolves to OrgAdmin regardless of lookup order.
// An anonymous identity resolves to RoleNoAccess; the public-resource
// bypass is applied by the Guard, never here.
func (r *Resolver) Resolve(ctx context.Context, identity *Identity, chain ResourceChain) (Role, error) {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return RoleNoAccess, nil
	}

	role := RoleNoAccess

	ok, err := r.grants.IsSystemAdmin(ctx, identity.UserID)
	if err != nil {
		return RoleNoAccess, err
	}
	if ok {
		role = maxRole(role, RoleSystemAdmin)
	}

	if chain.OrganizationID != "" {
		ok, err := r.grants.IsOrganizationAdmin(ctx, identity.UserID, chain.OrganizationID)
		if err != nil {
			return RoleNoAccess, err
		}
		if ok {
			role = maxRole(role, RoleOrgAdmin)
		}
	}

	if chain.ProjectID != "" {
		ok, err := r.grants.IsProjectAdmin(ctx, identity.UserID, chain.ProjectID)
		if err != nil {
			return RoleNoAccess, err
		}
		if ok {
			role = maxRole(role, RoleProjectAdmin)
		}
	}

	if chain.CityID != "" {
		ok, err := r.grants.IsCityCollaborator(ctx, identity.UserID, chain.CityID)
		if err != nil {
			return RoleNoAccess, err
		}
		if ok {
			role = maxRole(role, RoleCollaborator)
		}
	}

	return role, nil
}
