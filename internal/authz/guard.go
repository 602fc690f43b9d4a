package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Guard is the public authorization contract consumed by route handlers.
// The Require*/Authorized*/Can* family fails with a typed error on denial;
// CheckAccess folds denials into the result and only surfaces
// infrastructure failures.
type Guard struct {
	grants    GrantStore
	resources ResourceLoader
	resolver  *Resolver
}

// NewGuard constructs a Guard over the given stores.
func NewGuard(grants GrantStore, resources ResourceLoader) (*Guard, error) {
	if resources == nil {
		return nil, errors.New("authz: resource loader is required")
	}
	resolver, err := NewResolver(grants)
	if err != nil {
		return nil, err
	}
	return &Guard{grants: grants, resources: resources, resolver: resolver}, nil
}

// RequireAdmin asserts the identity is a platform operator. It checks the
// persisted global flag directly; no resource chain is involved.
func (g *Guard) RequireAdmin(ctx context.Context, identity *Identity) error {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	ok, err := g.grants.IsSystemAdmin(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: system administrator role required", ErrForbidden)
	}
	return nil
}

// RequireAdminOrOrgAdmin asserts role >= OrgAdmin for the organization.
func (g *Guard) RequireAdminOrOrgAdmin(ctx context.Context, identity *Identity, organizationID string) error {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	chain, err := g.resources.LoadChain(ctx, KindOrganization, organizationID)
	if err != nil {
		return err
	}
	role, err := g.resolver.Resolve(ctx, identity, chain)
	if err != nil {
		return err
	}
	if !role.AtLeast(RoleOrgAdmin) {
		return fmt.Errorf("%w: organization administrator role required", ErrForbidden)
	}
	return nil
}

// AuthorizedResource loads the resource chain and asserts the identity
// holds at least Collaborator over it, returning the chain on success so
// callers do not refetch the resource.
func (g *Guard) AuthorizedResource(ctx context.Context, identity *Identity, kind ResourceKind, id string) (ResourceChain, error) {
	chain, err := g.resources.LoadChain(ctx, kind, id)
	if err != nil {
		return ResourceChain{}, err
	}
	role, err := g.resolver.Resolve(ctx, identity, chain)
	if err != nil {
		return ResourceChain{}, err
	}
	if role.AtLeast(RoleCollaborator) {
		return chain, nil
	}
	return ResourceChain{}, g.deny(identity, kind)
}

// AccessOptions controls what an inventory access decision carries back.
// The chain is loaded exactly once either way; IncludeResource only decides
// whether it is attached to the result.
type AccessOptions struct {
	IncludeResource bool
}

// InventoryAccess is a granted inventory decision.
type InventoryAccess struct {
	Role     Role
	Resource *ResourceChain
}

// CanAccessInventory authorizes a read of an inventory. A public inventory
// is readable by anyone, identity or not; otherwise the identity must hold
// at least Collaborator over the chain.
func (g *Guard) CanAccessInventory(ctx context.Context, identity *Identity, inventoryID string, opts AccessOptions) (InventoryAccess, error) {
	chain, err := g.resources.LoadChain(ctx, KindInventory, inventoryID)
	if err != nil {
		return InventoryAccess{}, err
	}
	role, err := g.resolver.Resolve(ctx, identity, chain)
	if err != nil {
		return InventoryAccess{}, err
	}
	if chain.InventoryPublic || role.AtLeast(RoleCollaborator) {
		return grantInventoryAccess(role, chain, opts), nil
	}
	return InventoryAccess{}, g.deny(identity, KindInventory)
}

// CanEditInventory authorizes a write to an inventory. The public flag
// never applies to writes, and a deactivated organization blocks writes
// for every role below SystemAdmin.
func (g *Guard) CanEditInventory(ctx context.Context, identity *Identity, inventoryID string, opts AccessOptions) (InventoryAccess, error) {
	chain, err := g.resources.LoadChain(ctx, KindInventory, inventoryID)
	if err != nil {
		return InventoryAccess{}, err
	}
	role, err := g.resolver.Resolve(ctx, identity, chain)
	if err != nil {
		return InventoryAccess{}, err
	}
	if !role.AtLeast(RoleCollaborator) {
		return InventoryAccess{}, g.deny(identity, KindInventory)
	}
	if !chain.OrgActive && role < RoleSystemAdmin {
		return InventoryAccess{}, fmt.Errorf("%w: organization is deactivated", ErrForbidden)
	}
	return grantInventoryAccess(role, chain, opts), nil
}

func grantInventoryAccess(role Role, chain ResourceChain, opts AccessOptions) InventoryAccess {
	access := InventoryAccess{Role: role}
	if opts.IncludeResource {
		c := chain
		access.Resource = &c
	}
	return access
}

func (g *Guard) deny(identity *Identity, kind ResourceKind) error {
	if identity == nil || strings.TrimSpace(identity.UserID) == "" {
		return fmt.Errorf("%w: authentication required for %s", ErrUnauthorized, kind)
	}
	return fmt.Errorf("%w: no grant covers this %s", ErrForbidden, kind)
}

// ResourceRef names exactly one resource in the ownership tree. It is the
// most specific reference a caller can supply.
type ResourceRef struct {
	OrganizationID string `json:"organization_id,omitempty"`
	ProjectID      string `json:"project_id,omitempty"`
	CityID         string `json:"city_id,omitempty"`
	InventoryID    string `json:"inventory_id,omitempty"`
}

func (r ResourceRef) kindAndID() (ResourceKind, string, bool) {
	type candidate struct {
		kind ResourceKind
		id   string
	}
	var found []candidate
	for _, c := range []candidate{
		{KindOrganization, strings.TrimSpace(r.OrganizationID)},
		{KindProject, strings.TrimSpace(r.ProjectID)},
		{KindCity, strings.TrimSpace(r.CityID)},
		{KindInventory, strings.TrimSpace(r.InventoryID)},
	} {
		if c.id != "" {
			found = append(found, c)
		}
	}
	if len(found) != 1 {
		return "", "", false
	}
	return found[0].kind, found[0].id, true
}

// Access is the non-throwing answer to "what may this caller do here",
// consumed by endpoints that render permission-dependent UI affordances.
type Access struct {
	HasAccess      bool   `json:"has_access"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// CheckAccess resolves the caller's role over the referenced resource
// without ever raising a typed denial: a malformed reference, a missing
// resource, or an insufficient role all fold into HasAccess=false.
// Only infrastructure failures from the backing store propagate.
func (g *Guard) CheckAccess(ctx context.Context, identity *Identity, ref ResourceRef) (Access, error) {
	kind, id, ok := ref.kindAndID()
	if !ok {
		return Access{Role: RoleNoAccess}, nil
	}
	chain, err := g.resources.LoadChain(ctx, kind, id)
	if errors.Is(err, ErrNotFound) {
		return Access{Role: RoleNoAccess}, nil
	}
	if err != nil {
		return Access{}, err
	}
	role, err := g.resolver.Resolve(ctx, identity, chain)
	if err != nil {
		return Access{}, err
	}
	return Access{
		HasAccess:      role > RoleNoAccess,
		Role:           role,
		OrganizationID: chain.OrganizationID,
	}, nil
}
