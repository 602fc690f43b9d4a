package authz

import "context"

// GrantStore is the read-only query surface over the four grant relations.
// Lookups are pure existence checks: a nonexistent user or resource yields
// false, never an error of its own.
type GrantStore interface {
	IsSystemAdmin(ctx context.Context, userID string) (bool, error)
	IsOrganizationAdmin(ctx context.Context, userID, organizationID string) (bool, error)
	IsProjectAdmin(ctx context.Context, userID, projectID string) (bool, error)
	IsCityCollaborator(ctx context.Context, userID, cityID string) (bool, error)
}

// ResourceLoader loads a resource together with its full ancestor chain.
// It returns ErrNotFound when the resource does not exist or when an
// expected ancestor link is missing; it never yields a partial chain.
type ResourceLoader interface {
	LoadChain(ctx context.Context, kind ResourceKind, id string) (ResourceChain, error)
}
