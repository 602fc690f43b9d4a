package authz

import "fmt"

// ResourceKind names one level of the ownership tree.
type ResourceKind string

const (
	KindOrganization ResourceKind = "organization"
	KindProject      ResourceKind = "project"
	KindCity         ResourceKind = "city"
	KindInventory    ResourceKind = "inventory"
)

// ParseResourceKind validates a kind supplied by an external caller.
func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case KindOrganization, KindProject, KindCity, KindInventory:
		return ResourceKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, s)
}

// ResourceChain is the fully loaded ancestor chain for one resource:
// its own id, the ids of every ancestor up to the organization, and the
// two policy-relevant flags. It is loaded once per decision so role
// resolution never triggers further lookups.
type ResourceChain struct {
	Kind           ResourceKind `json:"kind"`
	OrganizationID string       `json:"organization_id"`
	ProjectID      string       `json:"project_id,omitempty"`
	CityID         string       `json:"city_id,omitempty"`
	InventoryID    string       `json:"inventory_id,omitempty"`

	// OrgActive is false when the owning organization has been frozen;
	// a frozen organization blocks writes for every role below SystemAdmin.
	OrgActive bool `json:"organization_active"`
	// InventoryPublic relaxes read access on an inventory. It never grants
	// writes and is only meaningful when Kind is KindInventory.
	InventoryPublic bool `json:"inventory_public,omitempty"`
}

// ResourceID returns the id of the resource the chain was loaded for.
func (c ResourceChain) ResourceID() string {
	switch c.Kind {
	case KindProject:
		return c.ProjectID
	case KindCity:
		return c.CityID
	case KindInventory:
		return c.InventoryID
	default:
		return c.OrganizationID
	}
}
