package authz

import (
	"context"
	"errors"
	"fmt"
)

// fixture is an in-memory GrantStore + ResourceLoader used across the
// package tests. Chains are keyed by "<kind>:<id>".
type fixture struct {
	systemAdmins  map[string]struct{}
	orgAdmins     map[string]struct{}
	projectAdmins map[string]struct{}
	collaborators map[string]struct{}
	chains        map[string]ResourceChain

	grantErr error
	loadErr  error
}

func newFixture() *fixture {
	return &fixture{
		systemAdmins:  map[string]struct{}{},
		orgAdmins:     map[string]struct{}{},
		projectAdmins: map[string]struct{}{},
		collaborators: map[string]struct{}{},
		chains:        map[string]ResourceChain{},
	}
}

func pair(userID, resourceID string) string { return userID + "|" + resourceID }

func (f *fixture) IsSystemAdmin(_ context.Context, userID string) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	_, ok := f.systemAdmins[userID]
	return ok, nil
}

func (f *fixture) IsOrganizationAdmin(_ context.Context, userID, orgID string) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	_, ok := f.orgAdmins[pair(userID, orgID)]
	return ok, nil
}

func (f *fixture) IsProjectAdmin(_ context.Context, userID, projectID string) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	_, ok := f.projectAdmins[pair(userID, projectID)]
	return ok, nil
}

func (f *fixture) IsCityCollaborator(_ context.Context, userID, cityID string) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	_, ok := f.collaborators[pair(userID, cityID)]
	return ok, nil
}

func (f *fixture) LoadChain(_ context.Context, kind ResourceKind, id string) (ResourceChain, error) {
	if f.loadErr != nil {
		return ResourceChain{}, f.loadErr
	}
	chain, ok := f.chains[string(kind)+":"+id]
	if !ok {
		return ResourceChain{}, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return chain, nil
}

// addTree registers one full branch org -> project -> city -> inventory and
// every chain reachable within it.
func (f *fixture) addTree(orgID string, orgActive bool, projectID, cityID, inventoryID string, public bool) {
	f.chains["organization:"+orgID] = ResourceChain{
		Kind:           KindOrganization,
		OrganizationID: orgID,
		OrgActive:      orgActive,
	}
	f.chains["project:"+projectID] = ResourceChain{
		Kind:           KindProject,
		OrganizationID: orgID,
		ProjectID:      projectID,
		OrgActive:      orgActive,
	}
	f.chains["city:"+cityID] = ResourceChain{
		Kind:           KindCity,
		OrganizationID: orgID,
		ProjectID:      projectID,
		CityID:         cityID,
		OrgActive:      orgActive,
	}
	f.chains["inventory:"+inventoryID] = ResourceChain{
		Kind:            KindInventory,
		OrganizationID:  orgID,
		ProjectID:       projectID,
		CityID:          cityID,
		InventoryID:     inventoryID,
		OrgActive:       orgActive,
		InventoryPublic: public,
	}
}

func newTestGuard(f *fixture) *Guard {
	guard, err := NewGuard(f, f)
	if err != nil {
		panic(err)
	}
	return guard
}

func ident(userID string) *Identity {
	return &Identity{UserID: userID, SystemRole: SystemRoleUser}
}

var errStorage = errors.New("connection reset")
