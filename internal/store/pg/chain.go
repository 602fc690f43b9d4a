package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"citycarbon.org/internal/authz"
)

// LoadChain loads a resource together with its full ancestor chain in one
// joined query per kind. Inner joins guarantee that a missing ancestor link
// produces zero rows, which surfaces as ErrNotFound rather than a partial
// chain.
func (s *Store) LoadChain(ctx context.Context, kind authz.ResourceKind, id string) (authz.ResourceChain, error) {
	if s.db == nil {
		return authz.ResourceChain{}, errors.New("database connection unavailable")
	}

	chain := authz.ResourceChain{Kind: kind}
	var err error
	switch kind {
	case authz.KindOrganization:
		err = s.db.QueryRowContext(ctx, `
			select o.id, o.active
			from organizations o
			where o.id = $1
		`, id).Scan(&chain.OrganizationID, &chain.OrgActive)
	case authz.KindProject:
		err = s.db.QueryRowContext(ctx, `
			select p.id, o.id, o.active
			from projects p
			join organizations o on o.id = p.organization_id
			where p.id = $1
		`, id).Scan(&chain.ProjectID, &chain.OrganizationID, &chain.OrgActive)
	case authz.KindCity:
		err = s.db.QueryRowContext(ctx, `
			select c.id, p.id, o.id, o.active
			from cities c
			join projects p on p.id = c.project_id
			join organizations o on o.id = p.organization_id
			where c.id = $1
		`, id).Scan(&chain.CityID, &chain.ProjectID, &chain.OrganizationID, &chain.OrgActive)
	case authz.KindInventory:
		err = s.db.QueryRowContext(ctx, `
			select i.id, i.is_public, c.id, p.id, o.id, o.active
			from inventories i
			join cities c on c.id = i.city_id
			join projects p on p.id = c.project_id
			join organizations o on o.id = p.organization_id
			where i.id = $1
		`, id).Scan(&chain.InventoryID, &chain.InventoryPublic, &chain.CityID, &chain.ProjectID, &chain.OrganizationID, &chain.OrgActive)
	default:
		return authz.ResourceChain{}, fmt.Errorf("%w: unknown resource kind %q", authz.ErrInvalidInput, kind)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return authz.ResourceChain{}, fmt.Errorf("%w: %s %s", authz.ErrNotFound, kind, id)
	}
	if err != nil {
		return authz.ResourceChain{}, err
	}
	return chain, nil
}
