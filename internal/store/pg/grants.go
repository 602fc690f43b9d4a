package pg

import (
	"context"
	"errors"
	"time"
)

// Grant lookups are pure existence checks against the four grant relations.
// A dangling grant row (one whose user or resource no longer exists) is not
// authoritative; the joins below make it invisible.

func (s *Store) IsSystemAdmin(ctx context.Context, userID string) (bool, error) {
	return s.exists(ctx, `
		select 1 from users
		where id = $1 and system_role = 'system_admin'
	`, userID)
}

func (s *Store) IsOrganizationAdmin(ctx context.Context, userID, organizationID string) (bool, error) {
	return s.exists(ctx, `
		select 1 from organization_admins g
		join users u on u.id = g.user_id
		join organizations o on o.id = g.organization_id
		where g.user_id = $1 and g.organization_id = $2
	`, userID, organizationID)
}

func (s *Store) IsProjectAdmin(ctx context.Context, userID, projectID string) (bool, error) {
	return s.exists(ctx, `
		select 1 from project_admins g
		join users u on u.id = g.user_id
		join projects p on p.id = g.project_id
		where g.user_id = $1 and g.project_id = $2
	`, userID, projectID)
}

func (s *Store) IsCityCollaborator(ctx context.Context, userID, cityID string) (bool, error) {
	return s.exists(ctx, `
		select 1 from city_collaborators g
		join users u on u.id = g.user_id
		join cities c on c.id = g.city_id
		where g.user_id = $1 and g.city_id = $2
	`, userID, cityID)
}

// Grant is one persisted grant row under an organization, for the admin
// surface that lists who can touch what.
type Grant struct {
	Kind       string    `json:"kind"`
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrganizationGrants enumerates every grant row scoped under the given
// organization: its admins, the admins of its projects, and the
// collaborators of its cities.
func (s *Store) OrganizationGrants(ctx context.Context, organizationID string) ([]Grant, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select 'organization_admin' as kind, g.organization_id as resource_id, g.user_id, g.created_at
		from organization_admins g
		where g.organization_id = $1
		union all
		select 'project_admin', g.project_id, g.user_id, g.created_at
		from project_admins g
		join projects p on p.id = g.project_id
		where p.organization_id = $1
		union all
		select 'city_collaborator', g.city_id, g.user_id, g.created_at
		from city_collaborators g
		join cities c on c.id = g.city_id
		join projects p on p.id = c.project_id
		where p.organization_id = $1
		order by kind, resource_id, user_id
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Kind, &g.ResourceID, &g.UserID, &g.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}
