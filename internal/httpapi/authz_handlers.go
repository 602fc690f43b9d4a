package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"citycarbon.org/internal/audit"
	"citycarbon.org/internal/authz"
	"citycarbon.org/internal/obs"
)

// handleCheckAccess answers "what may this caller do here" for UI
// affordances. Denials are part of the payload, never an error status.
func (a *API) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var ref authz.ResourceRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	access, err := a.guard.CheckAccess(r.Context(), identityFrom(r), ref)
	if err != nil {
		obs.ObserveDecision("check_access", "error")
		respondError(w, r, http.StatusInternalServerError, "authorization check failed")
		return
	}
	if access.HasAccess {
		obs.ObserveDecision("check_access", "granted")
	} else {
		obs.ObserveDecision("check_access", "denied")
	}
	writeJSON(w, http.StatusOK, access)
}

func (a *API) handleInventoryScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/inventories/"), "/")
	if path == "" {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.handleInventory(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "access":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.handleInventoryAccess(w, r, parts[0])
	default:
		respondError(w, r, http.StatusNotFound, "resource not found")
	}
}

// handleInventory is the guarded read: public inventories are served to
// anyone, private ones only to callers the engine authorizes.
func (a *API) handleInventory(w http.ResponseWriter, r *http.Request, inventoryID string) {
	access, err := a.guard.CanAccessInventory(r.Context(), identityFrom(r), inventoryID, authz.AccessOptions{IncludeResource: true})
	if err != nil {
		a.denyAuthz(w, r, "can_access_inventory", err)
		return
	}
	obs.ObserveDecision("can_access_inventory", "granted")
	writeJSON(w, http.StatusOK, map[string]any{
		"inventory": access.Resource,
		"role":      access.Role,
	})
}

// handleInventoryAccess reports read/write capability without gating:
// consumed by UIs deciding whether to render an edit button.
func (a *API) handleInventoryAccess(w http.ResponseWriter, r *http.Request, inventoryID string) {
	identity := identityFrom(r)
	ctx := r.Context()

	role := authz.RoleNoAccess
	canRead := false
	read, err := a.guard.CanAccessInventory(ctx, identity, inventoryID, authz.AccessOptions{})
	switch {
	case err == nil:
		canRead = true
		role = read.Role
	case errors.Is(err, authz.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	case errors.Is(err, authz.ErrUnauthorized), errors.Is(err, authz.ErrForbidden):
		// reflected in the payload
	default:
		respondError(w, r, http.StatusInternalServerError, "authorization check failed")
		return
	}

	canWrite := false
	write, err := a.guard.CanEditInventory(ctx, identity, inventoryID, authz.AccessOptions{})
	switch {
	case err == nil:
		canWrite = true
		role = write.Role
	case errors.Is(err, authz.ErrUnauthorized), errors.Is(err, authz.ErrForbidden):
		// reflected in the payload
	default:
		respondError(w, r, http.StatusInternalServerError, "authorization check failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"inventory_id": inventoryID,
		"can_read":     canRead,
		"can_write":    canWrite,
		"role":         role,
	})
}

func (a *API) handleOrganizationScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/organizations/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "grants" {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.handleOrganizationGrants(w, r, parts[0])
}

// handleOrganizationGrants lists every grant under an organization. Only
// the organization's admins (or platform operators) may see it.
func (a *API) handleOrganizationGrants(w http.ResponseWriter, r *http.Request, organizationID string) {
	if err := a.guard.RequireAdminOrOrgAdmin(r.Context(), identityFrom(r), organizationID); err != nil {
		a.denyAuthz(w, r, "org_grants", err)
		return
	}
	if a.grants == nil {
		respondError(w, r, http.StatusServiceUnavailable, "grant directory unavailable")
		return
	}
	grants, err := a.grants.OrganizationGrants(r.Context(), organizationID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "list grants failed")
		return
	}
	obs.ObserveDecision("org_grants", "granted")
	writeJSON(w, http.StatusOK, map[string]any{
		"organization_id": organizationID,
		"grants":          grants,
	})
}

// denyAuthz maps engine errors to HTTP statuses: not-found 404,
// unauthorized 401, forbidden 403, anything else 500.
func (a *API) denyAuthz(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, authz.ErrNotFound):
		obs.ObserveDecision(operation, "not_found")
		respondError(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, authz.ErrUnauthorized):
		obs.ObserveDecision(operation, "unauthorized")
		respondError(w, r, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, authz.ErrForbidden):
		obs.ObserveDecision(operation, "forbidden")
		_ = audit.LogEvent(r.Context(), "authz.denied", map[string]any{
			"operation": operation,
			"path":      r.URL.Path,
		})
		respondError(w, r, http.StatusForbidden, "access denied")
	case errors.Is(err, authz.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		obs.ObserveDecision(operation, "error")
		respondError(w, r, http.StatusInternalServerError, "authorization check failed")
	}
}
