package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"citycarbon.org/internal/authn"
	"citycarbon.org/internal/authz"
	"citycarbon.org/internal/store/pg"
)

// testStore is an in-memory GrantStore + ResourceLoader + GrantDirectory
// backing the handler tests. Chains are keyed by "<kind>:<id>".
type testStore struct {
	systemAdmins  map[string]struct{}
	orgAdmins     map[string]struct{}
	projectAdmins map[string]struct{}
	collaborators map[string]struct{}
	chains        map[string]authz.ResourceChain
	grantRows     []pg.Grant
}

func newTestStore() *testStore {
	return &testStore{
		systemAdmins:  map[string]struct{}{},
		orgAdmins:     map[string]struct{}{},
		projectAdmins: map[string]struct{}{},
		collaborators: map[string]struct{}{},
		chains:        map[string]authz.ResourceChain{},
	}
}

func grantKey(userID, resourceID string) string { return userID + "|" + resourceID }

func (s *testStore) IsSystemAdmin(_ context.Context, userID string) (bool, error) {
	_, ok := s.systemAdmins[userID]
	return ok, nil
}

func (s *testStore) IsOrganizationAdmin(_ context.Context, userID, orgID string) (bool, error) {
	_, ok := s.orgAdmins[grantKey(userID, orgID)]
	return ok, nil
}

func (s *testStore) IsProjectAdmin(_ context.Context, userID, projectID string) (bool, error) {
	_, ok := s.projectAdmins[grantKey(userID, projectID)]
	return ok, nil
}

func (s *testStore) IsCityCollaborator(_ context.Context, userID, cityID string) (bool, error) {
	_, ok := s.collaborators[grantKey(userID, cityID)]
	return ok, nil
}

func (s *testStore) LoadChain(_ context.Context, kind authz.ResourceKind, id string) (authz.ResourceChain, error) {
	chain, ok := s.chains[string(kind)+":"+id]
	if !ok {
		return authz.ResourceChain{}, fmt.Errorf("%w: %s %s", authz.ErrNotFound, kind, id)
	}
	return chain, nil
}

func (s *testStore) OrganizationGrants(_ context.Context, _ string) ([]pg.Grant, error) {
	return s.grantRows, nil
}

func (s *testStore) addTree(orgID string, orgActive bool, projectID, cityID, inventoryID string, public bool) {
	s.chains["organization:"+orgID] = authz.ResourceChain{
		Kind: authz.KindOrganization, OrganizationID: orgID, OrgActive: orgActive,
	}
	s.chains["project:"+projectID] = authz.ResourceChain{
		Kind: authz.KindProject, OrganizationID: orgID, ProjectID: projectID, OrgActive: orgActive,
	}
	s.chains["city:"+cityID] = authz.ResourceChain{
		Kind: authz.KindCity, OrganizationID: orgID, ProjectID: projectID, CityID: cityID, OrgActive: orgActive,
	}
	s.chains["inventory:"+inventoryID] = authz.ResourceChain{
		Kind: authz.KindInventory, OrganizationID: orgID, ProjectID: projectID, CityID: cityID,
		InventoryID: inventoryID, OrgActive: orgActive, InventoryPublic: public,
	}
}

func newTestAPI(t *testing.T, store *testStore) *API {
	t.Helper()
	guard, err := authz.NewGuard(store, store)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	return New(guard, store, ReadyProbe{}, "test")
}

func obtainToken(t *testing.T, userID string, role authz.SystemRole) string {
	t.Helper()
	t.Setenv("CITYCARBON_AUTH_SECRET", "handler-test-secret")
	authn.ResetSecretForTests()
	t.Cleanup(authn.ResetSecretForTests)
	token, err := authn.GenerateToken(userID, role, 10*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func doRequest(t *testing.T, api *API, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:9999"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return payload
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Fatalf("expected %d, got %d (%s)", expected, rr.Code, rr.Body.String())
	}
}
