package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestIsSystemAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	mock.ExpectQuery("select 1 from users").WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	ok, err := store.IsSystemAdmin(context.Background(), "root")
	if err != nil {
		t.Fatalf("IsSystemAdmin: %v", err)
	}
	if !ok {
		t.Fatal("expected system admin")
	}

	mock.ExpectQuery("select 1 from users").WithArgs("mortal").
		WillReturnError(sql.ErrNoRows)
	ok, err = store.IsSystemAdmin(context.Background(), "mortal")
	if err != nil {
		t.Fatalf("IsSystemAdmin: %v", err)
	}
	if ok {
		t.Fatal("unexpected system admin")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGrantLookupsMissingRowsAreFalse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewStore(db)
	ctx := context.Background()

	mock.ExpectQuery("select 1 from organization_admins").WithArgs("u1", "o1").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("select 1 from project_admins").WithArgs("u1", "p1").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("select 1 from city_collaborators").WithArgs("u1", "c1").WillReturnError(sql.ErrNoRows)

	if ok, err := store.IsOrganizationAdmin(ctx, "u1", "o1"); err != nil || ok {
		t.Fatalf("IsOrganizationAdmin: ok=%v err=%v", ok, err)
	}
	if ok, err := store.IsProjectAdmin(ctx, "u1", "p1"); err != nil || ok {
		t.Fatalf("IsProjectAdmin: ok=%v err=%v", ok, err)
	}
	if ok, err := store.IsCityCollaborator(ctx, "u1", "c1"); err != nil || ok {
		t.Fatalf("IsCityCollaborator: ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGrantLookupPropagatesInfrastructureErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	infra := errors.New("connection reset")
	mock.ExpectQuery("select 1 from organization_admins").WithArgs("u1", "o1").WillReturnError(infra)

	if _, err := store.IsOrganizationAdmin(context.Background(), "u1", "o1"); !errors.Is(err, infra) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationGrants(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"kind", "resource_id", "user_id", "created_at"}).
		AddRow("city_collaborator", "c1", "u3", now).
		AddRow("organization_admin", "o1", "u1", now).
		AddRow("project_admin", "p1", "u2", now)
	mock.ExpectQuery("select 'organization_admin' as kind").WithArgs("o1").WillReturnRows(rows)

	grants, err := store.OrganizationGrants(context.Background(), "o1")
	if err != nil {
		t.Fatalf("OrganizationGrants: %v", err)
	}
	if len(grants) != 3 {
		t.Fatalf("expected 3 grants, got %d", len(grants))
	}
	if grants[1].Kind != "organization_admin" || grants[1].UserID != "u1" {
		t.Fatalf("unexpected grant: %+v", grants[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
