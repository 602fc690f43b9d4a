package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"citycarbon.org/internal/authz"
)

// Store implements the authorization engine's read contracts over Postgres.
type Store struct {
	db *sql.DB
}

var (
	_ authz.GrantStore     = (*Store)(nil)
	_ authz.ResourceLoader = (*Store)(nil)
)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool. Used by tests and callers that
// manage the pool themselves.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// exists runs an existence query and collapses sql.ErrNoRows into false.
func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	if s.db == nil {
		return false, errors.New("database connection unavailable")
	}
	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
