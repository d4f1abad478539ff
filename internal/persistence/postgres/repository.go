// Package postgres implements the ledger, standings and directory stores on
// PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/octofit/internal/domain"
)

// Repository provides Postgres-backed persistence for the ledger and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens a pool and verifies the server is reachable.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// inTx runs fn in a READ COMMITTED transaction and maps driver errors onto
// domain errors. The transaction is rolled back when fn or the commit fails.
func (r *Repository) inTx(ctx context.Context, op string, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(op, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return mapError(op, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(op, err)
	}
	return nil
}

// mapError translates SQLSTATE codes into the domain error taxonomy.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return &domain.ConsistencyError{Op: op, Err: err}
	case "23503":
		return &domain.NotFoundError{Resource: resourceForConstraint(pgErr.ConstraintName)}
	case "23505":
		field := "id"
		switch pgErr.ConstraintName {
		case "users_username_key":
			field = "username"
		case "activity_types_name_key":
			field = "name"
		}
		return &domain.ValidationError{Field: field, Reason: "already exists", Err: err}
	case "23514", "22P02", "22003":
		return &domain.ValidationError{Field: pgErr.ColumnName, Reason: pgErr.Message, Err: err}
	}
	return err
}

func resourceForConstraint(name string) string {
	switch {
	case strings.Contains(name, "activity_type_id"):
		return "activity type"
	case strings.Contains(name, "team_id"):
		return "team"
	default:
		return "user"
	}
}

// validUUID guards lookups by surrogate key so malformed identifiers surface
// as not-found rather than as a cast error.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
