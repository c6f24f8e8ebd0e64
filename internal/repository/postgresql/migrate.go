// Package postgresql implements the domain repositories on PostgreSQL.
package postgresql

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		if _, err := GetQuerier(ctx, db).Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name, or "" when err is
// not a unique violation.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
