package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// IsPgDuplicateError checks if err is a unique constraint violation.
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsPgNoRowsError checks if err is pgx.ErrNoRows.
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if err is a foreign key violation.
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

// IsPgInvalidTextError checks if err is a malformed literal, such as a
// non-UUID string compared against a UUID column.
func IsPgInvalidTextError(err error) bool {
	return pgCode(err) == pgInvalidText
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// MapError translates driver errors into domain errors. op names the
// operation ("get static model"), resource and id describe the row.
func MapError(err error, op, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case IsPgNoRowsError(err), IsPgInvalidTextError(err):
		// No row can match an id that is not a valid UUID.
		return fmt.Errorf("%s %s: %w", resource, id, domain.ErrNotFound)
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s already exists", resource),
			ResourceType: resource,
			ResourceID:   id,
		}
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s: referenced row missing: %w", op, domain.ErrValidation)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
