// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"talkx/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers sqlite; the pgconn check covers Postgres
// drivers opened without translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// storeErr maps low-level store failures to application error kinds.
// Deadline and cancellation surface as Unavailable so the transport layer
// answers 503 instead of hanging or reporting an internal error.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := models.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.NewUnavailableError(err)
	}
	return models.NewInternalError(err)
}
