package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/deskward/deskward/pkg/errors"
)

var (
	// ErrEmailTaken indicates another user already uses the e-mail address.
	ErrEmailTaken = apperrors.New("USER_EMAIL_TAKEN", "Email already in use", http.StatusConflict)
	// ErrForeignReference indicates a body references an entity of another organization.
	ErrForeignReference = apperrors.New("FOREIGN_REFERENCE", "Referenced entity does not belong to this organization", http.StatusBadRequest)
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueFailedAt = "unique constraint failed"
)

// createError maps a failed INSERT: unique violations become conflict, anything else is
// wrapped with op.
func createError(op string, err error, conflict *apperrors.AppError) error {
	if isUniqueConstraintError(err) {
		return conflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueConstraintError recognises unique violations from gorm's translated error, the
// postgres and mysql driver errors, and sqlite's message text.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(strings.ToLower(err.Error()), sqliteUniqueFailedAt)
}
