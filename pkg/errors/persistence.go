package errors

import (
	"context"
	"errors"
	"strconv"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

var sqliteUniqueCodes = map[string]bool{
	strconv.Itoa(int(sqlite3.ErrConstraintUnique)):     true,
	strconv.Itoa(int(sqlite3.ErrConstraintPrimaryKey)): true,
}

// FromPersistence classifies a storage failure: duplicate keys become CONFLICT, missing rows
// NOT_FOUND, and everything else DEPENDENCY_ERROR. Typed errors pass through untouched.
func FromPersistence(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if typed := As(err); typed != nil {
		return typed
	}
	switch {
	case IsUniqueViolation(err):
		return Wrap(CodeConflict, err, message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, err, message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeDependency, err, message).WithDetails(map[string]any{"reason": "timeout"})
	}
	return Wrap(CodeDependency, err, message)
}

// IsUniqueViolation recognises duplicate-key errors from pgx, lib/pq, gorm, and sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	store := storeError(err)
	if store == nil {
		return false
	}
	if store.Driver == "sqlite" {
		return sqliteUniqueCodes[store.Code]
	}
	return store.Code == pgUniqueViolation
}
