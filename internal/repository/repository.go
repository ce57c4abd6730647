// Package repository holds the gorm-backed stores. Every store maps
// gorm failures to apperror kinds so services never see driver errors.
package repository

import (
	"errors"

	"waste-service/internal/apperror"

	"gorm.io/gorm"
)

// translate maps gorm errors onto domain errors for entity
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(entity + " already exists")
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Upstream("database operation failed", err)
}

// paginate applies 1-indexed page/limit to a query
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// ownerSummary preloads only the public columns of a related user
func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "ward_number", "role")
}
