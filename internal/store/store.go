package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// asNotFound maps gorm's record-not-found onto the domain sentinel so
// callers can errors.Is against models.ErrNotFound.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// ensureID assigns a fresh UUID when the caller did not provide one.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
