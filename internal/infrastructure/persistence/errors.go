package persistence

import (
	"errors"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver-independent GORM errors onto domain sentinels.
// It relies on the connection being opened with TranslateError.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
