package postgresql

import (
	"errors"
	"fmt"

	"overtime-approval/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// isUUID reports whether id can match a uuid primary key. Anything else would
// fail in PostgreSQL with invalid_text_representation instead of finding no row.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// translate maps GORM errors onto the repository sentinels. The database
// handle must be opened with TranslateError so unique violations arrive as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}
