package repository

import (
	"errors"

	"user-registry/internal/domain/entity"
)

// ErrNotFound is returned by lookups that miss and by updates touching
// zero rows.
var ErrNotFound = errors.New("not found")

// UserRepository defines the persistence operations the lifecycle service
// depends on. Delete removes the row physically and is never called by the
// lifecycle service; soft deletion goes through Update.
type UserRepository interface {
	Add(u *entity.User) (int, error)
	GetByID(id int, includeDeleted bool) (*entity.User, error)
	GetAll(includeDeleted bool) ([]entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetOnlyDeleted() ([]entity.User, error)
	Update(u *entity.User) error
	Delete(u *entity.User) error
}
