package entity

import (
	"time"

	"user-registry/internal/domain/valueobject"
)

// User is the aggregate root for the user domain. The ID is assigned by
// the store on insert and never changes afterwards.
type User struct {
	EntityBase
	FullName string
	Email    valueobject.Email
}

func NewUser(fullName string, email valueobject.Email) *User {
	return &User{
		EntityBase: EntityBase{CreatedAt: time.Now()},
		FullName:   fullName,
		Email:      email,
	}
}

// ModifyUser replaces both mutable fields and stamps the modification time.
func (u *User) ModifyUser(fullName string, email valueobject.Email) {
	u.FullName = fullName
	u.Email = email
	u.Modify()
}

// Delete marks the record inactive. Calling it on an already deleted user
// leaves the flag set but still re-stamps LastModifiedAt.
func (u *User) Delete() {
	u.IsDeleted = true
	u.Modify()
}

// Restore brings a soft-deleted record back. Same re-stamping note as Delete.
func (u *User) Restore() {
	u.IsDeleted = false
	u.Modify()
}
