package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registry/internal/domain/valueobject"
)

func mustEmail(t *testing.T, addr string) valueobject.Email {
	t.Helper()
	e, err := valueobject.NewEmail(addr)
	require.NoError(t, err)
	return e
}

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("Unit Test", mustEmail(t, "test1@gmail.com"))

	assert.Zero(t, u.ID)
	assert.Equal(t, "Unit Test", u.FullName)
	assert.Equal(t, "test1@gmail.com", u.Email.Address())
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.IsDeleted)
	assert.Nil(t, u.LastModifiedAt)
}

func TestUser_DeleteAndRestore(t *testing.T) {
	u := NewUser("Unit Test", mustEmail(t, "test1@gmail.com"))

	u.Delete()
	assert.True(t, u.IsDeleted)
	require.NotNil(t, u.LastModifiedAt)

	u.Restore()
	assert.False(t, u.IsDeleted)
	require.NotNil(t, u.LastModifiedAt)
}

func TestUser_DeleteIsIdempotentInEffect(t *testing.T) {
	u := NewUser("Unit Test", mustEmail(t, "test1@gmail.com"))

	u.Delete()
	u.Delete()
	assert.True(t, u.IsDeleted)
	assert.NotNil(t, u.LastModifiedAt)
}

func TestUser_ModifyUserReplacesFields(t *testing.T) {
	u := NewUser("Before", mustEmail(t, "before@example.com"))

	u.ModifyUser("After", mustEmail(t, "after@example.com"))
	assert.Equal(t, "After", u.FullName)
	assert.Equal(t, "after@example.com", u.Email.Address())
	assert.NotNil(t, u.LastModifiedAt)
}

func TestUser_LifecycleRoundTripKeepsIdentityFields(t *testing.T) {
	u := NewUser("Unit Test", mustEmail(t, "round@trip.com"))
	createdAt := u.CreatedAt

	u.Delete()
	u.Restore()

	assert.Equal(t, "Unit Test", u.FullName)
	assert.Equal(t, "round@trip.com", u.Email.Address())
	assert.Equal(t, createdAt, u.CreatedAt)
	assert.False(t, u.IsDeleted)
	assert.NotNil(t, u.LastModifiedAt)
}
