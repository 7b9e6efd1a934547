package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registry/internal/domain/entity"
	"user-registry/internal/domain/valueobject"
)

func TestToUserDTO_TranslatesFieldByField(t *testing.T) {
	email, err := valueobject.NewEmail("Wire@Example.com")
	require.NoError(t, err)

	u := entity.NewUser("Wire Shape", email)
	u.ID = 42

	dto := ToUserDTO(u)
	require.NotNil(t, dto)
	assert.Equal(t, 42, dto.ID)
	assert.Equal(t, "Wire Shape", dto.FullName)
	assert.Equal(t, "wire@example.com", dto.Email)
}

func TestToUserDTO_NilEntity(t *testing.T) {
	assert.Nil(t, ToUserDTO(nil))
}

func TestToUserDTOs_TranslatesAll(t *testing.T) {
	a, _ := valueobject.NewEmail("a@example.com")
	b, _ := valueobject.NewEmail("b@example.com")
	users := []entity.User{*entity.NewUser("A", a), *entity.NewUser("B", b)}
	users[0].ID = 1
	users[1].ID = 2

	dtos := ToUserDTOs(users)
	require.Len(t, dtos, 2)
	assert.Equal(t, UserDTO{ID: 1, FullName: "A", Email: "a@example.com"}, dtos[0])
	assert.Equal(t, UserDTO{ID: 2, FullName: "B", Email: "b@example.com"}, dtos[1])
}

func TestToUserDTOs_EmptyInput(t *testing.T) {
	dtos := ToUserDTOs(nil)
	assert.NotNil(t, dtos)
	assert.Empty(t, dtos)
}
