package application

import "user-registry/internal/domain/entity"

// UserDTO is the wire shape for a user. Field names are part of the API
// contract and are case-sensitive.
type UserDTO struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,max=100,email"`
}

// ToUserDTO translates an entity to its wire shape field by field.
func ToUserDTO(u *entity.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email.Address(),
	}
}

func ToUserDTOs(users []entity.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *ToUserDTO(&users[i]))
	}
	return out
}
