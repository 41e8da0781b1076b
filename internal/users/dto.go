package users

import (
	"time"

	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	"github.com/stickerdash/stickerdash-backend/pkg/enums"
)

// UserDTO is the transport shape for a user.
type UserDTO struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Image     *string        `json:"image,omitempty"`
	Role      enums.UserRole `json:"role"`
	Banned    bool           `json:"banned"`
	CreatedAt time.Time      `json:"created_at"`
}

// UpsertUserDTO carries the provider-owned fields refreshed on every sign-in.
// Role and banned are managed by administrators and never overwritten here.
type UpsertUserDTO struct {
	ID    string
	Name  string
	Email string
	Image *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.EffectiveRole(),
		Banned:    u.Banned,
		CreatedAt: u.CreatedAt,
	}
}

func (d UpsertUserDTO) ToModel() *models.User {
	return &models.User{
		ID:    d.ID,
		Name:  d.Name,
		Email: d.Email,
		Image: d.Image,
	}
}
