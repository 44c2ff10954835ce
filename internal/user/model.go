package user

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateInput carries the admin-editable fields; nil means unchanged.
type UpdateInput struct {
	Name  *string
	Email *string
	Role  *auth.Role
}

func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Role == nil
}
