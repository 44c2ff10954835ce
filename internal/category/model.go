package category

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateInput struct {
	Name        string
	Description string
	ImageURL    string
}

// UpdateInput is a partial update; Slug is derived by the service from Name.
type UpdateInput struct {
	Name        *string
	Slug        *string
	Description *string
	ImageURL    *string
}

func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Description == nil && in.ImageURL == nil
}
