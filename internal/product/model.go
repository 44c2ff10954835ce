package product

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"image_url"`
	Images       []string        `json:"images"`
	CategoryID   uuid.NullUUID   `json:"category_id"`
	CategoryName *string         `json:"category_name,omitempty"`
	CategorySlug *string         `json:"category_slug,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreateInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Images      []string
	CategoryID  *uuid.UUID
	IsActive    *bool
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Images      *[]string
	CategoryID  *uuid.UUID
	IsActive    *bool
}

func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Slug == nil && in.Description == nil && in.Price == nil &&
		in.Stock == nil && in.ImageURL == nil && in.Images == nil && in.CategoryID == nil && in.IsActive == nil
}

// ListFilter drives the public catalog listing. Inactive products are never
// part of the result.
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Page       pagination.Params
}
