package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/slug"
)

var (
	ErrInvalidName      = errors.New("product name must contain at least one letter or digit")
	ErrInvalidSlug      = errors.New("slug must contain at least one letter or digit")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNegativeStock    = errors.New("stock cannot be negative")
	ErrNoFieldsSupplied = errors.New("no fields to update")
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Product, error)
	// Get hides inactive products unless includeInactive is set.
	Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]Product, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if slug.Make(name) == "" {
		return nil, ErrInvalidName
	}

	productSlug := slug.Make(in.Slug)
	if strings.TrimSpace(in.Slug) == "" {
		productSlug = slug.Make(name)
	} else if productSlug == "" {
		return nil, ErrInvalidSlug
	}

	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if in.Stock < 0 {
		return nil, ErrNegativeStock
	}

	p := &Product{
		Name:        name,
		Slug:        productSlug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Images:      in.Images,
		IsActive:    true,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if in.CategoryID != nil {
		p.CategoryID = uuid.NullUUID{UUID: *in.CategoryID, Valid: true}
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrSlugExists) || errors.Is(err, ErrCategoryNotFound) {
			log.Warn().Err(err).Str("slug", productSlug).Msg("service: product rejected by constraints")
			return nil, err
		}
		log.Error().Err(err).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", p.ID).Str("slug", p.Slug).Msg("service: product created")
	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to get product")
		return nil, fmt.Errorf("service: failed to get product: %w", err)
	}

	if !p.IsActive && !includeInactive {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Product, pagination.Meta, error) {
	f.Page = f.Page.Normalize()
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, pagination.Meta{}, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, pagination.NewMeta(f.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Product, error) {
	if in.Empty() {
		return nil, ErrNoFieldsSupplied
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if slug.Make(name) == "" {
			return nil, ErrInvalidName
		}
		in.Name = &name
	}
	if in.Slug != nil {
		productSlug := slug.Make(*in.Slug)
		if productSlug == "" {
			return nil, ErrInvalidSlug
		}
		in.Slug = &productSlug
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, ErrNegativeStock
	}

	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSlugExists) || errors.Is(err, ErrCategoryNotFound) {
			return nil, err
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to update product")
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product updated")
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product deleted")
	return nil
}
