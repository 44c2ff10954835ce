package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/slug"
)

var (
	ErrInvalidName      = errors.New("category name must contain at least one letter or digit")
	ErrNoFieldsSupplied = errors.New("no fields to update")
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, ErrInvalidName
	}

	c := &Category{
		Name:        name,
		Slug:        categorySlug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrSlugExists) {
			log.Warn().Str("slug", categorySlug).Msg("service: category slug already taken")
			return nil, ErrSlugExists
		}
		log.Error().Err(err).Msg("service: failed to create category")
		return nil, fmt.Errorf("service: failed to create category: %w", err)
	}

	log.Info().Stringer("category_id", c.ID).Str("slug", c.Slug).Msg("service: category created")
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("category_id", id).Msg("service: failed to get category")
		return nil, fmt.Errorf("service: failed to get category: %w", err)
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Category, error) {
	if in.Empty() {
		return nil, ErrNoFieldsSupplied
	}

	in.Slug = nil
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		categorySlug := slug.Make(name)
		if categorySlug == "" {
			return nil, ErrInvalidName
		}
		in.Name = &name
		in.Slug = &categorySlug
	}

	c, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSlugExists) {
			return nil, err
		}
		log.Error().Err(err).Stringer("category_id", id).Msg("service: failed to update category")
		return nil, fmt.Errorf("service: failed to update category: %w", err)
	}

	log.Info().Stringer("category_id", id).Msg("service: category updated")
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("category_id", id).Msg("service: failed to delete category")
		return fmt.Errorf("service: failed to delete category: %w", err)
	}

	log.Info().Stringer("category_id", id).Msg("service: category deleted with its products")
	return nil
}
