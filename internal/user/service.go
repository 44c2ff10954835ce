package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNoFieldsSupplied   = errors.New("no fields to update")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, page pagination.Params) ([]User, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: internal error hashing password: %w", err)
	}

	u := &User{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: hash,
		Role:     auth.RoleCustomer,
	}

	createdID, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("service: failed to save user: %w", err)
	}
	u.ID = createdID

	log.Info().Stringer("user_id", u.ID).Msg("service: user registered")
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to load user for login")
		return nil, fmt.Errorf("service: failed to authenticate: %w", err)
	}

	if err := auth.ComparePassword(u.Password, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error().Err(err).Stringer("user_id", u.ID).Msg("service: stored password hash is unusable")
		}
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to get user by id")
		return nil, fmt.Errorf("service: failed to get user by id '%s': %w", id, err)
	}
	return u, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]User, pagination.Meta, error) {
	page = page.Normalize()
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list users")
		return nil, pagination.Meta{}, fmt.Errorf("service: failed to list users: %w", err)
	}
	return users, pagination.NewMeta(page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	if in.Empty() {
		return nil, ErrNoFieldsSupplied
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}

	u, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to update user")
		return nil, fmt.Errorf("service: failed to update user by id '%s': %w", id, err)
	}

	log.Info().Stringer("user_id", id).Msg("service: user updated")
	return u, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to delete user")
		return fmt.Errorf("service: failed to delete user by id '%s': %w", id, err)
	}

	log.Info().Stringer("user_id", id).Stringer("actor_id", actorID).Msg("service: user deleted")
	return nil
}
