package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/category"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/product"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/slug"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/user"
)

type options struct {
	adminEmail          string
	adminPassword       string
	adminName           string
	productsPerCategory int
	reset               bool
}

type summaryRow struct {
	kind   string
	name   string
	key    string
	result string
}

type categorySeed struct {
	name        string
	description string
	products    []product.CreateInput
}

var demoCategories = []struct {
	name        string
	description string
	basePrice   string
}{
	{"Electronics", "Gadgets, audio and accessories", "49.99"},
	{"Home & Kitchen", "Cookware and everyday essentials", "19.90"},
	{"Books", "Fiction and non-fiction", "12.50"},
	{"Sports & Outdoors", "Gear for staying active", "29.00"},
}

// catalogPlan returns the demo catalog with perCategory products in each
// category. Prices and stock are deterministic so reruns are idempotent.
func catalogPlan(perCategory int) []categorySeed {
	plan := make([]categorySeed, 0, len(demoCategories))
	for _, c := range demoCategories {
		base := decimal.RequireFromString(c.basePrice)
		seed := categorySeed{name: c.name, description: c.description}
		for i := 1; i <= perCategory; i++ {
			name := fmt.Sprintf("%s Item %d", c.name, i)
			seed.products = append(seed.products, product.CreateInput{
				Name:        name,
				Description: fmt.Sprintf("Demo product %d in %s", i, c.name),
				Price:       base.Add(decimal.NewFromInt(int64(i - 1)).Mul(decimal.NewFromInt(5))),
				Stock:       10 * i,
			})
		}
		plan = append(plan, seed)
	}
	return plan
}

type seeder struct {
	userRepo   user.Repository
	users      user.Service
	categories category.Service
	products   product.Service
}

func (s *seeder) run(ctx context.Context, opts options) ([]summaryRow, error) {
	var rows []summaryRow

	adminRow, err := s.ensureAdmin(ctx, opts)
	if err != nil {
		return nil, err
	}
	rows = append(rows, adminRow)

	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	bySlug := make(map[string]uuid.UUID, len(existing))
	for _, c := range existing {
		bySlug[c.Slug] = c.ID
	}

	for _, cs := range catalogPlan(opts.productsPerCategory) {
		categoryID, row, err := s.ensureCategory(ctx, cs, bySlug)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		for _, in := range cs.products {
			in.CategoryID = &categoryID
			p, err := s.products.Create(ctx, in)
			switch {
			case errors.Is(err, product.ErrSlugExists):
				rows = append(rows, summaryRow{"product", in.Name, slug.Make(in.Name), "exists"})
			case err != nil:
				return nil, fmt.Errorf("failed to create product %q: %w", in.Name, err)
			default:
				rows = append(rows, summaryRow{"product", p.Name, p.Slug, "created"})
			}
		}
	}
	return rows, nil
}

// ensureAdmin registers the admin account, or promotes an existing account
// with the same email.
func (s *seeder) ensureAdmin(ctx context.Context, opts options) (summaryRow, error) {
	result := "created"
	u, err := s.users.Register(ctx, opts.adminName, opts.adminEmail, opts.adminPassword)
	if errors.Is(err, user.ErrEmailExists) {
		result = "exists"
		u, err = s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.adminEmail)))
	}
	if err != nil {
		return summaryRow{}, fmt.Errorf("failed to ensure admin account: %w", err)
	}

	if u.Role != auth.RoleAdmin {
		role := auth.RoleAdmin
		if _, err := s.users.Update(ctx, u.ID, user.UpdateInput{Role: &role}); err != nil {
			return summaryRow{}, fmt.Errorf("failed to promote %s to admin: %w", u.Email, err)
		}
		log.Info().Str("email", u.Email).Msg("Promoted user to admin")
		if result == "exists" {
			result = "promoted"
		}
	}
	return summaryRow{"admin", u.Name, u.Email, result}, nil
}

func (s *seeder) ensureCategory(ctx context.Context, cs categorySeed, bySlug map[string]uuid.UUID) (uuid.UUID, summaryRow, error) {
	key := slug.Make(cs.name)
	if id, ok := bySlug[key]; ok {
		return id, summaryRow{"category", cs.name, key, "exists"}, nil
	}

	c, err := s.categories.Create(ctx, category.CreateInput{Name: cs.name, Description: cs.description})
	if err != nil {
		return uuid.Nil, summaryRow{}, fmt.Errorf("failed to create category %q: %w", cs.name, err)
	}
	bySlug[c.Slug] = c.ID
	return c.ID, summaryRow{"category", c.Name, c.Slug, "created"}, nil
}
