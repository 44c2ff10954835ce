package category_test

import (
	"context"
	"os"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/category"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/db/dbtest"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(dbtest.Run(m, &testDB))
}

func TestCategoryRepository_CreateAndList(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := category.NewRepository(pool)
	t.Cleanup(func() { dbtest.Truncate(t, pool, "categories") })

	ctx := context.Background()
	books := &category.Category{Name: "Books", Slug: "books"}
	audio := &category.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, repo.Create(ctx, books))
	require.NoError(t, repo.Create(ctx, audio))

	_, err := pool.Exec(ctx, `
		INSERT INTO products (name, slug, price, stock, category_id, is_active) VALUES
		('Novel', 'novel', 10, 1, $1, TRUE),
		('Atlas', 'atlas', 20, 1, $1, TRUE),
		('Hidden', 'hidden', 30, 1, $1, FALSE)`, books.ID)
	require.NoError(t, err)

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Audio", categories[0].Name, "ordered by name")
	assert.Equal(t, 0, categories[0].ProductCount)
	assert.Equal(t, 2, categories[1].ProductCount, "inactive products are not counted")

	got, err := repo.GetByID(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ProductCount)
}

func TestCategoryRepository_DuplicateSlug(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := category.NewRepository(pool)
	t.Cleanup(func() { dbtest.Truncate(t, pool, "categories") })

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &category.Category{Name: "Books", Slug: "books"}))
	require.ErrorIs(t, repo.Create(ctx, &category.Category{Name: "BOOKS", Slug: "books"}), category.ErrSlugExists)

	other := &category.Category{Name: "Games", Slug: "games"}
	require.NoError(t, repo.Create(ctx, other))
	taken := "books"
	_, err := repo.Update(ctx, other.ID, category.UpdateInput{Slug: &taken})
	require.ErrorIs(t, err, category.ErrSlugExists)
}

func TestCategoryRepository_UpdateAndDelete(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := category.NewRepository(pool)
	t.Cleanup(func() { dbtest.Truncate(t, pool, "categories") })

	ctx := context.Background()
	c := &category.Category{Name: "Books", Slug: "books", Description: "paper"}
	require.NoError(t, repo.Create(ctx, c))

	desc := "paper and ink"
	updated, err := repo.Update(ctx, c.ID, category.UpdateInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "paper and ink", updated.Description)
	assert.Equal(t, "books", updated.Slug)

	_, err = repo.Update(ctx, uuid.Must(uuid.NewV4()), category.UpdateInput{Description: &desc})
	require.ErrorIs(t, err, category.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, c.ID))
	require.ErrorIs(t, repo.Delete(ctx, c.ID), category.ErrNotFound)
	_, err = repo.GetByID(ctx, c.ID)
	require.ErrorIs(t, err, category.ErrNotFound)
}
