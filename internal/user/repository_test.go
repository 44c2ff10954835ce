package user_test

import (
	"context"
	"os"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/db/dbtest"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/user"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(dbtest.Run(m, &testDB))
}

func truncateUsersTable(tb testing.TB, pool *pgxpool.Pool) {
	dbtest.Truncate(tb, pool, "users")
}

func newTestUser(email string) *user.User {
	return &user.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed_password",
		Role:     auth.RoleCustomer,
	}
}

func TestUserRepository_Create(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	u := newTestUser("test.create@example.com")
	createdID, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, createdID)
	require.Equal(t, u.ID, createdID)
	require.False(t, u.CreatedAt.IsZero())
}

func TestUserRepository_Create_EmailExists(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	_, err := repo.Create(context.Background(), newTestUser("dup@example.com"))
	require.NoError(t, err)

	createdID, err := repo.Create(context.Background(), newTestUser("dup@example.com"))
	require.ErrorIs(t, err, user.ErrEmailExists)
	require.Equal(t, uuid.Nil, createdID)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	u := newTestUser("find.me@example.com")
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)

	found, err := repo.GetByEmail(context.Background(), "find.me@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, u.Password, found.Password)
	assert.Equal(t, auth.RoleCustomer, found.Role)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.GetByID(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_List(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := repo.Create(context.Background(), newTestUser(email))
		require.NoError(t, err)
	}

	users, total, err := repo.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, users, 1)
}

func TestUserRepository_Update_Partial(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	u := newTestUser("partial@example.com")
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	other := newTestUser("taken@example.com")
	_, err = repo.Create(context.Background(), other)
	require.NoError(t, err)

	role := auth.RoleAdmin
	updated, err := repo.Update(context.Background(), u.ID, user.UpdateInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, updated.Role)
	assert.Equal(t, u.Name, updated.Name, "untouched fields keep their value")
	assert.Equal(t, u.Email, updated.Email)

	taken := "taken@example.com"
	_, err = repo.Update(context.Background(), u.ID, user.UpdateInput{Email: &taken})
	require.ErrorIs(t, err, user.ErrEmailExists)

	_, err = repo.Update(context.Background(), uuid.Must(uuid.NewV4()), user.UpdateInput{Role: &role})
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	pool := dbtest.Pool(t, testDB)
	repo := user.NewRepository(pool)
	t.Cleanup(func() { truncateUsersTable(t, pool) })

	u := newTestUser("delete@example.com")
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), u.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), u.ID), user.ErrNotFound)
}
