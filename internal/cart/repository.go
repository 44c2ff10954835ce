package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("product is not in the cart")
)

type Repository interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]Line, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Lines returns the cart joined with live product data. Lines whose product
// has been deactivated are left out.
func (r *repository) Lines(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.slug, p.image_url, p.price, p.stock, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND p.is_active = TRUE
		ORDER BY ci.created_at, p.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart for user %s: %w", userID, err)
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Slug, &l.ImageURL, &l.Price, &l.Stock, &l.Quantity); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart lines: %w", err)
	}
	return lines, nil
}

// Add inserts the product or increases the quantity already in the cart.
func (r *repository) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	cmdTag, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		SELECT $1::uuid, p.id, $3::int FROM products p WHERE p.id = $2 AND p.is_active = TRUE
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, userID, productID, quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.NumericValueOutOfRange {
			return ErrInvalidQuantity
		}
		return fmt.Errorf("repository: failed to add product %s to cart: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE cart_items SET quantity = $3, updated_at = NOW() WHERE user_id = $1 AND product_id = $2",
		userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart quantity: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return fmt.Errorf("repository: failed to remove product from cart: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
