package report

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const recentOrdersLimit = 5

type Repository interface {
	Totals(ctx context.Context) (Totals, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.GetContext(ctx, &t, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM products WHERE is_active = TRUE) AS products,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'cancelled') AS revenue
	`)
	if err != nil {
		return Totals{}, fmt.Errorf("repository: failed to query dashboard totals: %w", err)
	}
	return t, nil
}

func (r *sqlxRepository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	counts := make([]StatusCount, 0)
	err := r.db.SelectContext(ctx, &counts, `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders by status: %w", err)
	}
	return counts, nil
}

func (r *sqlxRepository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	orders := make([]RecentOrder, 0, limit)
	err := r.db.SelectContext(ctx, &orders, `
		SELECT o.id, u.name AS customer_name, u.email AS customer_email,
			o.total, o.status, o.payment_status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query recent orders: %w", err)
	}
	return orders, nil
}
