package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	Place(ctx context.Context, in PlaceInput) (*Placed, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f ListFilter, page pagination.Params) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

type lockedProduct struct {
	price    decimal.Decimal
	stock    int
	isActive bool
}

// Place runs the whole checkout in one transaction. Product rows are locked
// in ascending id order so concurrent checkouts over overlapping products
// queue up instead of deadlocking, and the stock read here is the stock
// that gets decremented.
func (r *postgresRepository) Place(ctx context.Context, in PlaceInput) (placed *Placed, err error) {
	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to generate order ID: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Stringer("order_id_attempted", orderID).Msg("Panic recovered during order placement, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id_attempted", orderID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Stringer("order_id_attempted", orderID).Msg("Order placement failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id_attempted", orderID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Stringer("order_id", orderID).Msg("Failed to commit transaction")
				placed = nil
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	locked, err := lockProducts(ctx, tx, in.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	demand := make(map[uuid.UUID]int, len(in.Items))
	prices := make([]decimal.Decimal, len(in.Items))
	for i, line := range in.Items {
		p, ok := locked[line.ProductID]
		if !ok || !p.isActive {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}

		demand[line.ProductID] += line.Quantity
		if demand[line.ProductID] > p.stock {
			return nil, fmt.Errorf("%w for product %s: requested %d, available %d",
				ErrInsufficientStock, line.ProductID, demand[line.ProductID], p.stock)
		}

		prices[i] = p.price
		total = total.Add(p.price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, total, shipping_address, notes, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, orderID, in.UserID, total, in.ShippingAddress, in.Notes, string(StatusPending), string(PaymentUnpaid))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for i, line := range in.Items {
		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			err = fmt.Errorf("repository: failed to generate order item ID: %w", genErr)
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, itemID, orderID, line.ProductID, prices[i], line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", orderID, err)
		}

		_, err = tx.Exec(ctx, "UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2",
			line.Quantity, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to decrement stock for product %s: %w", line.ProductID, err)
		}
	}

	// Only purchased lines leave the cart; hidden or concurrently added lines stay.
	if in.ClearCart {
		if _, err = tx.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1 AND product_id = ANY($2::uuid[])",
			in.UserID, productIDs(in.Items)); err != nil {
			return nil, fmt.Errorf("repository: failed to clear cart for user %s: %w", in.UserID, err)
		}
	}

	return &Placed{OrderID: orderID, Total: total}, nil
}

// productIDs returns the distinct product ids of items as strings for a uuid[] parameter.
func productIDs(items []LineInput) []string {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, line := range items {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID.String())
	}
	return ids
}

func lockProducts(ctx context.Context, tx pgx.Tx, items []LineInput) (map[uuid.UUID]lockedProduct, error) {
	ids := productIDs(items)

	rows, err := tx.Query(ctx, `
		SELECT id, price, stock, is_active
		FROM products
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to lock products: %w", err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]lockedProduct, len(ids))
	for rows.Next() {
		var (
			id uuid.UUID
			p  lockedProduct
		)
		if err := rows.Scan(&id, &p.price, &p.stock, &p.isActive); err != nil {
			return nil, fmt.Errorf("repository: failed to scan locked product: %w", err)
		}
		locked[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating locked products: %w", err)
	}

	return locked, nil
}

const selectOrder = `
	SELECT o.id, o.user_id, u.name, u.email, o.total, o.shipping_address, o.notes,
	       o.status, o.payment_status, o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.Total,
		&o.ShippingAddress,
		&o.Notes,
		&o.Status,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const selectItems = `
	SELECT oi.id, oi.order_id, oi.product_id, p.name, p.image_url, oi.price, oi.quantity, oi.created_at
	FROM order_items oi
	LEFT JOIN products p ON p.id = oi.product_id
`

func scanItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ImageURL,
			&item.Price,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, selectOrder+" WHERE o.id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	rows, err := r.db.Query(ctx, selectItems+" WHERE oi.order_id = $1 ORDER BY oi.created_at, oi.id", orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order id %s: %w", orderID, err)
	}
	o.Items, err = scanItems(rows)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to read order items for order id %s: %w", orderID, err)
	}

	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, f ListFilter, page pagination.Params) ([]Order, int, error) {
	var (
		conditions []string
		args       []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conditions = append(conditions, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders o"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count orders: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("%s%s ORDER BY o.created_at DESC, o.id LIMIT $%d OFFSET $%d", selectOrder, where, n+1, n+2)
	orderRows, err := r.db.Query(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer orderRows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []string
	var ordered []uuid.UUID
	for orderRows.Next() {
		o, err := scanOrder(orderRows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Items = make([]Item, 0)
		ordersMap[o.ID] = o
		ordered = append(ordered, o.ID)
		orderIDs = append(orderIDs, o.ID.String())
	}
	if err := orderRows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository: failed iterating orders: %w", err)
	}

	if len(ordered) == 0 {
		return []Order{}, total, nil
	}

	itemRows, err := r.db.Query(ctx, selectItems+" WHERE oi.order_id = ANY($1::uuid[]) ORDER BY oi.created_at, oi.id", orderIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	items, err := scanItems(itemRows)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to read order items: %w", err)
	}
	for _, item := range items {
		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	result := make([]Order, 0, len(ordered))
	for _, id := range ordered {
		result = append(result, *ordersMap[id])
	}
	return result, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, upd StatusUpdate) (*Order, error) {
	var (
		sets []string
		args []any
	)
	if upd.Status != nil {
		args = append(args, string(*upd.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if upd.PaymentStatus != nil {
		args = append(args, string(*upd.PaymentStatus))
		sets = append(sets, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, orderID)

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("repository: failed to update order status")
		return nil, fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		log.Warn().Stringer("order_id", orderID).Msg("repository: order not found for status update")
		return nil, ErrOrderNotFound
	}

	return r.GetByID(ctx, orderID)
}
