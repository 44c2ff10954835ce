package report

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type RecentOrder struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	CustomerEmail string          `db:"customer_email" json:"customer_email"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Status        string          `db:"status" json:"status"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Totals holds the headline counters. Revenue excludes cancelled orders.
type Totals struct {
	Users      int             `db:"users" json:"users"`
	Products   int             `db:"products" json:"products"`
	Categories int             `db:"categories" json:"categories"`
	Orders     int             `db:"orders" json:"orders"`
	Revenue    decimal.Decimal `db:"revenue" json:"revenue"`
}

type Dashboard struct {
	Totals         Totals        `json:"totals"`
	OrdersByStatus []StatusCount `json:"orders_by_status"`
	RecentOrders   []RecentOrder `json:"recent_orders"`
}
