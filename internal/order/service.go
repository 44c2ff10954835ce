package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

// MaxLineQuantity is the largest quantity a single line may carry; it matches
// the INTEGER quantity columns.
const MaxLineQuantity = math.MaxInt32

// allowedTransitions is consulted only when strict transitions are enabled.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusPaid:       true,
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusPaid: {
		StatusProcessing: true,
		StatusShipped:    true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusShipped:   true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusDelivered: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidQuantity         = errors.New("quantity must be between 1 and 2147483647")
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrNoFieldsSupplied        = errors.New("no fields to update")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidPaymentStatus    = errors.New("invalid payment status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

type Service interface {
	Place(ctx context.Context, in PlaceInput) (*Placed, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f ListFilter, page pagination.Params) ([]Order, pagination.Meta, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Order, error)
}

type Option func(*service)

// WithStrictTransitions makes UpdateStatus reject status changes that are
// not in the transition graph.
func WithStrictTransitions(strict bool) Option {
	return func(s *service) {
		s.strictTransitions = strict
	}
}

type service struct {
	orderRepo         Repository
	strictTransitions bool
}

func NewService(orderRepo Repository, opts ...Option) Service {
	s := &service{orderRepo: orderRepo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Place(ctx context.Context, in PlaceInput) (*Placed, error) {
	if len(in.Items) == 0 {
		log.Warn().Stringer("user_id", in.UserID).Msg("service: attempt to place order with no items")
		return nil, ErrEmptyCart
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.ProductID)
		}
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
	}

	demand := make(map[uuid.UUID]int, len(in.Items))
	for _, line := range in.Items {
		demand[line.ProductID] += line.Quantity
		if demand[line.ProductID] > MaxLineQuantity {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.ProductID)
		}
	}

	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	if in.ShippingAddress == "" {
		return nil, ErrShippingAddressRequired
	}

	placed, err := s.orderRepo.Place(ctx, in)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) {
			log.Warn().Err(err).Stringer("user_id", in.UserID).Msg("service: order rejected")
			return nil, err
		}
		log.Error().Err(err).Stringer("user_id", in.UserID).Msg("service: failed to place order in repository")
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	log.Info().
		Stringer("order_id", placed.OrderID).
		Stringer("user_id", in.UserID).
		Stringer("total", placed.Total).
		Int("lines", len(in.Items)).
		Msg("service: order placed")
	return placed, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return o, nil
}

func (s *service) List(ctx context.Context, f ListFilter, page pagination.Params) ([]Order, pagination.Meta, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, pagination.Meta{}, ErrInvalidStatus
	}

	page = page.Normalize()
	orders, total, err := s.orderRepo.List(ctx, f, page)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, pagination.Meta{}, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, pagination.NewMeta(page, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Order, error) {
	if upd.Status == nil && upd.PaymentStatus == nil {
		return nil, ErrNoFieldsSupplied
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		return nil, ErrInvalidPaymentStatus
	}

	if s.strictTransitions && upd.Status != nil {
		if err := s.checkTransition(ctx, id, *upd.Status); err != nil {
			return nil, err
		}
	}

	o, err := s.orderRepo.UpdateStatus(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to update order status in repository")
		return nil, fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().
		Stringer("order_id", id).
		Stringer("status", o.Status).
		Stringer("payment_status", o.PaymentStatus).
		Msg("service: order status updated")
	return o, nil
}

func (s *service) checkTransition(ctx context.Context, id uuid.UUID, next Status) error {
	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == next {
		return nil
	}
	if !allowedTransitions[current.Status][next] {
		log.Warn().
			Stringer("order_id", id).
			Stringer("current_status", current.Status).
			Stringer("new_status", next).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("%w from %s to %s", ErrInvalidStatusTransition, current.Status, next)
	}
	return nil
}
