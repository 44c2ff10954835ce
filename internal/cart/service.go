package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/order"
)

var ErrInvalidQuantity = errors.New("quantity must be between 1 and 2147483647")

type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	// Checkout turns the cart into an order and removes the purchased lines in
	// the same transaction.
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress, notes string) (*order.Placed, error)
}

type service struct {
	repo   Repository
	orders order.Service
}

func NewService(repo Repository, orders order.Service) Service {
	return &service{repo: repo, orders: orders}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to load cart")
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	c := &Cart{Items: lines, Total: decimal.Zero}
	for i := range c.Items {
		line := &c.Items[i]
		line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		c.Total = c.Total.Add(line.Subtotal)
	}
	return c, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 || quantity > order.MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if err := s.repo.Add(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidQuantity) {
			return err
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("product_id", productID).Msg("service: failed to add to cart")
		return fmt.Errorf("service: failed to add to cart: %w", err)
	}
	return nil
}

func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 || quantity > order.MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("product_id", productID).Msg("service: failed to update cart")
		return fmt.Errorf("service: failed to update cart: %w", err)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("product_id", productID).Msg("service: failed to remove from cart")
		return fmt.Errorf("service: failed to remove from cart: %w", err)
	}
	return nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress, notes string) (*order.Placed, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to load cart for checkout")
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	items := make([]order.LineInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.LineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	return s.orders.Place(ctx, order.PlaceInput{
		UserID:          userID,
		Items:           items,
		ShippingAddress: shippingAddress,
		Notes:           notes,
		ClearCart:       true,
	})
}
