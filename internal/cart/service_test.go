package cart_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/order"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartRepository) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Place(ctx context.Context, in order.PlaceInput) (*order.Placed, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Placed), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, f order.ListFilter, page pagination.Params) ([]order.Order, pagination.Meta, error) {
	args := m.Called(ctx, f, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(pagination.Meta), args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(pagination.Meta), args.Error(2)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, upd order.StatusUpdate) (*order.Order, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func TestCartService_Get_ComputesTotals(t *testing.T) {
	repo := new(MockCartRepository)
	svc := cart.NewService(repo, new(MockOrderService))

	userID := uuid.Must(uuid.NewV4())
	repo.On("Lines", mock.Anything, userID).Return([]cart.Line{
		{ProductID: uuid.Must(uuid.NewV4()), Price: decimal.RequireFromString("100.00"), Quantity: 2},
		{ProductID: uuid.Must(uuid.NewV4()), Price: decimal.RequireFromString("49.99"), Quantity: 1},
	}, nil).Once()

	c, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.True(t, decimal.RequireFromString("200").Equal(c.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("249.99").Equal(c.Total), "total = %s", c.Total)
}

func TestCartService_Add(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	productID := uuid.Must(uuid.NewV4())

	t.Run("rejects non positive quantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		err := cart.NewService(repo, new(MockOrderService)).Add(context.Background(), userID, productID, 0)
		require.ErrorIs(t, err, cart.ErrInvalidQuantity)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects quantity beyond column range", func(t *testing.T) {
		repo := new(MockCartRepository)
		svc := cart.NewService(repo, new(MockOrderService))
		require.ErrorIs(t, svc.Add(context.Background(), userID, productID, order.MaxLineQuantity+1), cart.ErrInvalidQuantity)
		require.ErrorIs(t, svc.SetQuantity(context.Background(), userID, productID, order.MaxLineQuantity+1), cart.ErrInvalidQuantity)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(MockCartRepository)
		repo.On("Add", mock.Anything, userID, productID, 1).Return(cart.ErrProductNotFound).Once()
		err := cart.NewService(repo, new(MockOrderService)).Add(context.Background(), userID, productID, 1)
		require.ErrorIs(t, err, cart.ErrProductNotFound)
	})
}

func TestCartService_Checkout_PlacesOrderAndClearsCart(t *testing.T) {
	repo := new(MockCartRepository)
	orders := new(MockOrderService)
	svc := cart.NewService(repo, orders)

	userID := uuid.Must(uuid.NewV4())
	productA := uuid.Must(uuid.NewV4())
	productB := uuid.Must(uuid.NewV4())
	repo.On("Lines", mock.Anything, userID).Return([]cart.Line{
		{ProductID: productA, Quantity: 2},
		{ProductID: productB, Quantity: 1},
	}, nil).Once()

	want := &order.Placed{OrderID: uuid.Must(uuid.NewV4()), Total: decimal.NewFromInt(250)}
	orders.On("Place", mock.Anything, order.PlaceInput{
		UserID: userID,
		Items: []order.LineInput{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		},
		ShippingAddress: "1 Main St",
		Notes:           "ring twice",
		ClearCart:       true,
	}).Return(want, nil).Once()

	got, err := svc.Checkout(context.Background(), userID, "1 Main St", "ring twice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	orders.AssertExpectations(t)
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	repo := new(MockCartRepository)
	orders := new(MockOrderService)
	svc := cart.NewService(repo, orders)

	userID := uuid.Must(uuid.NewV4())
	repo.On("Lines", mock.Anything, userID).Return([]cart.Line{}, nil).Once()
	orders.On("Place", mock.Anything, mock.MatchedBy(func(in order.PlaceInput) bool {
		return len(in.Items) == 0
	})).Return(nil, order.ErrEmptyCart).Once()

	_, err := svc.Checkout(context.Background(), userID, "1 Main St", "")
	require.ErrorIs(t, err, order.ErrEmptyCart)
}
