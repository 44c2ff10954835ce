package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	handler "github.com/vasiliy-maslov/ecommerce-storefront/internal/handler/http"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/pagination"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/transport"
)

type fakePinger struct {
	now time.Time
	err error
}

func (p fakePinger) Ping(context.Context) (time.Time, error) {
	return p.now, p.err
}

type harness struct {
	router     http.Handler
	tokens     *auth.TokenService
	users      *MockUserService
	categories *MockCategoryService
	products   *MockProductService
	orders     *MockOrderService
	cart       *MockCartService
	reports    *MockReportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tokens := auth.NewTokenService("handler-test-secret", time.Hour)
	h := &harness{
		tokens:     tokens,
		users:      new(MockUserService),
		categories: new(MockCategoryService),
		products:   new(MockProductService),
		orders:     new(MockOrderService),
		cart:       new(MockCartService),
		reports:    new(MockReportService),
	}
	h.router = transport.NewRouter(transport.Handlers{
		Health:     handler.NewHealthHandler(fakePinger{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}),
		Auth:       handler.NewAuthHandler(h.users, tokens, false),
		Categories: handler.NewCategoryHandler(h.categories),
		Products:   handler.NewProductHandler(h.products),
		Orders:     handler.NewOrderHandler(h.orders),
		Cart:       handler.NewCartHandler(h.cart),
		Users:      handler.NewUserHandler(h.users),
		Dashboard:  handler.NewDashboardHandler(h.reports),
	}, handler.NewGate(tokens))

	t.Cleanup(func() {
		h.users.AssertExpectations(t)
		h.categories.AssertExpectations(t)
		h.products.AssertExpectations(t)
		h.orders.AssertExpectations(t)
		h.cart.AssertExpectations(t)
		h.reports.AssertExpectations(t)
	})
	return h
}

func (h *harness) token(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, err := h.tokens.Issue(userID, userID.String()+"@example.com", role)
	require.NoError(t, err)
	return token
}

// do sends the request with token in the session cookie when non-empty.
func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: token})
	}

	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Error      string           `json:"error"`
	Message    string           `json:"message"`
	Pagination *pagination.Meta `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env), "Failed to decode response body")
	return env
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}
