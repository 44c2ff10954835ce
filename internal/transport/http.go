package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	handler "github.com/vasiliy-maslov/ecommerce-storefront/internal/handler/http"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Orders     *handler.OrderHandler
	Cart       *handler.CartHandler
	Users      *handler.UserHandler
	Dashboard  *handler.DashboardHandler
}

type route struct {
	method  string
	pattern string
	access  handler.Access
	handler http.HandlerFunc
}

// routes is the single source of truth for who may call what.
func routes(h Handlers) []route {
	return []route{
		{http.MethodGet, "/health", handler.Public, h.Health.Live},
		{http.MethodGet, "/api/health/db", handler.Public, h.Health.Database},

		{http.MethodPost, "/api/auth/register", handler.Public, h.Auth.Register},
		{http.MethodPost, "/api/auth/login", handler.Public, h.Auth.Login},
		{http.MethodPost, "/api/auth/logout", handler.Public, h.Auth.Logout},
		{http.MethodGet, "/api/auth/me", handler.Authenticated, h.Auth.Me},

		{http.MethodGet, "/api/categories", handler.Public, h.Categories.List},
		{http.MethodPost, "/api/categories", handler.Admin, h.Categories.Create},
		{http.MethodGet, "/api/categories/{id}", handler.Public, h.Categories.Get},
		{http.MethodPut, "/api/categories/{id}", handler.Admin, h.Categories.Update},
		{http.MethodDelete, "/api/categories/{id}", handler.Admin, h.Categories.Delete},

		{http.MethodGet, "/api/products", handler.Public, h.Products.List},
		{http.MethodPost, "/api/products", handler.Admin, h.Products.Create},
		{http.MethodGet, "/api/products/{id}", handler.Optional, h.Products.Get},
		{http.MethodPut, "/api/products/{id}", handler.Admin, h.Products.Update},
		{http.MethodDelete, "/api/products/{id}", handler.Admin, h.Products.Delete},

		{http.MethodGet, "/api/orders", handler.Authenticated, h.Orders.List},
		{http.MethodPost, "/api/orders", handler.Authenticated, h.Orders.Create},
		{http.MethodGet, "/api/orders/{id}", handler.Authenticated, h.Orders.Get},
		{http.MethodPut, "/api/orders/{id}", handler.Admin, h.Orders.Update},

		{http.MethodGet, "/api/cart", handler.Authenticated, h.Cart.Get},
		{http.MethodPost, "/api/cart", handler.Authenticated, h.Cart.Add},
		{http.MethodPut, "/api/cart/{productId}", handler.Authenticated, h.Cart.Update},
		{http.MethodDelete, "/api/cart/{productId}", handler.Authenticated, h.Cart.Remove},
		{http.MethodPost, "/api/checkout", handler.Authenticated, h.Cart.Checkout},

		{http.MethodGet, "/api/users", handler.Admin, h.Users.List},
		{http.MethodPut, "/api/users/{id}", handler.Admin, h.Users.Update},
		{http.MethodDelete, "/api/users/{id}", handler.Admin, h.Users.Delete},

		{http.MethodGet, "/api/admin/dashboard", handler.Admin, h.Dashboard.Get},
	}
}

func NewRouter(h Handlers, gate *handler.Gate) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Not found"}`))
	})

	for _, rt := range routes(h) {
		r.With(gate.Require(rt.access)).Method(rt.method, rt.pattern, rt.handler)
	}

	return r
}
