package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/cart"
)

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"max=1000"`
	Notes           string `json:"notes" validate:"max=2000"`
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{service: service, validate: validator.New()}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch cart")
		return
	}
	respondWithData(w, http.StatusOK, c)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req AddToCartRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.Add(r.Context(), claims.UserID, req.ProductID, req.Quantity); err != nil {
		respondWithServiceError(w, r, err, "Failed to add to cart")
		return
	}
	respondWithMessage(w, http.StatusOK, "Added to cart")
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	productID, ok := parseUUIDParam(w, r, "productId")
	if !ok {
		return
	}
	var req SetCartQuantityRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.service.SetQuantity(r.Context(), claims.UserID, productID, req.Quantity); err != nil {
		respondWithServiceError(w, r, err, "Failed to update cart")
		return
	}
	respondWithMessage(w, http.StatusOK, "Cart updated")
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	productID, ok := parseUUIDParam(w, r, "productId")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), claims.UserID, productID); err != nil {
		respondWithServiceError(w, r, err, "Failed to remove from cart")
		return
	}
	respondWithMessage(w, http.StatusOK, "Removed from cart")
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req CheckoutRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	placed, err := h.service.Checkout(r.Context(), claims.UserID, req.ShippingAddress, req.Notes)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to check out")
		return
	}
	respondWithJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Checkout success",
		Data:    placed,
	})
}
