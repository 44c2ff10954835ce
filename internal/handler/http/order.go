package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/order"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest leaves emptiness and quantity checks to the order
// service so the client sees the same errors as on cart checkout.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"dive"`
	ShippingAddress string             `json:"shipping_address" validate:"max=1000"`
	Notes           string             `json:"notes" validate:"max=2000"`
}

type UpdateOrderRequest struct {
	Status        *order.Status        `json:"status,omitempty"`
	PaymentStatus *order.PaymentStatus `json:"payment_status,omitempty"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{service: service, validate: validator.New()}
}

// List shows customers their own orders. Admins see every order and may
// filter by userId; status=all disables the status filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	var f order.ListFilter
	if !claims.IsAdmin() {
		f.UserID = &claims.UserID
	} else if raw := q.Get("userId"); raw != "" {
		id, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid userId parameter")
			return
		}
		f.UserID = &id
	}
	if raw := q.Get("status"); raw != "" && raw != "all" {
		status := order.Status(raw)
		f.Status = &status
	}

	orders, meta, err := h.service.List(r.Context(), f, parsePage(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch orders")
		return
	}
	respondWithPage(w, orders, meta)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	items := make([]order.LineInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	placed, err := h.service.Place(r.Context(), order.PlaceInput{
		UserID:          claims.UserID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create order")
		return
	}
	respondWithJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order created successfully",
		Data:    placed,
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch order")
		return
	}
	if !claims.IsAdmin() && o.UserID != claims.UserID {
		respondWithServiceError(w, r, errForbidden, "Failed to fetch order")
		return
	}
	respondWithData(w, http.StatusOK, o)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), id, order.StatusUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update order")
		return
	}
	respondWithData(w, http.StatusOK, o)
}
