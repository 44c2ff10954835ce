package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/user"
)

type UpdateUserRequest struct {
	Name  *string    `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role  *auth.Role `json:"role,omitempty"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service, validate: validator.New()}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, meta, err := h.service.List(r.Context(), parsePage(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch users")
		return
	}
	respondWithPage(w, users, meta)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	u, err := h.service.Update(r.Context(), id, user.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update user")
		return
	}
	respondWithData(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, id); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete user")
		return
	}
	respondWithMessage(w, http.StatusOK, "User deleted")
}
