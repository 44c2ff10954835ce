package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/product"
)

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Slug        string           `json:"slug" validate:"omitempty,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       int              `json:"stock" validate:"min=0"`
	ImageURL    string           `json:"image_url" validate:"omitempty,max=2048"`
	Images      []string         `json:"images" validate:"omitempty,dive,required,max=2048"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Slug        *string          `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	Images      *[]string        `json:"images,omitempty"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

type ProductHandler struct {
	service  product.Service
	validate *validator.Validate
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{service: service, validate: validator.New()}
}

// List serves the public catalog: search, categoryId, page and limit.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	f := product.ListFilter{
		Search: r.URL.Query().Get("search"),
		Page:   parsePage(r),
	}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid categoryId parameter")
			return
		}
		f.CategoryID = &id
	}

	products, meta, err := h.service.List(r.Context(), f)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch products")
		return
	}
	respondWithPage(w, products, meta)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	includeInactive := claims != nil && claims.IsAdmin()

	p, err := h.service.Get(r.Context(), id, includeInactive)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch product")
		return
	}
	respondWithData(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), product.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create product")
		return
	}
	respondWithData(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), id, product.UpdateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update product")
		return
	}
	respondWithData(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete product")
		return
	}
	respondWithMessage(w, http.StatusOK, "Product deleted")
}
