package http

import (
	"net/http"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/report"
)

type DashboardHandler struct {
	service report.Service
}

func NewDashboardHandler(service report.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to build dashboard")
		return
	}
	respondWithData(w, http.StatusOK, d)
}
