package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type Pinger interface {
	Ping(ctx context.Context) (time.Time, error)
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	now, err := h.db.Ping(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		respondWithJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Database connection failed",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Database connected",
		Data:    map[string]time.Time{"time": now},
	})
}
