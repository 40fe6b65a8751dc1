package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http/response"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	db Pinger
}

// NewHealthHandler accepts a nil db for the in-memory store.
func NewHealthHandler(db Pinger) HealthHandler {
	return &healthHandlerImpl{db: db}
}

func (h *healthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			slog.Error("Database ping failed", "error", err)
			response.ServiceUnavailable(w, "Database is unreachable.")
			return
		}
	}

	response.Success(w, HealthResponse{Status: "ok", Message: "Payroll API is running."})
}
