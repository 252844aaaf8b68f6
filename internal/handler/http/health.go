package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/handler/http/response"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by every database gateway.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SubscriberCounter reports connected event stream clients.
type SubscriberCounter interface {
	SubscriberCount() int
}

type HealthHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	db     Pinger
	events SubscriberCounter
}

func NewHealthHandler(db Pinger, events SubscriberCounter) HealthHandler {
	return &healthHandlerImpl{db: db, events: events}
}

type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Subscribers int    `json:"subscribers"`
}

// Check implements HealthHandler
func (h *healthHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		response.ServiceUnavailable(w, "Database unavailable")
		return
	}
	response.Success(w, HealthResponse{
		Status:      "ok",
		Database:    "ok",
		Subscribers: h.events.SubscriberCount(),
	})
}
