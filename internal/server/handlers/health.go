package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"planets-mapgen/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

// Pinger is satisfied by *database.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger reports cache reachability. A nil CachePinger means the cache is disabled.
type CachePinger interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	cache  CachePinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, cache CachePinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	statusCode := http.StatusOK

	dbStatus := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		dbStatus = "disconnected"
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "connected"
		if err := h.cache.Check(ctx); err != nil {
			logger.Warn("Cache ping failed", "error", err)
			cacheStatus = "disconnected"
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	response.Success(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     cacheStatus,
	})
}
