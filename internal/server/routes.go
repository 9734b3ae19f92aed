package server

import (
	"log/slog"
	"net/http"

	galaxyHandlers "planets-mapgen/internal/galaxy/handlers"
	"planets-mapgen/internal/middleware"
	serverHandlers "planets-mapgen/internal/server/handlers"
)

type Routes struct {
	health        http.Handler
	galaxyService galaxyHandlers.GalaxyService
	authenticator *middleware.Authenticator
	logger        *slog.Logger
}

func NewRoutes(health *serverHandlers.HealthHandler, galaxyService galaxyHandlers.GalaxyService, authenticator *middleware.Authenticator, logger *slog.Logger) *Routes {
	return &Routes{
		health:        health,
		galaxyService: galaxyService,
		authenticator: authenticator,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService, r.logger)

	// Public endpoints
	mux.Handle("GET /api/server/health", r.health)
	mux.HandleFunc("GET /api/galaxies", galaxyHandler.GetGalaxies)
	mux.HandleFunc("GET /api/galaxies/{id}", galaxyHandler.GetGalaxy)

	// Admin-only endpoints
	mux.Handle("POST /api/galaxies", r.authenticator.RequireAdmin(http.HandlerFunc(galaxyHandler.CreateGalaxy)))
	mux.Handle("DELETE /api/galaxies/{id}", r.authenticator.RequireAdmin(http.HandlerFunc(galaxyHandler.DeleteGalaxy)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/galaxies", "/api/galaxies/{id}"},
		"admin_endpoints", []string{"POST /api/galaxies", "DELETE /api/galaxies/{id}"},
	)

	return mux
}
