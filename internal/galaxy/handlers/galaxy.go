package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"planets-mapgen/internal/galaxy"
	"planets-mapgen/internal/shared/errors"
	"planets-mapgen/internal/shared/response"
)

// GalaxyService is the subset of *galaxy.Service the handlers need.
type GalaxyService interface {
	GenerateGalaxy(ctx context.Context, req galaxy.GenerateRequest) (*galaxy.Galaxy, error)
	GetGalaxy(ctx context.Context, galaxyID int) (*galaxy.Galaxy, error)
	ListGalaxies(ctx context.Context) ([]galaxy.Galaxy, error)
	DeleteGalaxy(ctx context.Context, galaxyID int) error
}

const maxRequestBodyBytes = 4 << 10

type GalaxyHandler struct {
	service GalaxyService
	logger  *slog.Logger
}

func NewGalaxyHandler(service GalaxyService, logger *slog.Logger) *GalaxyHandler {
	return &GalaxyHandler{
		service: service,
		logger:  logger,
	}
}

// CreateGalaxy handles POST /api/galaxies - Admin only
func (h *GalaxyHandler) CreateGalaxy(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_galaxy")
	logger.Info("Generating new galaxy")

	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.GenerateGalaxy(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// GetGalaxies handles GET /api/galaxies
func (h *GalaxyHandler) GetGalaxies(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_galaxies")
	logger.Debug("Listing galaxies")

	galaxies, err := h.service.ListGalaxies(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, galaxies)
}

// GetGalaxy handles GET /api/galaxies/{id}
func (h *GalaxyHandler) GetGalaxy(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_galaxy")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	found, err := h.service.GetGalaxy(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

// DeleteGalaxy handles DELETE /api/galaxies/{id} - Admin only
func (h *GalaxyHandler) DeleteGalaxy(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_galaxy")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteGalaxy(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeGenerateRequest reads an optional JSON body; an empty body keeps
// every default.
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (galaxy.GenerateRequest, error) {
	var req galaxy.GenerateRequest
	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.Is(err, io.EOF):
			return galaxy.GenerateRequest{}, nil
		case stderrors.As(err, &tooLarge):
			return req, errors.Validationf("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return req, errors.WrapValidation("invalid request body", err)
		}
	}
	return req, nil
}

func galaxyID(r *http.Request) (int, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("galaxy ID is required")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid galaxy ID format", err)
	}
	return id, nil
}
