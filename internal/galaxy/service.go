package galaxy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"planets-mapgen/internal/cloud"
	"planets-mapgen/internal/mapgen"
	"planets-mapgen/internal/shared/errors"
	"planets-mapgen/internal/system"
)

// Store persists galaxies. *Repository is the Postgres implementation.
type Store interface {
	CreateGalaxy(ctx context.Context, galaxy *Galaxy) error
	GetGalaxyByID(ctx context.Context, galaxyID int) (*Galaxy, error)
	ListGalaxies(ctx context.Context) ([]Galaxy, error)
	DeleteGalaxy(ctx context.Context, galaxyID int) error
}

// Cache holds generated galaxies by ID. *redis.Client is the implementation.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Defaults struct {
	Params cloud.Params
	Seed   int64
	Name   string
}

type Service struct {
	store    Store
	cache    Cache
	cacheTTL time.Duration
	catalog  mapgen.Catalog
	defaults Defaults
	logger   *slog.Logger
}

func NewService(store Store, cache Cache, cacheTTL time.Duration, defaults Defaults, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service")

	return &Service{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		catalog:  mapgen.DefaultCatalog(),
		defaults: defaults,
		logger:   logger,
	}
}

func cacheKey(galaxyID int) string {
	return fmt.Sprintf("mapgen:galaxy:%d", galaxyID)
}

// Build runs the cloud placement in memory and returns the unsaved galaxy.
func (s *Service) Build(ctx context.Context, req GenerateRequest) (*Galaxy, error) {
	params := s.defaults.Params
	if req.SystemCount != nil {
		params.SystemCount = *req.SystemCount
	}
	if req.UniverseRadius != nil {
		params.UniverseRadius = *req.UniverseRadius
	}
	if req.CentralStar != nil {
		params.CentralStar = *req.CentralStar
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	seed := s.defaults.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng, seed := cloud.NewSeededRand(seed)

	name := req.Name
	if name == "" {
		name = s.defaults.Name
	}

	logger := s.logger.With(
		"component", "galaxy_service",
		"operation", "build",
		"seed", seed,
		"system_count", params.SystemCount,
	)
	logger.Debug("Placing star systems")

	generator := mapgen.NewGenerator(s.logger)
	generator.BeginMap(s.catalog)
	if err := cloud.Generate(ctx, generator, params, rng); err != nil {
		logger.Error("Star system placement failed", "error", err)
		return nil, fmt.Errorf("failed to place star systems: %w", err)
	}

	generated := generator.Systems()
	systems := make([]system.StarSystem, 0, len(generated))
	for i, g := range generated {
		stored := system.FromMap(i, g)
		if stored.Name == "" {
			stored.Name = system.DefaultName(i)
		}
		systems = append(systems, stored)
	}

	return &Galaxy{
		Name:           name,
		Seed:           seed,
		SystemCount:    len(systems),
		UniverseRadius: params.UniverseRadius,
		Params:         params,
		Systems:        systems,
	}, nil
}

// GenerateGalaxy builds a galaxy, stores it and warms the cache.
func (s *Service) GenerateGalaxy(ctx context.Context, req GenerateRequest) (*Galaxy, error) {
	galaxy, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateGalaxy(ctx, galaxy); err != nil {
		if errors.GetType(err) == errors.ErrorTypeConflict {
			return nil, err
		}
		return nil, errors.WrapExternal("failed to store galaxy", err)
	}

	s.cacheGalaxy(ctx, galaxy)

	s.logger.Info("Galaxy generated",
		"galaxy_id", galaxy.ID,
		"name", galaxy.Name,
		"seed", galaxy.Seed,
		"systems", galaxy.SystemCount,
	)
	return galaxy, nil
}

func (s *Service) GetGalaxy(ctx context.Context, galaxyID int) (*Galaxy, error) {
	logger := s.logger.With("component", "galaxy_service", "operation", "get_galaxy", "galaxy_id", galaxyID)

	var cached Galaxy
	found, err := s.cache.GetJSON(ctx, cacheKey(galaxyID), &cached)
	if err != nil {
		logger.Warn("Galaxy cache read failed", "error", err)
	}
	if found {
		logger.Debug("Galaxy served from cache")
		return &cached, nil
	}

	galaxy, err := s.store.GetGalaxyByID(ctx, galaxyID)
	if err != nil {
		return nil, errors.WrapExternal("failed to load galaxy", err)
	}
	if galaxy == nil {
		return nil, errors.NotFoundf("galaxy not found with id: %d", galaxyID)
	}

	s.cacheGalaxy(ctx, galaxy)
	return galaxy, nil
}

func (s *Service) ListGalaxies(ctx context.Context) ([]Galaxy, error) {
	galaxies, err := s.store.ListGalaxies(ctx)
	if err != nil {
		return nil, errors.WrapExternal("failed to list galaxies", err)
	}
	return galaxies, nil
}

func (s *Service) DeleteGalaxy(ctx context.Context, galaxyID int) error {
	logger := s.logger.With("component", "galaxy_service", "operation", "delete_galaxy", "galaxy_id", galaxyID)
	logger.Info("Deleting galaxy")

	if err := s.store.DeleteGalaxy(ctx, galaxyID); err != nil {
		if errors.GetType(err) == errors.ErrorTypeNotFound {
			return err
		}
		return errors.WrapExternal("failed to delete galaxy", err)
	}

	if err := s.cache.Delete(ctx, cacheKey(galaxyID)); err != nil {
		logger.Warn("Failed to evict galaxy from cache", "error", err)
	}
	return nil
}

func (s *Service) cacheGalaxy(ctx context.Context, galaxy *Galaxy) {
	if err := s.cache.SetJSON(ctx, cacheKey(galaxy.ID), galaxy, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache galaxy", "galaxy_id", galaxy.ID, "error", err)
	}
}
