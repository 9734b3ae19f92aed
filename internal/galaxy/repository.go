package galaxy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"planets-mapgen/internal/shared/database"
	"planets-mapgen/internal/shared/errors"
	"planets-mapgen/internal/system"
)

type Repository struct {
	db         *database.DB
	systemRepo *system.Repository
	logger     *slog.Logger
}

func NewRepository(db *database.DB, systemRepo *system.Repository, logger *slog.Logger) *Repository {
	logger.Debug("Initializing galaxy repository")

	return &Repository{
		db:         db,
		systemRepo: systemRepo,
		logger:     logger,
	}
}

// CreateGalaxy stores the galaxy and all of its systems in one transaction.
func (r *Repository) CreateGalaxy(ctx context.Context, galaxy *Galaxy) error {
	logger := r.logger.With(
		"component", "galaxy_repository",
		"operation", "create_galaxy",
		"name", galaxy.Name,
		"system_count", len(galaxy.Systems),
	)
	logger.Info("Creating galaxy")

	params, err := json.Marshal(galaxy.Params)
	if err != nil {
		return fmt.Errorf("failed to encode galaxy params: %w", err)
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	query := `
		INSERT INTO galaxies (name, seed, system_count, universe_radius, params)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		galaxy.Name,
		galaxy.Seed,
		galaxy.SystemCount,
		galaxy.UniverseRadius,
		string(params),
	).Scan(&galaxy.ID, &galaxy.CreatedAt, &galaxy.UpdatedAt)
	if err != nil {
		logger.Error("Failed to create galaxy", "error", err)
		return fmt.Errorf("failed to create galaxy: %w", err)
	}

	systems, err := r.systemRepo.CreateSystems(ctx, galaxy.ID, galaxy.Systems, tx)
	if err != nil {
		return fmt.Errorf("failed to create systems for galaxy %d: %w", galaxy.ID, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit galaxy transaction", "error", err)
		return fmt.Errorf("failed to commit galaxy: %w", err)
	}

	galaxy.Systems = systems
	logger.Info("Galaxy created successfully", "galaxy_id", galaxy.ID)
	return nil
}

// GetGalaxyByID returns nil without error when the galaxy does not exist.
func (r *Repository) GetGalaxyByID(ctx context.Context, galaxyID int) (*Galaxy, error) {
	logger := r.logger.With("component", "galaxy_repository", "operation", "get_galaxy", "galaxy_id", galaxyID)
	logger.Debug("Getting galaxy by ID")

	query := `
		SELECT id, name, seed, system_count, universe_radius, params, created_at, updated_at
		FROM galaxies
		WHERE id = $1`

	galaxy, err := scanGalaxy(r.db.QueryRowContext(ctx, query, galaxyID))
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("Galaxy not found")
			return nil, nil
		}
		logger.Error("Database error getting galaxy", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	systems, err := r.systemRepo.GetSystemsByGalaxyID(ctx, galaxyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load systems for galaxy %d: %w", galaxyID, err)
	}
	galaxy.Systems = systems

	logger.Debug("Galaxy retrieved", "name", galaxy.Name, "systems", len(systems))
	return galaxy, nil
}

// ListGalaxies returns galaxies newest first, without their systems.
func (r *Repository) ListGalaxies(ctx context.Context) ([]Galaxy, error) {
	query := `
		SELECT id, name, seed, system_count, universe_radius, params, created_at, updated_at
		FROM galaxies
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list galaxies", "error", err)
		return nil, fmt.Errorf("failed to list galaxies: %w", err)
	}
	defer rows.Close()

	galaxies := []Galaxy{}
	for rows.Next() {
		galaxy, err := scanGalaxy(rows)
		if err != nil {
			r.logger.Error("Failed to scan galaxy", "error", err)
			return nil, fmt.Errorf("failed to scan galaxy: %w", err)
		}
		galaxies = append(galaxies, *galaxy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating galaxies: %w", err)
	}
	return galaxies, nil
}

// DeleteGalaxy removes a galaxy; systems and bodies go with it via ON DELETE CASCADE.
func (r *Repository) DeleteGalaxy(ctx context.Context, galaxyID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM galaxies WHERE id = $1`, galaxyID)
	if err != nil {
		r.logger.Error("Failed to delete galaxy", "galaxy_id", galaxyID, "error", err)
		return fmt.Errorf("failed to delete galaxy: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NotFoundf("galaxy not found with id: %d", galaxyID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGalaxy(row rowScanner) (*Galaxy, error) {
	var (
		galaxy Galaxy
		params []byte
	)
	err := row.Scan(
		&galaxy.ID,
		&galaxy.Name,
		&galaxy.Seed,
		&galaxy.SystemCount,
		&galaxy.UniverseRadius,
		&params,
		&galaxy.CreatedAt,
		&galaxy.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		if err := json.Unmarshal(params, &galaxy.Params); err != nil {
			return nil, fmt.Errorf("failed to decode galaxy params: %w", err)
		}
	}
	return &galaxy, nil
}
