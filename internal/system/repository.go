package system

import (
	"context"
	"fmt"
	"log/slog"

	"planets-mapgen/internal/shared/database"
	"planets-mapgen/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing star system repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateSystems stores systems and their bodies for a galaxy. IDs and
// timestamps are filled in on the returned copies.
func (r *Repository) CreateSystems(ctx context.Context, galaxyID int, systems []StarSystem, tx *database.Tx) ([]StarSystem, error) {
	exec := r.getExecutor(tx)
	logger := r.logger.With(
		"component", "system_repository",
		"operation", "create_systems",
		"galaxy_id", galaxyID,
		"count", len(systems),
	)
	logger.Debug("Creating star systems")

	systemQuery := `
		INSERT INTO star_systems (galaxy_id, system_index, name, x, y, radius)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	bodyQuery := `
		INSERT INTO orbital_bodies (system_id, parent_id, kind, name, radius, resource_id,
			orbit_kind, orbit_radius, angular_speed, start_angle, relative_x, relative_y, x, y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	created := make([]StarSystem, 0, len(systems))
	for _, s := range systems {
		s.GalaxyID = galaxyID
		err := exec.QueryRowContext(ctx, systemQuery, galaxyID, s.SystemIndex, s.Name, s.X, s.Y, s.Radius).
			Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			logger.Error("Failed to create star system", "error", err, "system_index", s.SystemIndex)
			if database.IsUniqueViolation(err) {
				return nil, errors.WrapConflict(fmt.Sprintf("star system %d already exists in galaxy %d", s.SystemIndex, galaxyID), err)
			}
			return nil, fmt.Errorf("failed to create star system %d: %w", s.SystemIndex, err)
		}

		bodies, err := createBodies(ctx, s.Bodies, func(ctx context.Context, b Body) (int, error) {
			var id int
			err := exec.QueryRowContext(ctx, bodyQuery,
				s.ID, b.ParentID, string(b.Kind), b.Name, b.Radius, b.ResourceID,
				string(b.OrbitKind), b.OrbitRadius, b.AngularSpeed, b.StartAngle,
				b.RelativeX, b.RelativeY, b.X, b.Y,
			).Scan(&id)
			return id, err
		})
		if err != nil {
			logger.Error("Failed to create orbital body", "error", err, "system_id", s.ID)
			return nil, fmt.Errorf("failed to create orbital body for system %d: %w", s.ID, err)
		}
		s.Bodies = bodies

		created = append(created, s)
	}

	logger.Debug("Star systems created successfully")
	return created, nil
}

// bodyInserter stores one body and returns its new ID.
type bodyInserter func(ctx context.Context, body Body) (int, error)

// createBodies inserts bodies in order, resolving each parent index to the
// ID its parent received. Parents must precede their children.
func createBodies(ctx context.Context, bodies []Body, insert bodyInserter) ([]Body, error) {
	created := make([]Body, len(bodies))
	copy(created, bodies)

	for i := range created {
		b := &created[i]
		b.ParentID = nil
		if b.hasParent {
			if b.parentIndex < 0 || b.parentIndex >= i {
				return nil, fmt.Errorf("body %d references parent %d that is not stored yet", i, b.parentIndex)
			}
			parentID := created[b.parentIndex].ID
			b.ParentID = &parentID
		}

		id, err := insert(ctx, *b)
		if err != nil {
			return nil, err
		}
		b.ID = id
	}
	return created, nil
}

func (r *Repository) GetSystemsByGalaxyID(ctx context.Context, galaxyID int) ([]StarSystem, error) {
	logger := r.logger.With("component", "system_repository", "operation", "get_systems", "galaxy_id", galaxyID)
	logger.Debug("Getting star systems by galaxy ID")

	query := `
		SELECT id, galaxy_id, system_index, name, x, y, radius, created_at
		FROM star_systems
		WHERE galaxy_id = $1
		ORDER BY system_index`

	rows, err := r.db.QueryContext(ctx, query, galaxyID)
	if err != nil {
		logger.Error("Failed to query star systems", "error", err)
		return nil, fmt.Errorf("failed to query star systems: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var systems []StarSystem
	byID := make(map[int]int)
	for rows.Next() {
		var s StarSystem
		if err := rows.Scan(&s.ID, &s.GalaxyID, &s.SystemIndex, &s.Name, &s.X, &s.Y, &s.Radius, &s.CreatedAt); err != nil {
			logger.Error("Failed to scan star system row", "error", err)
			return nil, fmt.Errorf("failed to scan star system: %w", err)
		}
		byID[s.ID] = len(systems)
		systems = append(systems, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating star systems: %w", err)
	}

	if err := r.attachBodies(ctx, galaxyID, systems, byID); err != nil {
		return nil, err
	}

	logger.Debug("Star systems retrieved", "count", len(systems))
	return systems, nil
}

func (r *Repository) attachBodies(ctx context.Context, galaxyID int, systems []StarSystem, byID map[int]int) error {
	query := `
		SELECT b.id, b.system_id, b.parent_id, b.kind, b.name, b.radius, b.resource_id,
			b.orbit_kind, b.orbit_radius, b.angular_speed, b.start_angle, b.relative_x, b.relative_y, b.x, b.y
		FROM orbital_bodies b
		JOIN star_systems s ON s.id = b.system_id
		WHERE s.galaxy_id = $1
		ORDER BY b.id`

	rows, err := r.db.QueryContext(ctx, query, galaxyID)
	if err != nil {
		return fmt.Errorf("failed to query orbital bodies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b        Body
			systemID int
			parentID *int
		)
		err := rows.Scan(&b.ID, &systemID, &parentID, &b.Kind, &b.Name, &b.Radius, &b.ResourceID,
			&b.OrbitKind, &b.OrbitRadius, &b.AngularSpeed, &b.StartAngle, &b.RelativeX, &b.RelativeY, &b.X, &b.Y)
		if err != nil {
			return fmt.Errorf("failed to scan orbital body: %w", err)
		}
		b.ParentID = parentID
		if i, ok := byID[systemID]; ok {
			systems[i].Bodies = append(systems[i].Bodies, b)
		}
	}
	return rows.Err()
}
