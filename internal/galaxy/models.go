package galaxy

import (
	"time"

	"planets-mapgen/internal/cloud"
	"planets-mapgen/internal/system"
)

type Galaxy struct {
	ID             int                 `json:"id"`
	Name           string              `json:"name"`
	Seed           int64               `json:"seed"`
	SystemCount    int                 `json:"system_count"`
	UniverseRadius float64             `json:"universe_radius"`
	Params         cloud.Params        `json:"params"`
	Systems        []system.StarSystem `json:"systems,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// GenerateRequest overrides the configured generator defaults; nil fields
// keep the default.
type GenerateRequest struct {
	Name           string   `json:"name"`
	Seed           *int64   `json:"seed"`
	SystemCount    *int     `json:"system_count"`
	UniverseRadius *float64 `json:"universe_radius"`
	CentralStar    *bool    `json:"central_star"`
}
