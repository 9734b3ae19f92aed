package system

import (
	"time"

	"planets-mapgen/internal/geometry"
	"planets-mapgen/internal/mapgen"
)

type StarSystem struct {
	ID          int       `json:"id"`
	GalaxyID    int       `json:"galaxy_id"`
	SystemIndex int       `json:"system_index"`
	Name        string    `json:"name"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Radius      float64   `json:"radius"`
	Bodies      []Body    `json:"bodies,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Body is one orbital body flattened depth-first; parents always precede
// their children in StarSystem.Bodies.
type Body struct {
	ID           int              `json:"id"`
	ParentID     *int             `json:"parent_id"`
	Kind         mapgen.BodyKind  `json:"kind"`
	Name         string           `json:"name"`
	Radius       float64          `json:"radius"`
	ResourceID   string           `json:"resource_id"`
	OrbitKind    mapgen.OrbitKind `json:"orbit_kind"`
	OrbitRadius  float64          `json:"orbit_radius"`
	AngularSpeed float64          `json:"angular_speed"`
	StartAngle   float64          `json:"start_angle"`
	RelativeX    float64          `json:"relative_x"`
	RelativeY    float64          `json:"relative_y"`
	X            float64          `json:"x"`
	Y            float64          `json:"y"`

	// parentIndex points into the owning StarSystem.Bodies and is only
	// meaningful when hasParent is set.
	parentIndex int
	hasParent   bool
}

// FromMap converts a generated system into its stored shape. Absolute body
// positions are resolved at t=0.
func FromMap(index int, generated *mapgen.StarSystem) StarSystem {
	s := StarSystem{
		SystemIndex: index,
		Name:        generated.Name,
		X:           generated.Position.X,
		Y:           generated.Position.Y,
		Radius:      generated.Radius,
	}

	indexOf := make(map[*mapgen.Body]int)
	generated.Walk(0, func(body *mapgen.Body, parent *mapgen.Body, position geometry.Point) {
		parentIndex, hasParent := indexOf[parent]
		indexOf[body] = len(s.Bodies)
		s.Bodies = append(s.Bodies, Body{
			Kind:         body.Kind,
			Name:         body.Name,
			Radius:       body.Radius,
			ResourceID:   body.ResourceID,
			OrbitKind:    body.Orbit.Kind,
			OrbitRadius:  body.Orbit.Radius,
			AngularSpeed: body.Orbit.AngularSpeed,
			StartAngle:   body.Orbit.StartAngle,
			RelativeX:    body.Orbit.Relative.X,
			RelativeY:    body.Orbit.Relative.Y,
			X:            position.X,
			Y:            position.Y,
			parentIndex:  parentIndex,
			hasParent:    hasParent,
		})
	})

	return s
}
