package mapgen

import (
	"log/slog"

	"planets-mapgen/internal/geometry"
	"planets-mapgen/internal/shared/errors"
)

var (
	ErrNoCurrentSystem        = errors.Validation("no current star system")
	ErrNoOrbit                = errors.Validation("no orbit specified")
	ErrNoStarSystem           = errors.Validation("no star system specified")
	ErrNoSession              = errors.Validation("no current session")
	ErrNoParentOrbitalSystem  = errors.Validation("no parent orbital system specified")
	ErrNoCurrentOrbitalSystem = errors.Validation("no current orbital system specified")
)

// Generator builds a map one star system at a time. Scripts stage a name,
// position, radius and resource id, then commit them with NextStarSystem or
// attach bodies with the Push methods.
type Generator struct {
	systems        []*StarSystem
	current        *StarSystem
	currentOrbital orbitalSystem
	orbit          *Orbit
	catalog        Catalog

	name       string
	radius     float64
	position   geometry.Point
	resourceID string

	logger *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{
		logger: logger.With("component", "map_generator"),
	}
}

// BeginMap discards any previous map and binds the resource catalog used by
// PushStar and PushPlanet. A nil catalog is allowed; pushing bodies will then
// fail with ErrNoSession.
func (g *Generator) BeginMap(catalog Catalog) {
	g.systems = nil
	g.current = nil
	g.currentOrbital = nil
	g.orbit = nil
	g.catalog = catalog
	g.logger.Debug("Map started")
}

func (g *Generator) SetPosition(x, y float64) {
	g.position = geometry.Point{X: x, Y: y}
}

func (g *Generator) Position() geometry.Point { return g.position }

func (g *Generator) SetRadius(radius float64) {
	g.radius = radius
}

func (g *Generator) Radius() float64 { return g.radius }

func (g *Generator) SetName(name string) {
	g.name = name
}

func (g *Generator) Name() string { return g.name }

func (g *Generator) SetResourceID(id string) {
	g.resourceID = id
}

func (g *Generator) ResourceID() string { return g.resourceID }

// NextStarSystem commits the staged name, position and radius as a new star
// system, which becomes the current one.
func (g *Generator) NextStarSystem() error {
	if g.current != nil {
		g.systems = append(g.systems, g.current)
	}
	g.current = &StarSystem{
		Name:     g.name,
		Position: g.position,
		Radius:   g.radius,
	}
	g.currentOrbital = g.current

	g.logger.Debug("Star system committed",
		"index", len(g.systems),
		"x", g.position.X,
		"y", g.position.Y,
		"radius", g.radius,
	)
	return nil
}

func (g *Generator) CurrentSystem() (*StarSystem, error) {
	if g.current == nil {
		return nil, ErrNoCurrentSystem
	}
	return g.current, nil
}

// Systems returns the committed systems followed by the current one.
func (g *Generator) Systems() []*StarSystem {
	systems := make([]*StarSystem, 0, len(g.systems)+1)
	systems = append(systems, g.systems...)
	if g.current != nil {
		systems = append(systems, g.current)
	}
	return systems
}

// CircularOrbit stages a circular orbit for the next pushed body.
func (g *Generator) CircularOrbit(radius, angularSpeed, startAngle float64) {
	g.orbit = &Orbit{
		Kind:         OrbitKindCircular,
		Radius:       radius,
		AngularSpeed: angularSpeed,
		StartAngle:   startAngle,
	}
}

// StaticOrbit stages a fixed offset for the next pushed body.
func (g *Generator) StaticOrbit(relative geometry.Point) {
	g.orbit = &Orbit{
		Kind:     OrbitKindStatic,
		Relative: relative,
	}
}

// PushOrbits attaches an empty orbital system, typically a barycentre.
func (g *Generator) PushOrbits() error {
	if g.current == nil {
		return ErrNoStarSystem
	}
	return g.push(&Body{Kind: BodyKindOrbits})
}

func (g *Generator) PushStar() error {
	return g.pushResourceBody(BodyKindStar, DefaultStarResource)
}

func (g *Generator) PushPlanet() error {
	return g.pushResourceBody(BodyKindPlanet, DefaultPlanetResource)
}

// PopOrbits moves back to the orbital system the current one orbits.
func (g *Generator) PopOrbits() error {
	if g.currentOrbital == nil {
		return ErrNoCurrentOrbitalSystem
	}
	body, ok := g.currentOrbital.(*Body)
	if !ok {
		return ErrNoParentOrbitalSystem
	}
	if body.parent != nil {
		g.currentOrbital = body.parent
	} else {
		g.currentOrbital = body.system
	}
	return nil
}

func (g *Generator) pushResourceBody(kind BodyKind, defaultResource string) error {
	if g.current == nil {
		return ErrNoStarSystem
	}
	if g.catalog == nil {
		return ErrNoSession
	}

	resourceID := g.resourceID
	if resourceID == "" {
		resourceID = defaultResource
	}
	if !g.catalog.Has(kind, resourceID) {
		return errors.Validationf("unknown %s resource %q", kind, resourceID)
	}

	return g.push(&Body{
		Kind:       kind,
		Name:       g.name,
		Radius:     g.radius,
		ResourceID: resourceID,
	})
}

func (g *Generator) push(body *Body) error {
	if g.orbit == nil {
		return ErrNoOrbit
	}
	body.Orbit = *g.orbit
	g.currentOrbital.attach(body)
	g.currentOrbital = body
	g.orbit = nil
	return nil
}
