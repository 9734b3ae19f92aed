package mapgen

import (
	"math"

	"planets-mapgen/internal/geometry"
)

type BodyKind string

const (
	BodyKindOrbits BodyKind = "orbits"
	BodyKindStar   BodyKind = "star"
	BodyKindPlanet BodyKind = "planet"
)

type OrbitKind string

const (
	OrbitKindStatic   OrbitKind = "static"
	OrbitKindCircular OrbitKind = "circular"
)

// Orbit places a body relative to the orbital system it is attached to.
type Orbit struct {
	Kind         OrbitKind      `json:"kind" yaml:"kind"`
	Relative     geometry.Point `json:"relative,omitempty" yaml:"relative,omitempty"`
	Radius       float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	AngularSpeed float64        `json:"angular_speed,omitempty" yaml:"angular_speed,omitempty"`
	StartAngle   float64        `json:"start_angle,omitempty" yaml:"start_angle,omitempty"`
}

// Offset returns the position relative to the anchor at time t.
func (o Orbit) Offset(t float64) geometry.Point {
	switch o.Kind {
	case OrbitKindCircular:
		angle := o.StartAngle + o.AngularSpeed*t
		return geometry.Point{X: o.Radius * math.Cos(angle), Y: o.Radius * math.Sin(angle)}
	default:
		return o.Relative
	}
}

type Body struct {
	Kind       BodyKind `json:"kind" yaml:"kind"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Radius     float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	ResourceID string   `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	Orbit      Orbit    `json:"orbit" yaml:"orbit"`
	Bodies     []*Body  `json:"bodies,omitempty" yaml:"bodies,omitempty"`

	parent *Body
	system *StarSystem
}

// PositionAt resolves the body's position at time t given its anchor.
func (b *Body) PositionAt(anchor geometry.Point, t float64) geometry.Point {
	return anchor.Add(b.Orbit.Offset(t))
}

func (b *Body) attach(child *Body) {
	child.parent = b
	child.system = b.system
	b.Bodies = append(b.Bodies, child)
}

type StarSystem struct {
	Name     string         `json:"name" yaml:"name"`
	Position geometry.Point `json:"position" yaml:"position"`
	Radius   float64        `json:"radius" yaml:"radius"`
	Bodies   []*Body        `json:"bodies,omitempty" yaml:"bodies,omitempty"`
}

func (s *StarSystem) attach(child *Body) {
	child.parent = nil
	child.system = s
	s.Bodies = append(s.Bodies, child)
}

// Walk visits every body depth-first together with its absolute position at t.
func (s *StarSystem) Walk(t float64, fn func(body *Body, parent *Body, position geometry.Point)) {
	var visit func(bodies []*Body, parent *Body, anchor geometry.Point)
	visit = func(bodies []*Body, parent *Body, anchor geometry.Point) {
		for _, body := range bodies {
			position := body.PositionAt(anchor, t)
			fn(body, parent, position)
			visit(body.Bodies, body, position)
		}
	}
	visit(s.Bodies, nil, s.Position)
}

type orbitalSystem interface {
	attach(child *Body)
}
