package cloud

import (
	"math/rand"
	"time"

	"planets-mapgen/internal/geometry"
)

// NewSeededRand returns a generator for seed and the seed actually used.
// A zero seed picks one from the clock.
func NewSeededRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

type Sampler struct {
	params Params
	rng    *rand.Rand
}

func NewSampler(params Params, rng *rand.Rand) *Sampler {
	return &Sampler{params: params, rng: rng}
}

// NextPosition draws x then y. Coordinates are not clamped to the universe radius.
func (s *Sampler) NextPosition() geometry.Point {
	mean := s.params.UniverseRadius * s.params.PositionMeanFactor
	deviation := s.params.UniverseRadius * s.params.PositionDeviationFactor
	x := s.normal(mean, deviation)
	y := s.normal(mean, deviation)
	return geometry.Point{X: x, Y: y}
}

// NextRadius may return a negative value for wide deviations.
func (s *Sampler) NextRadius() float64 {
	return s.normal(s.params.RadiusMean, s.params.RadiusDeviation)
}

func (s *Sampler) normal(mean, deviation float64) float64 {
	return s.rng.NormFloat64()*deviation + mean
}
