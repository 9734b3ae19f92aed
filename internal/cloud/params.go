package cloud

import (
	"math"

	"planets-mapgen/internal/shared/errors"
)

const (
	DefaultSystemCount             = 5
	DefaultUniverseRadius          = 500000000
	DefaultPositionMeanFactor      = 0.5
	DefaultPositionDeviationFactor = 0.6
	DefaultRadiusMean              = 50000
	DefaultRadiusDeviation         = 10000

	// spreadSigmas bounds how far from the mean a draw is expected to land
	// when checking that sampled values stay representable.
	spreadSigmas = 10
)

// Params configures the cloud placement. Positions are drawn from
// N(UniverseRadius*PositionMeanFactor, UniverseRadius*PositionDeviationFactor)
// on each axis and radii from N(RadiusMean, RadiusDeviation).
type Params struct {
	SystemCount             int     `json:"system_count" yaml:"system_count"`
	UniverseRadius          float64 `json:"universe_radius" yaml:"universe_radius"`
	PositionMeanFactor      float64 `json:"position_mean_factor" yaml:"position_mean_factor"`
	PositionDeviationFactor float64 `json:"position_deviation_factor" yaml:"position_deviation_factor"`
	RadiusMean              float64 `json:"radius_mean" yaml:"radius_mean"`
	RadiusDeviation         float64 `json:"radius_deviation" yaml:"radius_deviation"`
	// CentralStar pushes a star at the centre of every committed system when
	// the sink supports it.
	CentralStar bool `json:"central_star" yaml:"central_star"`
}

func DefaultParams() Params {
	return Params{
		SystemCount:             DefaultSystemCount,
		UniverseRadius:          DefaultUniverseRadius,
		PositionMeanFactor:      DefaultPositionMeanFactor,
		PositionDeviationFactor: DefaultPositionDeviationFactor,
		RadiusMean:              DefaultRadiusMean,
		RadiusDeviation:         DefaultRadiusDeviation,
	}
}

// Validate checks the configuration only; sampled values are never checked.
func (p Params) Validate() error {
	if p.SystemCount < 0 {
		return errors.Validationf("system count must not be negative, got %d", p.SystemCount)
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"universe radius", p.UniverseRadius},
		{"position mean factor", p.PositionMeanFactor},
		{"position deviation factor", p.PositionDeviationFactor},
		{"radius mean", p.RadiusMean},
		{"radius deviation", p.RadiusDeviation},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Validationf("%s must be finite, got %g", f.name, f.value)
		}
	}

	if p.UniverseRadius <= 0 {
		return errors.Validationf("universe radius must be positive, got %g", p.UniverseRadius)
	}
	if p.PositionDeviationFactor < 0 || p.RadiusDeviation < 0 {
		return errors.Validation("standard deviations must not be negative")
	}

	if !representable(p.UniverseRadius * (math.Abs(p.PositionMeanFactor) + spreadSigmas*p.PositionDeviationFactor)) {
		return errors.Validationf("universe radius %g is too large for the position factors", p.UniverseRadius)
	}
	if !representable(math.Abs(p.RadiusMean) + spreadSigmas*p.RadiusDeviation) {
		return errors.Validation("radius mean and deviation are too large")
	}
	return nil
}

func representable(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v) && v < math.MaxFloat64
}
