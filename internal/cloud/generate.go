package cloud

import (
	"context"
	"math/rand"

	"planets-mapgen/internal/geometry"
)

// Sink receives the placed systems. NextStarSystem commits the position and
// radius staged by the preceding calls.
type Sink interface {
	SetPosition(x, y float64)
	SetRadius(radius float64)
	NextStarSystem() error
}

// StarSink is implemented by sinks that can attach a star to the system
// committed last.
type StarSink interface {
	StaticOrbit(relative geometry.Point)
	PushStar() error
}

// Generate places params.SystemCount systems into sink. Errors from the sink
// are returned as-is and end the run.
func Generate(ctx context.Context, sink Sink, params Params, rng *rand.Rand) error {
	sampler := NewSampler(params, rng)
	starSink, pushStars := sink.(StarSink)
	pushStars = pushStars && params.CentralStar

	for i := 0; i < params.SystemCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		position := sampler.NextPosition()
		radius := sampler.NextRadius()

		sink.SetPosition(position.X, position.Y)
		sink.SetRadius(radius)
		if err := sink.NextStarSystem(); err != nil {
			return err
		}

		if pushStars {
			starSink.StaticOrbit(geometry.Point{})
			if err := starSink.PushStar(); err != nil {
				return err
			}
		}
	}
	return nil
}
