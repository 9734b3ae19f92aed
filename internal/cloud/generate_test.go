package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"planets-mapgen/internal/geometry"
	"planets-mapgen/internal/mapgen"
)

type call struct {
	op     string
	x, y   float64
	radius float64
}

type recordingSink struct {
	calls     []call
	failAfter int
	err       error
}

func (s *recordingSink) SetPosition(x, y float64) {
	s.calls = append(s.calls, call{op: "position", x: x, y: y})
}

func (s *recordingSink) SetRadius(radius float64) {
	s.calls = append(s.calls, call{op: "radius", radius: radius})
}

func (s *recordingSink) NextStarSystem() error {
	s.calls = append(s.calls, call{op: "commit"})
	if s.err != nil && s.commits() > s.failAfter {
		return s.err
	}
	return nil
}

func (s *recordingSink) commits() int {
	n := 0
	for _, c := range s.calls {
		if c.op == "commit" {
			n++
		}
	}
	return n
}

func TestGenerateCommitsSystemCountTimes(t *testing.T) {
	sink := &recordingSink{}
	params := DefaultParams()

	if err := Generate(context.Background(), sink, params, rand.New(rand.NewSource(7))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sink.commits(); got != params.SystemCount {
		t.Fatalf("commits = %d, want %d", got, params.SystemCount)
	}
	if got := len(sink.calls); got != 3*params.SystemCount {
		t.Fatalf("calls = %d, want %d", got, 3*params.SystemCount)
	}
}

func TestGenerateCallOrderAndSampledValues(t *testing.T) {
	sink := &recordingSink{}
	params := DefaultParams()
	params.SystemCount = 4

	if err := Generate(context.Background(), sink, params, rand.New(rand.NewSource(11))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sampler := NewSampler(params, rand.New(rand.NewSource(11)))
	for i := 0; i < params.SystemCount; i++ {
		position, radius, commit := sink.calls[3*i], sink.calls[3*i+1], sink.calls[3*i+2]
		if position.op != "position" || radius.op != "radius" || commit.op != "commit" {
			t.Fatalf("system %d: unexpected call order %q %q %q", i, position.op, radius.op, commit.op)
		}

		wantPos := sampler.NextPosition()
		wantRadius := sampler.NextRadius()
		if position.x != wantPos.X || position.y != wantPos.Y {
			t.Fatalf("system %d: position (%v,%v), want %+v", i, position.x, position.y, wantPos)
		}
		if radius.radius != wantRadius {
			t.Fatalf("system %d: radius %v, want %v", i, radius.radius, wantRadius)
		}
	}
}

func TestGenerateSamplesAreFinite(t *testing.T) {
	sink := &recordingSink{}
	params := DefaultParams()
	params.SystemCount = 500

	if err := Generate(context.Background(), sink, params, rand.New(rand.NewSource(3))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range sink.calls {
		switch c.op {
		case "position":
			if !(geometry.Point{X: c.x, Y: c.y}).IsFinite() {
				t.Fatalf("call %d: non-finite position (%v,%v)", i, c.x, c.y)
			}
		case "radius":
			if math.IsNaN(c.radius) || math.IsInf(c.radius, 0) {
				t.Fatalf("call %d: non-finite radius %v", i, c.radius)
			}
		}
	}
}

func TestGenerateSystemCountOnlyChangesLength(t *testing.T) {
	short := &recordingSink{}
	long := &recordingSink{}
	params := DefaultParams()

	params.SystemCount = 3
	if err := Generate(context.Background(), short, params, rand.New(rand.NewSource(99))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params.SystemCount = 8
	if err := Generate(context.Background(), long, params, rand.New(rand.NewSource(99))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if long.commits() != 8 || short.commits() != 3 {
		t.Fatalf("commits = %d/%d, want 3/8", short.commits(), long.commits())
	}
	for i := range short.calls {
		if short.calls[i] != long.calls[i] {
			t.Fatalf("call %d differs: %+v vs %+v", i, short.calls[i], long.calls[i])
		}
	}
}

func TestGenerateZeroSystems(t *testing.T) {
	sink := &recordingSink{}
	params := DefaultParams()
	params.SystemCount = 0

	if err := Generate(context.Background(), sink, params, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(sink.calls))
	}
}

func TestGeneratePropagatesSinkError(t *testing.T) {
	boom := errors.New("map full")
	sink := &recordingSink{err: boom, failAfter: 1}

	err := Generate(context.Background(), sink, DefaultParams(), rand.New(rand.NewSource(5)))
	if err != boom {
		t.Fatalf("expected sink error returned unchanged, got %v", err)
	}
	if got := sink.commits(); got != 2 {
		t.Fatalf("expected loop to stop at the failing commit, got %d commits", got)
	}
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	err := Generate(ctx, sink, DefaultParams(), rand.New(rand.NewSource(5)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(sink.calls))
	}
}

func TestGenerateIntoMapGenerator(t *testing.T) {
	g := mapgen.NewGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.BeginMap(mapgen.DefaultCatalog())

	params := DefaultParams()
	params.CentralStar = true
	if err := Generate(context.Background(), g, params, rand.New(rand.NewSource(21))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	systems := g.Systems()
	if len(systems) != params.SystemCount {
		t.Fatalf("systems = %d, want %d", len(systems), params.SystemCount)
	}
	for i, system := range systems {
		if len(system.Bodies) != 1 || system.Bodies[0].Kind != mapgen.BodyKindStar {
			t.Fatalf("system %d: expected a central star, got %+v", i, system.Bodies)
		}
		if system.Bodies[0].Radius != system.Radius {
			t.Fatalf("system %d: star radius %v, want %v", i, system.Bodies[0].Radius, system.Radius)
		}
	}
}

func TestSamplerDistribution(t *testing.T) {
	params := DefaultParams()
	sampler := NewSampler(params, rand.New(rand.NewSource(1234)))

	const n = 20000
	var sumX, sumR float64
	for i := 0; i < n; i++ {
		sumX += sampler.NextPosition().X
		sumR += sampler.NextRadius()
	}

	meanX := sumX / n
	wantX := params.UniverseRadius * params.PositionMeanFactor
	// standard error of the mean is 0.6R/sqrt(n), about 2.1e6 here
	if math.Abs(meanX-wantX) > 1e7 {
		t.Fatalf("mean x = %v, want close to %v", meanX, wantX)
	}
	if meanR := sumR / n; math.Abs(meanR-params.RadiusMean) > 500 {
		t.Fatalf("mean radius = %v, want close to %v", meanR, params.RadiusMean)
	}
}

func TestNewSeededRand(t *testing.T) {
	a, seedA := NewSeededRand(42)
	b, seedB := NewSeededRand(42)
	if seedA != 42 || seedB != 42 {
		t.Fatalf("explicit seed should be kept, got %d and %d", seedA, seedB)
	}
	if a.Int63() != b.Int63() {
		t.Fatal("expected deterministic sequence for the same seed")
	}

	if _, seed := NewSeededRand(0); seed == 0 {
		t.Fatal("expected a clock seed when zero is given")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"zero systems", func(p *Params) { p.SystemCount = 0 }, false},
		{"negative systems", func(p *Params) { p.SystemCount = -1 }, true},
		{"zero radius", func(p *Params) { p.UniverseRadius = 0 }, true},
		{"negative deviation", func(p *Params) { p.RadiusDeviation = -1 }, true},
		{"nan radius", func(p *Params) { p.UniverseRadius = math.NaN() }, true},
		{"infinite radius", func(p *Params) { p.UniverseRadius = math.Inf(1) }, true},
		{"overflowing radius", func(p *Params) { p.UniverseRadius = 1e308 }, true},
		{"large finite radius", func(p *Params) { p.UniverseRadius = 1e300 }, false},
		{"nan mean factor", func(p *Params) { p.PositionMeanFactor = math.NaN() }, true},
		{"infinite deviation factor", func(p *Params) { p.PositionDeviationFactor = math.Inf(1) }, true},
		{"nan radius mean", func(p *Params) { p.RadiusMean = math.NaN() }, true},
		{"infinite radius deviation", func(p *Params) { p.RadiusDeviation = math.Inf(1) }, true},
		{"overflowing radius mean", func(p *Params) { p.RadiusMean = math.MaxFloat64 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatedParamsSampleEncodableValues(t *testing.T) {
	params := DefaultParams()
	params.UniverseRadius = 1e300
	params.SystemCount = 200
	if err := params.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sink := &recordingSink{}
	if err := Generate(context.Background(), sink, params, rand.New(rand.NewSource(3))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := make([]float64, 0, 3*len(sink.calls))
	for _, c := range sink.calls {
		values = append(values, c.x, c.y, c.radius)
	}
	if _, err := json.Marshal(values); err != nil {
		t.Fatalf("sampled values should encode as JSON: %v", err)
	}
}
