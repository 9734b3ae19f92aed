package galaxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"planets-mapgen/internal/cloud"
	"planets-mapgen/internal/mapgen"
	apperrors "planets-mapgen/internal/shared/errors"
	sharedredis "planets-mapgen/internal/shared/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	galaxies  map[int]*Galaxy
	nextID    int
	createErr error
	gets      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{galaxies: make(map[int]*Galaxy), nextID: 1}
}

func (f *fakeStore) CreateGalaxy(ctx context.Context, galaxy *Galaxy) error {
	if f.createErr != nil {
		return f.createErr
	}
	galaxy.ID = f.nextID
	f.nextID++
	for i := range galaxy.Systems {
		galaxy.Systems[i].ID = i + 1
		galaxy.Systems[i].GalaxyID = galaxy.ID
	}
	stored := *galaxy
	f.galaxies[galaxy.ID] = &stored
	return nil
}

func (f *fakeStore) GetGalaxyByID(ctx context.Context, galaxyID int) (*Galaxy, error) {
	f.gets++
	galaxy, ok := f.galaxies[galaxyID]
	if !ok {
		return nil, nil
	}
	return galaxy, nil
}

func (f *fakeStore) ListGalaxies(ctx context.Context) ([]Galaxy, error) {
	var out []Galaxy
	for _, g := range f.galaxies {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeStore) DeleteGalaxy(ctx context.Context, galaxyID int) error {
	if _, ok := f.galaxies[galaxyID]; !ok {
		return apperrors.NotFoundf("galaxy not found with id: %d", galaxyID)
	}
	delete(f.galaxies, galaxyID)
	return nil
}

func newTestService(t *testing.T, store Store) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	defaults := Defaults{Params: cloud.DefaultParams(), Seed: 42, Name: "Cloud"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, &sharedredis.Client{Client: rdb}, time.Minute, defaults, logger), mr
}

func TestBuildUsesDefaults(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())

	galaxy, err := svc.Build(context.Background(), GenerateRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if galaxy.Name != "Cloud" || galaxy.Seed != 42 {
		t.Fatalf("unexpected galaxy header: %+v", galaxy)
	}
	if galaxy.SystemCount != cloud.DefaultSystemCount || len(galaxy.Systems) != cloud.DefaultSystemCount {
		t.Fatalf("systems = %d/%d, want %d", galaxy.SystemCount, len(galaxy.Systems), cloud.DefaultSystemCount)
	}
	if galaxy.Systems[0].Name != "Altair" || galaxy.Systems[4].Name != "Capella" {
		t.Fatalf("expected default names, got %q and %q", galaxy.Systems[0].Name, galaxy.Systems[4].Name)
	}
	for i, s := range galaxy.Systems {
		if s.SystemIndex != i {
			t.Fatalf("system %d has index %d", i, s.SystemIndex)
		}
		if len(s.Bodies) != 0 {
			t.Fatalf("system %d: expected no bodies without central star", i)
		}
	}
}

func TestBuildIsDeterministicForSeed(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())
	seed := int64(2015)
	count := 7

	first, err := svc.Build(context.Background(), GenerateRequest{Seed: &seed, SystemCount: &count})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Build(context.Background(), GenerateRequest{Seed: &seed, SystemCount: &count})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Systems) != count {
		t.Fatalf("systems = %d, want %d", len(first.Systems), count)
	}
	for i := range first.Systems {
		a, b := first.Systems[i], second.Systems[i]
		if a.X != b.X || a.Y != b.Y || a.Radius != b.Radius {
			t.Fatalf("system %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestBuildCentralStar(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())
	central := true

	galaxy, err := svc.Build(context.Background(), GenerateRequest{CentralStar: &central})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, s := range galaxy.Systems {
		if len(s.Bodies) != 1 || s.Bodies[0].Kind != mapgen.BodyKindStar {
			t.Fatalf("system %d: expected a central star, got %+v", i, s.Bodies)
		}
		if s.Bodies[0].X != s.X || s.Bodies[0].Y != s.Y {
			t.Fatalf("system %d: star should sit at the system position", i)
		}
	}
}

func TestBuildRejectsInvalidOverrides(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())
	count := -1

	_, err := svc.Build(context.Background(), GenerateRequest{SystemCount: &count})
	if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGenerateGalaxyRejectsOverflowingRadius(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)
	radius := 1e308
	count := 50

	_, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{UniverseRadius: &radius, SystemCount: &count})
	if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.galaxies) != 0 {
		t.Fatal("nothing should be stored for rejected parameters")
	}
}

func TestGenerateGalaxyStoresAndCaches(t *testing.T) {
	store := newFakeStore()
	svc, mr := newTestService(t, store)

	galaxy, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{Name: "Andromeda"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if galaxy.ID != 1 || galaxy.Name != "Andromeda" {
		t.Fatalf("unexpected galaxy: %+v", galaxy)
	}
	if !mr.Exists(cacheKey(1)) {
		t.Fatal("expected generated galaxy to be cached")
	}

	got, err := svc.GetGalaxy(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gets != 0 {
		t.Fatalf("expected cache hit, store was read %d times", store.gets)
	}
	if got.Name != "Andromeda" || len(got.Systems) != cloud.DefaultSystemCount {
		t.Fatalf("unexpected cached galaxy: %+v", got)
	}
}

func TestGenerateGalaxyStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	svc, _ := newTestService(t, store)

	_, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{})
	if apperrors.GetType(err) != apperrors.ErrorTypeExternal {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestGenerateGalaxyKeepsConflict(t *testing.T) {
	store := newFakeStore()
	store.createErr = fmt.Errorf("failed to create systems: %w",
		apperrors.WrapConflict("star system 0 already exists in galaxy 1", errors.New("pq: duplicate key")))
	svc, _ := newTestService(t, store)

	_, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{})
	if apperrors.GetType(err) != apperrors.ErrorTypeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetGalaxyFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	svc, mr := newTestService(t, store)

	if _, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FlushAll()

	if _, err := svc.GetGalaxy(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gets != 1 {
		t.Fatalf("expected one store read, got %d", store.gets)
	}
	if !mr.Exists(cacheKey(1)) {
		t.Fatal("expected galaxy to be re-cached")
	}
}

func TestGetGalaxyNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())

	_, err := svc.GetGalaxy(context.Background(), 99)
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteGalaxyEvictsCache(t *testing.T) {
	svc, mr := newTestService(t, newFakeStore())

	if _, err := svc.GenerateGalaxy(context.Background(), GenerateRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteGalaxy(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(cacheKey(1)) {
		t.Fatal("expected cache entry to be evicted")
	}

	err := svc.DeleteGalaxy(context.Background(), 1)
	if apperrors.GetType(err) != apperrors.ErrorTypeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
