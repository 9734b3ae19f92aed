package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"planets-mapgen/internal/auth"
	"planets-mapgen/internal/galaxy"
	"planets-mapgen/internal/middleware"
	serverHandlers "planets-mapgen/internal/server/handlers"
)

var testSecret = strings.Repeat("r", 32)

type stubGalaxies struct {
	created int
}

func (s *stubGalaxies) GenerateGalaxy(ctx context.Context, req galaxy.GenerateRequest) (*galaxy.Galaxy, error) {
	s.created++
	return &galaxy.Galaxy{ID: s.created}, nil
}

func (s *stubGalaxies) GetGalaxy(ctx context.Context, galaxyID int) (*galaxy.Galaxy, error) {
	return &galaxy.Galaxy{ID: galaxyID}, nil
}

func (s *stubGalaxies) ListGalaxies(ctx context.Context) ([]galaxy.Galaxy, error) {
	return []galaxy.Galaxy{}, nil
}

func (s *stubGalaxies) DeleteGalaxy(ctx context.Context, galaxyID int) error {
	return nil
}

type alwaysUp struct{}

func (alwaysUp) PingContext(ctx context.Context) error { return nil }

func newTestMux(t *testing.T, svc *stubGalaxies) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	health := serverHandlers.NewHealthHandler(alwaysUp{}, nil, logger)
	return NewRoutes(health, svc, middleware.NewAuthenticator(testSecret, logger), logger).Setup()
}

func TestRoutesAccessControl(t *testing.T) {
	svc := &stubGalaxies{}
	mux := newTestMux(t, svc)

	admin, err := auth.GenerateJWT(testSecret, "ops", auth.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	tests := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/api/server/health", "", http.StatusOK},
		{http.MethodGet, "/api/galaxies", "", http.StatusOK},
		{http.MethodGet, "/api/galaxies/3", "", http.StatusOK},
		{http.MethodPost, "/api/galaxies", "", http.StatusUnauthorized},
		{http.MethodDelete, "/api/galaxies/3", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/galaxies", admin, http.StatusCreated},
		{http.MethodDelete, "/api/galaxies/3", admin, http.StatusNoContent},
		{http.MethodPut, "/api/galaxies/3", admin, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}

	if svc.created != 1 {
		t.Fatalf("expected exactly one authorised create, got %d", svc.created)
	}
}
