package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	kind    string
	pingErr error
}

func (f fakeStorage) GetStorageType() string { return f.kind }

type pingingStorage struct {
	fakeStorage
}

func (p pingingStorage) Ping(ctx context.Context) error { return p.pingErr }

type fakeRemovals int

func (f fakeRemovals) Pending() int { return int(f) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		storage    StorageInfo
		wantStatus int
		want       HealthResponse
	}{
		{"no ping", fakeStorage{kind: "json"}, 200, HealthResponse{Status: "ok", Storage: "json"}},
		{"ping ok", pingingStorage{fakeStorage{kind: "MySQL"}}, 200, HealthResponse{Status: "ok", Storage: "MySQL"}},
		{"ping fails", pingingStorage{fakeStorage{kind: "MySQL", pingErr: errors.New("gone")}}, 503, HealthResponse{Status: "unavailable", Storage: "MySQL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(NewApi(tt.storage, fakeRemovals(0)))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemovalsHandler(t *testing.T) {
	handler := NewHandler(NewApi(fakeStorage{kind: "inmemory"}, fakeRemovals(3)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/removals", nil))

	require.Equal(t, 200, rec.Code)
	var got RemovalsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Pending)
}

func TestUnknownRoute(t *testing.T) {
	handler := NewHandler(NewApi(fakeStorage{kind: "json"}, fakeRemovals(0)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
