package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"docrecon/internal/handler"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Readiness(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	tests := []struct {
		name       string
		db         handler.Pinger
		cache      handler.Pinger
		wantStatus int
		wantBody   string
	}{
		{"all up", up, up, http.StatusOK, `"ok"`},
		{"no cache configured", up, nil, http.StatusOK, `"ok"`},
		{"database down", down, up, http.StatusServiceUnavailable, "database not reachable"},
		{"cache down", up, down, http.StatusServiceUnavailable, "cache not reachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.db, tt.cache)
			c, w := newTestContext(http.MethodGet, "/readyz", "")
			h.Readiness(c)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)
	c, w := newTestContext(http.MethodGet, "/healthz", "")
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
