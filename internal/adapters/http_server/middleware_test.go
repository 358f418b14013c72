package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"cinefilia/internal/adapters/tmdb"
	"cinefilia/internal/domain"
)

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.9:5123"
	assert.Equal(t, "10.0.0.9", clientIP(r))

	r.Header.Set("X-Real-IP", "172.16.0.2")
	assert.Equal(t, "172.16.0.2", clientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

func TestStatusWriter_FirstCodeWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}
	assert.Equal(t, http.StatusOK, sw.status())

	_, _ = sw.Write([]byte("ok"))
	sw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, sw.status())
}

func TestRouteOf_UsesPattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/api/reviews/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
		got = routeOf(req)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/reviews/abc", nil))
	assert.Equal(t, "/api/reviews/{id}", got)

	assert.Equal(t, "/loose", routeOf(httptest.NewRequest(http.MethodGet, "/loose", nil)))
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalid, http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{tmdb.ErrCredentials, http.StatusBadGateway},
		{tmdb.ErrBreakerOpen, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.err), tc.err.Error())
	}
}
