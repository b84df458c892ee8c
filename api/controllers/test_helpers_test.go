package controllers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T, pattern, method string, h http.HandlerFunc) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	return r
}
