package rest

import (
	"net/http"
)

// NewRouter wires every route. Resource paths keep their trailing slash.
func NewRouter(h *Handlers) *http.ServeMux {
	router := http.NewServeMux()

	public := func(fn HandlerFunc) http.HandlerFunc {
		return ErrorHandler(LoggingMiddleware(h.logger, RecoverMiddleware(h.logger, fn)))
	}
	private := func(fn UserHandlerFunc) http.HandlerFunc {
		return public(RequireUser(h.auth, fn))
	}

	router.Handle("GET /{$}", public(OptionalUser(h.auth, h.Root)))
	router.Handle("GET /healthz", public(h.HealthCheck))

	router.Handle("POST /api/register/{$}", public(h.Register))
	router.Handle("POST /api/token", public(h.Token))
	router.Handle("GET /api/users/me/{$}", private(h.Me))

	router.Handle("POST /api/notes/{$}", private(h.notes.create))
	router.Handle("GET /api/notes/{$}", private(h.notes.list))
	router.Handle("GET /api/notes/{id}/{$}", private(h.notes.get))
	router.Handle("PUT /api/notes/{id}/{$}", private(h.notes.update))
	router.Handle("DELETE /api/notes/{id}/{$}", private(h.notes.delete))

	router.Handle("POST /api/passwords/{$}", private(h.passwords.create))
	router.Handle("GET /api/passwords/{$}", private(h.passwords.list))
	router.Handle("GET /api/passwords/{id}/{$}", private(h.passwords.get))
	router.Handle("PUT /api/passwords/{id}/{$}", private(h.passwords.update))
	router.Handle("DELETE /api/passwords/{id}/{$}", private(h.passwords.delete))

	router.Handle("POST /api/export/{$}", private(h.Export))

	return router
}
