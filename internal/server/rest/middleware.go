package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// HandlerFunc is an http.HandlerFunc that reports failure by returning an
// error instead of writing it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// UserHandlerFunc receives the authenticated caller explicitly. For optional
// authentication the user is nil when the caller is anonymous.
type UserHandlerFunc func(w http.ResponseWriter, r *http.Request, user *models.User) error

// Authenticator resolves bearer tokens to users.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	AuthenticateOptional(ctx context.Context, token string) (*models.User, error)
}

// ErrorHandler adapts h to net/http and renders any returned error as
// {"detail": ...}. 401 responses carry WWW-Authenticate: Bearer.
func ErrorHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			handleHttpError(w, err)
		}
	}
}

func handleHttpError(w http.ResponseWriter, err error) {
	status, detail := GetStatus(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&ErrorBody{Detail: detail})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags the request with an id (echoed in X-Request-ID) and
// logs its outcome. Failures that map to 500 are logged with their cause.
func LoggingMiddleware(logger logging.Logger, next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		start := time.Now()

		requestID := r.Header.Get(common.RequestIDHeaderName)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		err := next(rec, r)

		status := rec.status
		if err != nil {
			status, _ = GetStatus(err)
		}

		args := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(r.Context(), "request failed", append(args, "error", err)...)
		case err != nil:
			logger.Warn(r.Context(), "request rejected", append(args, "error", err)...)
		default:
			logger.Info(r.Context(), "request completed", args...)
		}

		return err
	}
}

// RecoverMiddleware turns a panic in next into common.ErrInternal and logs
// the stack.
func RecoverMiddleware(logger logging.Logger, next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) (err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error(r.Context(), "handler panicked", "panic", p, "stack", string(debug.Stack()))
				err = fmt.Errorf("%w: panic: %v", common.ErrInternal, p)
			}
		}()
		return next(w, r)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Anything else yields "".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get(common.AuthorizationHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireUser rejects requests without a valid bearer token and passes the
// caller to h.
func RequireUser(a Authenticator, h UserHandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := a.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			return err
		}
		return h(w, r, user)
	}
}

// OptionalUser passes the caller to h when the token is valid and nil
// otherwise.
func OptionalUser(a Authenticator, h UserHandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		user, err := a.AuthenticateOptional(r.Context(), bearerToken(r))
		if err != nil {
			return err
		}
		return h(w, r, user)
	}
}
