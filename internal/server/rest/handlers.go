// Package rest is the HTTP transport: routing, authentication middleware,
// request decoding and the mapping of service errors to responses.
package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type UserService interface {
	Register(ctx context.Context, in *models.UserCreate) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type Exporter interface {
	Export(ctx context.Context, owner *models.User) (*models.ExportResult, error)
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type (
	NoteResource     = OwnedResource[models.Note, models.NoteCreate, models.NotePatch]
	PasswordResource = OwnedResource[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch]
)

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Handlers struct {
	auth      Authenticator
	users     UserService
	notes     *resourceHandlers[models.Note, models.NoteCreate, models.NotePatch]
	passwords *resourceHandlers[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch]
	export    Exporter
	db        Pinger
	logger    logging.Logger
}

func NewHandlers(a Authenticator, users UserService, notes NoteResource, passwords PasswordResource,
	export Exporter, db Pinger, logger logging.Logger) *Handlers {
	return &Handlers{
		auth:      a,
		users:     users,
		notes:     &resourceHandlers[models.Note, models.NoteCreate, models.NotePatch]{svc: notes, notFoundDetail: "Note not found"},
		passwords: &resourceHandlers[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch]{svc: passwords, notFoundDetail: "Password entry not found"},
		export:    export,
		db:        db,
		logger:    logger.With("module", "http"),
	}
}

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request, user *models.User) error {
	msg := "Welcome to E2E Notepad and Password Manager API"
	if user != nil {
		msg = "Welcome back, " + user.Username
	}
	return respond(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "health check failed", "error", err)
		return respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) error {
	var req models.UserCreate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, user)
}

// Token implements the OAuth2 password grant: form fields username and
// password in, bearer token out.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return unprocessable("invalid form body: %v", err)
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	switch {
	case username == "":
		return unprocessable("username: field required")
	case password == "":
		return unprocessable("password: field required")
	}

	token, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, &TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, user *models.User) error {
	return respond(w, http.StatusOK, user)
}

func (h *Handlers) Export(w http.ResponseWriter, r *http.Request, user *models.User) error {
	res, err := h.export.Export(r.Context(), user)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, res)
}
