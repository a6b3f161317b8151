package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) error
	Logout()
	Me(ctx context.Context) (*models.User, error)

	CreateNote(ctx context.Context, in *models.NoteInput) (*models.Note, error)
	ListNotes(ctx context.Context, skip, limit int) ([]*models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	UpdateNote(ctx context.Context, id int64, in *models.NoteUpdate) (*models.Note, error)
	DeleteNote(ctx context.Context, id int64) error

	CreatePassword(ctx context.Context, in *models.PasswordInput) (*models.PasswordEntry, error)
	ListPasswords(ctx context.Context, skip, limit int) ([]*models.PasswordEntry, error)
	GetPassword(ctx context.Context, id int64) (*models.PasswordEntry, error)
	DeletePassword(ctx context.Context, id int64) error

	Export(ctx context.Context) (*models.ExportResult, error)
}
