package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository stores notes. Every method except Create is scoped to an owner;
// a note owned by someone else behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, ownerID int64, in *models.NoteCreate) (*models.Note, error)
	ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]*models.Note, error)
	FindOwned(ctx context.Context, id, ownerID int64) (*models.Note, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, patch *models.NotePatch) (*models.Note, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
