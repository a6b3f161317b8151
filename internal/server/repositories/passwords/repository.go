package passwords

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository stores password entries, scoped to an owner the same way as notes.
type Repository interface {
	Create(ctx context.Context, ownerID int64, in *models.PasswordEntryCreate) (*models.PasswordEntry, error)
	ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]*models.PasswordEntry, error)
	FindOwned(ctx context.Context, id, ownerID int64) (*models.PasswordEntry, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, patch *models.PasswordEntryPatch) (*models.PasswordEntry, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
