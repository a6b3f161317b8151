package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/passwords"
)

// OwnedStore is the storage contract shared by every owned resource. All
// lookups and mutations are keyed by owner as well as id.
type OwnedStore[R, C, P any] interface {
	Create(ctx context.Context, ownerID int64, in *C) (*R, error)
	ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]*R, error)
	FindOwned(ctx context.Context, id, ownerID int64) (*R, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, patch *P) (*R, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}

// Patch is implemented by the partial-update payloads.
type Patch interface {
	Empty() bool
	Validate() error
}

// OwnedService scopes every operation on a resource kind to the calling
// user. The owner always comes from the authenticated identity, never from
// the payload.
type OwnedService[R, C any, P Patch] struct {
	store  OwnedStore[R, C, P]
	logger logging.Logger
}

func NewOwnedService[R, C any, P Patch](store OwnedStore[R, C, P], logger logging.Logger) *OwnedService[R, C, P] {
	return &OwnedService[R, C, P]{store: store, logger: logger}
}

type (
	NoteService     = OwnedService[models.Note, models.NoteCreate, models.NotePatch]
	PasswordService = OwnedService[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch]
)

func NewNoteService(store notes.Repository, logger logging.Logger) *NoteService {
	return NewOwnedService[models.Note, models.NoteCreate, models.NotePatch](store, logger.With("module", "notes"))
}

func NewPasswordService(store passwords.Repository, logger logging.Logger) *PasswordService {
	return NewOwnedService[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch](store, logger.With("module", "passwords"))
}

func ownerID(owner *models.User) (int64, error) {
	if owner == nil {
		return 0, common.ErrUnauthorized
	}
	return owner.ID, nil
}

func (s *OwnedService[R, C, P]) Create(ctx context.Context, owner *models.User, in *C) (*R, error) {
	id, err := ownerID(owner)
	if err != nil {
		return nil, err
	}
	r, err := s.store.Create(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "record created", "owner_id", id)
	return r, nil
}

// List returns one page of the owner's records ordered by id.
func (s *OwnedService[R, C, P]) List(ctx context.Context, owner *models.User, page models.Page) ([]*R, error) {
	id, err := ownerID(owner)
	if err != nil {
		return nil, err
	}
	return s.store.ListOwned(ctx, id, page.Normalize())
}

// Get returns common.ErrNotFound for missing ids and for ids owned by
// someone else alike.
func (s *OwnedService[R, C, P]) Get(ctx context.Context, owner *models.User, id int64) (*R, error) {
	oid, err := ownerID(owner)
	if err != nil {
		return nil, err
	}
	return s.store.FindOwned(ctx, id, oid)
}

// Update applies the fields present in patch. A patch with no fields returns
// the record unchanged.
func (s *OwnedService[R, C, P]) Update(ctx context.Context, owner *models.User, id int64, patch *P) (*R, error) {
	oid, err := ownerID(owner)
	if err != nil {
		return nil, err
	}
	if err := (*patch).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	if (*patch).Empty() {
		return s.store.FindOwned(ctx, id, oid)
	}
	return s.store.UpdateOwned(ctx, id, oid, patch)
}

func (s *OwnedService[R, C, P]) Delete(ctx context.Context, owner *models.User, id int64) error {
	oid, err := ownerID(owner)
	if err != nil {
		return err
	}
	if err := s.store.DeleteOwned(ctx, id, oid); err != nil {
		return err
	}
	s.logger.Debug(ctx, "record deleted", "owner_id", oid, "id", id)
	return nil
}
