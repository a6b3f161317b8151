package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/passwords"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int64

	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Create(_ context.Context, username, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[username]; ok {
		return nil, common.ErrDuplicateUsername
	}
	u := &models.User{ID: f.nextID, Username: username, PasswordHash: hash}
	f.nextID++
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

// fakeNotesRepo keeps notes in memory and honours owner scoping and paging.
type fakeNotesRepo struct {
	items   []*models.Note
	listErr error
}

func (f *fakeNotesRepo) Create(_ context.Context, ownerID int64, in *models.NoteCreate) (*models.Note, error) {
	n := &models.Note{ID: int64(len(f.items) + 1), Title: in.Title, EncryptedContent: in.EncryptedContent, OwnerID: ownerID}
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNotesRepo) ListOwned(_ context.Context, ownerID int64, page models.Page) ([]*models.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.items, page, func(n *models.Note) (int64, int64) { return n.ID, n.OwnerID }, ownerID), nil
}

func (f *fakeNotesRepo) FindOwned(_ context.Context, id, ownerID int64) (*models.Note, error) {
	for _, n := range f.items {
		if n.ID == id && n.OwnerID == ownerID {
			return n, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeNotesRepo) UpdateOwned(ctx context.Context, id, ownerID int64, _ *models.NotePatch) (*models.Note, error) {
	return f.FindOwned(ctx, id, ownerID)
}

func (f *fakeNotesRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	_, err := f.FindOwned(ctx, id, ownerID)
	return err
}

type fakePasswordsRepo struct {
	items   []*models.PasswordEntry
	listErr error
}

func (f *fakePasswordsRepo) Create(_ context.Context, ownerID int64, in *models.PasswordEntryCreate) (*models.PasswordEntry, error) {
	e := &models.PasswordEntry{ID: int64(len(f.items) + 1), WebsiteURL: in.WebsiteURL, Username: in.Username,
		EncryptedPassword: in.EncryptedPassword, Notes: in.Notes, OwnerID: ownerID}
	f.items = append(f.items, e)
	return e, nil
}

func (f *fakePasswordsRepo) ListOwned(_ context.Context, ownerID int64, page models.Page) ([]*models.PasswordEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.items, page, func(e *models.PasswordEntry) (int64, int64) { return e.ID, e.OwnerID }, ownerID), nil
}

func (f *fakePasswordsRepo) FindOwned(_ context.Context, id, ownerID int64) (*models.PasswordEntry, error) {
	for _, e := range f.items {
		if e.ID == id && e.OwnerID == ownerID {
			return e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakePasswordsRepo) UpdateOwned(ctx context.Context, id, ownerID int64, _ *models.PasswordEntryPatch) (*models.PasswordEntry, error) {
	return f.FindOwned(ctx, id, ownerID)
}

func (f *fakePasswordsRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	_, err := f.FindOwned(ctx, id, ownerID)
	return err
}

func pageOf[R any](items []*R, page models.Page, key func(*R) (id, owner int64), ownerID int64) []*R {
	page = page.Normalize()
	owned := make([]*R, 0)
	for _, it := range items {
		if _, o := key(it); o == ownerID {
			owned = append(owned, it)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		a, _ := key(owned[i])
		b, _ := key(owned[j])
		return a < b
	})
	if page.Skip >= len(owned) {
		return []*R{}
	}
	end := page.Skip + page.Limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[page.Skip:end]
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
	p *fakePasswordsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Notes(dbx.DBTX) notes.Repository             { return m.n }
func (m *fakeRepoManager) Passwords(dbx.DBTX) passwords.Repository     { return m.p }
