package rest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"golang.org/x/crypto/bcrypt"
)

// memUsers is an in-memory account store with real hashing and tokens.
type memUsers struct {
	mu     sync.Mutex
	byName map[string]*models.User
	hasher *auth.BcryptHasher
	tokens *auth.JWTManager
}

func (m *memUsers) Register(_ context.Context, in *models.UserCreate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[in.Username]; ok {
		return nil, common.ErrDuplicateUsername
	}
	hash, err := m.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{ID: int64(len(m.byName) + 1), Username: in.Username, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	m.byName[in.Username] = u
	return u, nil
}

func (m *memUsers) Login(_ context.Context, username, password string) (string, error) {
	m.mu.Lock()
	u, ok := m.byName[username]
	m.mu.Unlock()
	if !ok || !m.hasher.Verify(password, u.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}
	return m.tokens.Issue(username)
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

// memStore is an owner-scoped in-memory store for one resource kind.
type memStore[R, C, P any] struct {
	mu    sync.Mutex
	next  int64
	items map[int64]*R
	build func(id, owner int64, in *C) *R
	apply func(r *R, p *P)
	owner func(r *R) int64
}

func (s *memStore[R, C, P]) Create(_ context.Context, ownerID int64, in *C) (*R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	r := s.build(s.next, ownerID, in)
	s.items[s.next] = r
	return r, nil
}

func (s *memStore[R, C, P]) ListOwned(_ context.Context, ownerID int64, page models.Page) ([]*R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0)
	for id, r := range s.items {
		if s.owner(r) == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*R, 0)
	for i := page.Skip; i < len(ids) && len(out) < page.Limit; i++ {
		out = append(out, s.items[ids[i]])
	}
	return out, nil
}

func (s *memStore[R, C, P]) FindOwned(_ context.Context, id, ownerID int64) (*R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok || s.owner(r) != ownerID {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (s *memStore[R, C, P]) UpdateOwned(ctx context.Context, id, ownerID int64, p *P) (*R, error) {
	r, err := s.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(r, p)
	return r, nil
}

func (s *memStore[R, C, P]) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	if _, err := s.FindOwned(ctx, id, ownerID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func newNoteStore() *memStore[models.Note, models.NoteCreate, models.NotePatch] {
	return &memStore[models.Note, models.NoteCreate, models.NotePatch]{
		items: map[int64]*models.Note{},
		build: func(id, owner int64, in *models.NoteCreate) *models.Note {
			return &models.Note{ID: id, Title: in.Title, EncryptedContent: in.EncryptedContent, OwnerID: owner, CreatedAt: time.Now().UTC()}
		},
		apply: func(n *models.Note, p *models.NotePatch) {
			if p.Title.Set {
				n.Title = p.Title.Value
			}
			if p.EncryptedContent.Set {
				n.EncryptedContent = p.EncryptedContent.Value
			}
			now := time.Now().UTC()
			n.UpdatedAt = &now
		},
		owner: func(n *models.Note) int64 { return n.OwnerID },
	}
}

func newPasswordStore() *memStore[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch] {
	return &memStore[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch]{
		items: map[int64]*models.PasswordEntry{},
		build: func(id, owner int64, in *models.PasswordEntryCreate) *models.PasswordEntry {
			return &models.PasswordEntry{ID: id, WebsiteURL: in.WebsiteURL, Username: in.Username,
				EncryptedPassword: in.EncryptedPassword, Notes: in.Notes, OwnerID: owner, CreatedAt: time.Now().UTC()}
		},
		apply: func(e *models.PasswordEntry, p *models.PasswordEntryPatch) {
			if p.WebsiteURL.Set {
				e.WebsiteURL = p.WebsiteURL.Value
			}
			if p.Username.Set {
				e.Username = p.Username.Value
			}
			if p.EncryptedPassword.Set {
				e.EncryptedPassword = p.EncryptedPassword.Value
			}
			if p.Notes.Set {
				e.Notes = p.Notes.Ptr()
			}
			now := time.Now().UTC()
			e.UpdatedAt = &now
		},
		owner: func(e *models.PasswordEntry) int64 { return e.OwnerID },
	}
}

type fakeExporter struct {
	err error
}

func (f *fakeExporter) Export(_ context.Context, owner *models.User) (*models.ExportResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ExportResult{Key: "exports/" + owner.Username + ".json", URL: "https://signed", ExpiresAt: time.Unix(0, 0).UTC()}, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(context.Context) error { return f.err }

type testEnv struct {
	users    *memUsers
	tokens   *auth.JWTManager
	exporter *fakeExporter
	pinger   *fakePinger
	handlers *Handlers
}

func newTestEnv() *testEnv {
	tokens := auth.NewJWTManager([]byte("test-secret"), 30*time.Minute)
	users := &memUsers{byName: map[string]*models.User{}, hasher: auth.NewBcryptHasher(bcrypt.MinCost), tokens: tokens}
	authn := auth.NewAuthenticator(tokens, users, logging.Nop{})

	notes := services.NewOwnedService[models.Note, models.NoteCreate, models.NotePatch](newNoteStore(), logging.Nop{})
	passwords := services.NewOwnedService[models.PasswordEntry, models.PasswordEntryCreate, models.PasswordEntryPatch](newPasswordStore(), logging.Nop{})

	env := &testEnv{users: users, tokens: tokens, exporter: &fakeExporter{}, pinger: &fakePinger{}}
	env.handlers = NewHandlers(authn, users, notes, passwords, env.exporter, env.pinger, logging.Nop{})
	return env
}

var errBoom = errors.New("boom")
