package services

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// fakeClient is an in-memory client.Client for one user.
type fakeClient struct {
	mu sync.Mutex

	PingErr     error
	RegisterErr error
	LoginErr    error
	ExportErr   error

	LastRegisterUser     string
	LastRegisterPassword string
	LastLoginPassword    string
	LoggedOut            bool
	ListCalls            int

	nextID    int64
	notes     map[int64]*models.Note
	passwords map[int64]*models.PasswordEntry
}

func newFakeClient() *fakeClient {
	return &fakeClient{notes: map[int64]*models.Note{}, passwords: map[int64]*models.PasswordEntry{}}
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Register(_ context.Context, username, password string) (*models.User, error) {
	f.LastRegisterUser, f.LastRegisterPassword = username, password
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.User{ID: 1, Username: username}, nil
}

func (f *fakeClient) Login(_ context.Context, _ string, password string) error {
	f.LastLoginPassword = password
	return f.LoginErr
}

func (f *fakeClient) Logout() { f.LoggedOut = true }

func (f *fakeClient) Me(context.Context) (*models.User, error) {
	return &models.User{ID: 1, Username: "alice"}, nil
}

func (f *fakeClient) CreateNote(_ context.Context, in *models.NoteInput) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n := &models.Note{ID: f.nextID, Title: in.Title, EncryptedContent: in.EncryptedContent, OwnerID: 1}
	f.notes[n.ID] = n
	return n, nil
}

func page[T any](m map[int64]*T, skip, limit int) []*T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0)
	for i := skip; i < len(ids) && len(out) < limit; i++ {
		out = append(out, m[ids[i]])
	}
	return out
}

func (f *fakeClient) ListNotes(_ context.Context, skip, limit int) ([]*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return page(f.notes, skip, limit), nil
}

func (f *fakeClient) GetNote(_ context.Context, id int64) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Detail: "Note not found"}
	}
	return n, nil
}

func (f *fakeClient) UpdateNote(ctx context.Context, id int64, in *models.NoteUpdate) (*models.Note, error) {
	n, err := f.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.EncryptedContent != nil {
		n.EncryptedContent = *in.EncryptedContent
	}
	return n, nil
}

func (f *fakeClient) DeleteNote(ctx context.Context, id int64) error {
	if _, err := f.GetNote(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notes, id)
	return nil
}

func (f *fakeClient) CreatePassword(_ context.Context, in *models.PasswordInput) (*models.PasswordEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e := &models.PasswordEntry{ID: f.nextID, WebsiteURL: in.WebsiteURL, Username: in.Username,
		EncryptedPassword: in.EncryptedPassword, Notes: in.Notes, OwnerID: 1}
	f.passwords[e.ID] = e
	return e, nil
}

func (f *fakeClient) ListPasswords(_ context.Context, skip, limit int) ([]*models.PasswordEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.passwords, skip, limit), nil
}

func (f *fakeClient) GetPassword(_ context.Context, id int64) (*models.PasswordEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.passwords[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Detail: "Password entry not found"}
	}
	return e, nil
}

func (f *fakeClient) DeletePassword(ctx context.Context, id int64) error {
	if _, err := f.GetPassword(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.passwords, id)
	return nil
}

func (f *fakeClient) Export(context.Context) (*models.ExportResult, error) {
	if f.ExportErr != nil {
		return nil, f.ExportErr
	}
	return &models.ExportResult{Key: "k", URL: "https://signed"}, nil
}
