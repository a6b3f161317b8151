package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/netx"
)

// pageSize matches the server's maximum page.
const pageSize = 100

// VaultService encrypts before upload and decrypts after download. Titles,
// website URLs and account usernames stay in clear text so they can be
// listed without the key; note bodies, passwords and password notes are
// sealed with the encryption key.
type VaultService interface {
	AddNote(ctx context.Context, key []byte, title, content string) (*models.NoteView, error)
	ListNotes(ctx context.Context) ([]*models.Note, error)
	ShowNote(ctx context.Context, key []byte, id int64) (*models.NoteView, error)
	EditNote(ctx context.Context, key []byte, id int64, title, content *string) (*models.NoteView, error)
	DeleteNote(ctx context.Context, id int64) error

	AddPassword(ctx context.Context, key []byte, site, username, password, notes string) (*models.PasswordView, error)
	ListPasswords(ctx context.Context) ([]*models.PasswordEntry, error)
	ShowPassword(ctx context.Context, key []byte, id int64) (*models.PasswordView, error)
	DeletePassword(ctx context.Context, id int64) error

	Export(ctx context.Context) (*models.ExportResult, error)
	DownloadExport(ctx context.Context, res *models.ExportResult, dir string) (string, error)
}

type vaultService struct {
	client   client.Client
	download *http.Client
}

func NewVaultService(c client.Client) VaultService {
	return &vaultService{client: c, download: &http.Client{Timeout: time.Minute}}
}

func (v *vaultService) AddNote(ctx context.Context, key []byte, title, content string) (*models.NoteView, error) {
	sealed, err := cryptox.EncryptString(content, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	n, err := v.client.CreateNote(ctx, &models.NoteInput{Title: title, EncryptedContent: sealed})
	if err != nil {
		return nil, err
	}
	return &models.NoteView{ID: n.ID, Title: n.Title, Content: content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}, nil
}

// fetchAll pages through a listing until the server returns a short page.
func fetchAll[T any](ctx context.Context, list func(ctx context.Context, skip, limit int) ([]*T, error)) ([]*T, error) {
	all := make([]*T, 0)
	for skip := 0; ; skip += pageSize {
		page, err := list(ctx, skip, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (v *vaultService) ListNotes(ctx context.Context) ([]*models.Note, error) {
	return fetchAll(ctx, v.client.ListNotes)
}

func decryptNote(n *models.Note, key []byte) (*models.NoteView, error) {
	content, err := cryptox.DecryptString(n.EncryptedContent, key)
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", n.ID, err)
	}
	return &models.NoteView{ID: n.ID, Title: n.Title, Content: content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}, nil
}

func (v *vaultService) ShowNote(ctx context.Context, key []byte, id int64) (*models.NoteView, error) {
	n, err := v.client.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return decryptNote(n, key)
}

// EditNote changes only the non-nil fields.
func (v *vaultService) EditNote(ctx context.Context, key []byte, id int64, title, content *string) (*models.NoteView, error) {
	upd := &models.NoteUpdate{Title: title}
	if content != nil {
		sealed, err := cryptox.EncryptString(*content, key)
		if err != nil {
			return nil, fmt.Errorf("encryption error: %w", err)
		}
		upd.EncryptedContent = &sealed
	}

	n, err := v.client.UpdateNote(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return decryptNote(n, key)
}

func (v *vaultService) DeleteNote(ctx context.Context, id int64) error {
	return v.client.DeleteNote(ctx, id)
}

func (v *vaultService) AddPassword(ctx context.Context, key []byte, site, username, password, notes string) (*models.PasswordView, error) {
	sealed, err := cryptox.EncryptString(password, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	in := &models.PasswordInput{WebsiteURL: site, Username: username, EncryptedPassword: sealed}
	if notes != "" {
		sealedNotes, err := cryptox.EncryptString(notes, key)
		if err != nil {
			return nil, fmt.Errorf("encryption error: %w", err)
		}
		in.Notes = &sealedNotes
	}

	e, err := v.client.CreatePassword(ctx, in)
	if err != nil {
		return nil, err
	}
	return &models.PasswordView{ID: e.ID, WebsiteURL: e.WebsiteURL, Username: e.Username,
		Password: password, Notes: notes, CreatedAt: e.CreatedAt}, nil
}

func (v *vaultService) ListPasswords(ctx context.Context) ([]*models.PasswordEntry, error) {
	return fetchAll(ctx, v.client.ListPasswords)
}

func (v *vaultService) ShowPassword(ctx context.Context, key []byte, id int64) (*models.PasswordView, error) {
	e, err := v.client.GetPassword(ctx, id)
	if err != nil {
		return nil, err
	}

	password, err := cryptox.DecryptString(e.EncryptedPassword, key)
	if err != nil {
		return nil, fmt.Errorf("password entry %d: %w", e.ID, err)
	}
	view := &models.PasswordView{ID: e.ID, WebsiteURL: e.WebsiteURL, Username: e.Username,
		Password: password, CreatedAt: e.CreatedAt}

	if e.Notes != nil {
		notes, err := cryptox.DecryptString(*e.Notes, key)
		if err != nil {
			return nil, fmt.Errorf("password entry %d notes: %w", e.ID, err)
		}
		view.Notes = notes
	}
	return view, nil
}

func (v *vaultService) DeletePassword(ctx context.Context, id int64) error {
	return v.client.DeletePassword(ctx, id)
}

func (v *vaultService) Export(ctx context.Context) (*models.ExportResult, error) {
	return v.client.Export(ctx)
}

// DownloadExport saves the archive behind res.URL into dir, named after the
// object key, and returns the file path. A partial file is removed.
func (v *vaultService) DownloadExport(ctx context.Context, res *models.ExportResult, dir string) (string, error) {
	f, err := filex.CreateNew(dir, path.Base(res.Key))
	if err != nil {
		return "", err
	}

	_, err = netx.DownloadFromPresignedURL(ctx, v.download, res.URL, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
