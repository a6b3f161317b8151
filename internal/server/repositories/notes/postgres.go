// Package notes provides the PostgreSQL-backed note store.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const columns = `id, title, encrypted_content, owner_id, created_at, updated_at`

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	n := &models.Note{}
	if err := s.Scan(&n.ID, &n.Title, &n.EncryptedContent, &n.OwnerID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID int64, in *models.NoteCreate) (*models.Note, error) {
	query := `INSERT INTO notes (title, encrypted_content, owner_id)
		VALUES ($1, $2, $3)
		RETURNING ` + columns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, in.Title, in.EncryptedContent, ownerID))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ListOwned returns the owner's notes ordered by id.
func (r *PostgresRepository) ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]*models.Note, error) {
	page = page.Normalize()
	query := `SELECT ` + columns + ` FROM notes
		WHERE owner_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, ownerID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) FindOwned(ctx context.Context, id, ownerID int64) (*models.Note, error) {
	query := `SELECT ` + columns + ` FROM notes
		WHERE id = $1 AND owner_id = $2`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpdateOwned applies the fields present in patch with a single conditional
// statement and stamps updated_at. An empty patch reads the note unchanged.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, id, ownerID int64, patch *models.NotePatch) (*models.Note, error) {
	var set dbx.SetList
	if patch.Title.Set {
		set.Add("title", patch.Title.Value)
	}
	if patch.EncryptedContent.Set {
		set.Add("encrypted_content", patch.EncryptedContent.Value)
	}
	if set.Len() == 0 {
		return r.FindOwned(ctx, id, ownerID)
	}
	set.AddRaw("updated_at", "now()")

	query := fmt.Sprintf(`UPDATE notes SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING %s`, set.String(), set.Next(), set.Next()+1, columns)

	n, err := scanNote(r.db.QueryRowContext(ctx, query, set.Args(id, ownerID)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
