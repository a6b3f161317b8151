// Package passwords provides the PostgreSQL-backed password entry store.
package passwords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const columns = `id, website_url, username, encrypted_password, notes, owner_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.PasswordEntry, error) {
	e := &models.PasswordEntry{}
	err := s.Scan(&e.ID, &e.WebsiteURL, &e.Username, &e.EncryptedPassword, &e.Notes,
		&e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID int64, in *models.PasswordEntryCreate) (*models.PasswordEntry, error) {
	query := `INSERT INTO password_entries (website_url, username, encrypted_password, notes, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns

	e, err := scanEntry(r.db.QueryRowContext(ctx, query,
		in.WebsiteURL, in.Username, in.EncryptedPassword, in.Notes, ownerID))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]*models.PasswordEntry, error) {
	page = page.Normalize()
	query := `SELECT ` + columns + ` FROM password_entries
		WHERE owner_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, ownerID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.PasswordEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) FindOwned(ctx context.Context, id, ownerID int64) (*models.PasswordEntry, error) {
	query := `SELECT ` + columns + ` FROM password_entries
		WHERE id = $1 AND owner_id = $2`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// UpdateOwned applies the present fields of patch; an explicit null clears
// notes.
func (r *PostgresRepository) UpdateOwned(ctx context.Context, id, ownerID int64, patch *models.PasswordEntryPatch) (*models.PasswordEntry, error) {
	var set dbx.SetList
	if patch.WebsiteURL.Set {
		set.Add("website_url", patch.WebsiteURL.Value)
	}
	if patch.Username.Set {
		set.Add("username", patch.Username.Value)
	}
	if patch.EncryptedPassword.Set {
		set.Add("encrypted_password", patch.EncryptedPassword.Value)
	}
	if patch.Notes.Set {
		set.Add("notes", patch.Notes.Ptr())
	}
	if set.Len() == 0 {
		return r.FindOwned(ctx, id, ownerID)
	}
	set.AddRaw("updated_at", "now()")

	query := fmt.Sprintf(`UPDATE password_entries SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING %s`, set.String(), set.Next(), set.Next()+1, columns)

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, set.Args(id, ownerID)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
