package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ExportService writes a snapshot of a user's vault to object storage and
// hands back a temporary download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	urlTTL      time.Duration
	logger      logging.Logger
	now         func() time.Time
}

// NewExportService returns a service that fails every call with
// common.ErrExportDisabled when store is nil.
func NewExportService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, urlTTL time.Duration, logger logging.Logger) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		store:       store,
		urlTTL:      urlTTL,
		logger:      logger.With("module", "export"),
		now:         time.Now,
	}
}

// ExportKey places the archive under the owner's prefix, partitioned by day.
func ExportKey(ownerID int64, t time.Time) string {
	return fmt.Sprintf("exports/%d/%04d/%02d/%02d/%s.json", ownerID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ExportService) Export(ctx context.Context, owner *models.User) (*models.ExportResult, error) {
	if s.store == nil {
		return nil, common.ErrExportDisabled
	}
	if owner == nil {
		return nil, common.ErrUnauthorized
	}

	now := s.now().UTC()
	export := &models.Export{Username: owner.Username, CreatedAt: now}

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := dbx.WithTx(ctx, s.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		export.Notes, err = collect(ctx, owner.ID, s.repomanager.Notes(tx).ListOwned)
		if err != nil {
			return fmt.Errorf("error reading notes: %w", err)
		}
		export.Passwords, err = collect(ctx, owner.ID, s.repomanager.Passwords(tx).ListOwned)
		if err != nil {
			return fmt.Errorf("error reading password entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(export)
	if err != nil {
		return nil, err
	}

	key := ExportKey(owner.ID, now)
	if err := s.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	s.logger.Info(ctx, "vault exported", "user_id", owner.ID, "key", key,
		"notes", len(export.Notes), "passwords", len(export.Passwords))

	return &models.ExportResult{Key: key, URL: url, ExpiresAt: now.Add(s.urlTTL)}, nil
}

// collect drains every page of a listing.
func collect[R any](ctx context.Context, ownerID int64, list func(context.Context, int64, models.Page) ([]*R, error)) ([]*R, error) {
	all := make([]*R, 0)
	page := models.Page{Limit: models.MaxLimit}
	for {
		items, err := list(ctx, ownerID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < page.Limit {
			return all, nil
		}
		page.Skip += len(items)
	}
}
