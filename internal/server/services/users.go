// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and user lookup.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks stored account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer mints access tokens for a username.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// UserService provides account operations:
//   - Register: create users with a hashed password
//   - Login: verify credentials and mint an access token
//   - GetUserByUsername: lookup used by the authenticator
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger

	// dummyHash is checked against when the user does not exist so that
	// unknown usernames cost the same as wrong passwords.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "users"),
	}
	if h, err := hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16))); err == nil {
		s.dummyHash = h
	}
	return s
}

// Register creates a user. The existence check and the insert share one
// transaction; a concurrent insert that slips past the check is still caught
// by the unique index and reported as common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, in *models.UserCreate) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByUsername(ctx, in.Username)
		switch {
		case err == nil:
			return common.ErrDuplicateUsername
		case !errors.Is(err, common.ErrNotFound):
			return fmt.Errorf("error searching user: %w", err)
		}

		user, err = repo.Create(ctx, in.Username, hash)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// users and wrong passwords are both common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn(ctx, "failed login", "user_id", user.ID)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}

// GetUserByUsername returns the user or common.ErrNotFound.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByUsername(ctx, username)
}
