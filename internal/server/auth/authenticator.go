package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator resolves bearer tokens to users.
type Authenticator struct {
	tokens TokenVerifier
	users  UserFinder
	logger logging.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserFinder, logger logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: logger.With("module", "authenticator")}
}

// Authenticate returns the user named by a valid token.
//
// Every rejection wraps common.ErrUnauthorized; a token that verifies but
// names an unknown user is rejected the same way as a forged one. Store
// failures other than "not found" are returned as is.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	}

	username, err := a.tokens.Verify(token)
	if err != nil {
		a.logger.Warn(ctx, "token rejected", "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.logger.Warn(ctx, "token subject does not exist", "username", username)
			return nil, fmt.Errorf("%w: unknown subject", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// AuthenticateOptional is Authenticate for endpoints that also serve
// anonymous callers: a missing or rejected token yields (nil, nil).
func (a *Authenticator) AuthenticateOptional(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := a.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
