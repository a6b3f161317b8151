// Package services contains application services for the notekeeper CLI.
// This file defines the authentication service: key derivation, register,
// login, logout and a liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
)

// AuthService defines authentication operations for the CLI.
//
// The master password never leaves the client: Register and Login send the
// derived login password, and Login hands the encryption key back to the
// caller.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*cryptox.Keys, error)
	Logout()
	WhoAmI(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	keys, err := cryptox.DeriveKeys(username, password)
	if err != nil {
		return fmt.Errorf("key derivation error: %w", err)
	}
	defer keys.Wipe()

	if _, err := a.client.Register(ctx, username, keys.LoginPassword()); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login authenticates with the derived login password. On success the
// returned keys belong to the caller, who should Wipe them on logout.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*cryptox.Keys, error) {
	keys, err := cryptox.DeriveKeys(username, password)
	if err != nil {
		return nil, fmt.Errorf("key derivation error: %w", err)
	}

	if err := a.client.Login(ctx, username, keys.LoginPassword()); err != nil {
		keys.Wipe()
		return nil, fmt.Errorf("login error: %w", err)
	}
	return keys, nil
}

func (a *authService) Logout() {
	a.client.Logout()
}

func (a *authService) WhoAmI(ctx context.Context) (*models.User, error) {
	return a.client.Me(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
