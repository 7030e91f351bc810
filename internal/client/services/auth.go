// Package services contains application services for the Magic Letters
// client. This file defines the authentication service: phone login, logout
// and lookup of the logged-in user.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/session"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/users"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - LoginByPhone: look up a registered user by phone and open a session.
//   - Logout: close the session, if any.
//   - CurrentUser: the user of the open session, or nil.
type AuthService interface {
	LoginByPhone(ctx context.Context, phone string) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

type authService struct {
	db dbx.DBTX
}

// NewAuthService constructs an AuthService over the local store.
func NewAuthService(db dbx.DBTX) AuthService {
	return &authService{db: db}
}

// LoginByPhone fails with common.ErrValidation for a blank phone and
// common.ErrNotFound when nobody is registered with it.
func (a *authService) LoginByPhone(ctx context.Context, phone string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", common.ErrValidation)
	}

	u, err := users.NewSQLiteRepository(a.db).GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("phone %s: %w", phone, common.ErrNotFound)
	}

	if err := session.NewSQLiteRepository(a.db).Set(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return session.NewSQLiteRepository(a.db).Clear(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	s, err := session.NewSQLiteRepository(a.db).Get(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	return users.NewSQLiteRepository(a.db).GetByID(ctx, s.UserID)
}
