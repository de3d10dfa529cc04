package service

import (
	"context"

	"github.com/yamess/authService/internal/auth/domain"
	autherrors "github.com/yamess/authService/internal/errors"
)

// Guard resolves callers from bearer tokens and enforces the role
// rules for each guarded operation.
type Guard struct {
	tokenService TokenGenerator
	repo         domain.UserRepository
}

func NewGuard(tokenService TokenGenerator, repo domain.UserRepository) *Guard {
	return &Guard{tokenService: tokenService, repo: repo}
}

// ResolveCaller decodes the token and re-loads the user by id. The
// reload means a deleted user's still-valid token cannot fetch a live
// record, and every authorization decision below runs against the
// current role flags, not the snapshot embedded in the token.
func (g *Guard) ResolveCaller(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := g.tokenService.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := g.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherrors.ErrPrincipalNotFound
	}
	return user, nil
}

// CanListUsers allows admins and superusers.
func (g *Guard) CanListUsers(caller *domain.User) error {
	if caller.IsAdmin || caller.IsSuperuser {
		return nil
	}
	return autherrors.ErrNotAuthorized
}

// CanUpdateUser allows self-updates and any admin or superuser.
func (g *Guard) CanUpdateUser(caller *domain.User, targetID int) error {
	if caller.ID == targetID || caller.IsAdmin || caller.IsSuperuser {
		return nil
	}
	return autherrors.ErrNotAuthorized
}

// CanDeleteUser allows admins and superusers only. There is no
// self-delete exception.
func (g *Guard) CanDeleteUser(caller *domain.User, targetID int) error {
	if caller.IsAdmin || caller.IsSuperuser {
		return nil
	}
	return autherrors.ErrNotAuthorized
}
