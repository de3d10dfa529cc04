package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/yamess/authService/internal/auth/domain UserRepository

import "context"

// UserRepository is the persistence boundary of the credential store.
// Lookups return (nil, nil) when no row matches; only real store
// failures surface as errors.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context, skip, limit int) ([]User, error)
	Update(ctx context.Context, id int, update UserUpdate) (*User, error)
	Delete(ctx context.Context, id int) error
	InsertLoginLog(ctx context.Context, log *LoginLog) error
}
