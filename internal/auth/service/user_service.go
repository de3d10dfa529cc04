package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yamess/authService/internal/auth/domain"
	"github.com/yamess/authService/internal/auth/dto"
	autherrors "github.com/yamess/authService/internal/errors"
	"github.com/yamess/authService/internal/logging"
)

type UserService struct {
	repo             domain.UserRepository
	tokenService     TokenGenerator
	usernames        *UsernameGenerator
	usernameAttempts int
	log              logging.Logger
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator,
	usernames *UsernameGenerator, usernameAttempts int, log logging.Logger) *UserService {
	return &UserService{
		repo:             repo,
		tokenService:     tokenService,
		usernames:        usernames,
		usernameAttempts: usernameAttempts,
		log:              log,
	}
}

// Register creates a user with a system-generated username. The email
// must be unused; the password is hashed before it ever reaches the
// store.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherrors.ErrConflict
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:       input.Email,
		HashedPwd:   hashed,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		IsActive:    input.IsActive,
		IsAdmin:     input.IsAdmin,
		IsSuperuser: input.IsSuperuser,
	}

	// Collisions over 8 uppercase alphanumerics are a birthday-problem
	// rarity, so the retry loop all but always succeeds on the first
	// pass; the attempt bound exists so a misconfigured store cannot
	// spin forever. The unique constraint is the arbiter under
	// concurrent registration: a losing race shows up as a duplicate-
	// username error and is retried like any other collision.
	for attempt := 0; attempt < s.usernameAttempts; attempt++ {
		user.Username = s.usernames.Generate()

		taken, err := s.repo.GetByUsername(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			continue
		}

		err = s.repo.Create(ctx, user)
		if errors.Is(err, autherrors.ErrDuplicateUsername) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	return nil, autherrors.ErrUsernameExhausted
}

// Authenticate checks the credential pair and writes exactly one login
// log row for the attempt. A miss on either factor yields
// ErrInvalidCredentials; nothing reveals which factor was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password, clientHost string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil || !VerifyPassword(password, user.HashedPwd) {
		s.writeLoginLog(ctx, nil, clientHost, domain.LoginStatusFailed)
		return nil, autherrors.ErrInvalidCredentials
	}

	s.writeLoginLog(ctx, &user.ID, clientHost, domain.LoginStatusSuccess)
	return user, nil
}

// Login authenticates and issues a bearer token.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password, input.ClientHost)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokenService.Issue(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// writeLoginLog records the attempt. The audit write is non-critical:
// a failure is logged but never aborts authentication.
func (s *UserService) writeLoginLog(ctx context.Context, userID *int, clientHost, status string) {
	log := &domain.LoginLog{UserID: userID, ClientHost: clientHost, Status: status}
	if err := s.repo.InsertLoginLog(ctx, log); err != nil {
		s.log.Warn(ctx, "failed to write login log", "status", status, "error", err)
	}
}

func (s *UserService) GetByID(ctx context.Context, id int) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherrors.ErrNotFound
	}
	return user, nil
}

// List returns users in storage order, paginated by offset and limit.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.repo.List(ctx, skip, limit)
}

// Update applies a partial update to the target user. Identity fields
// and the superuser flag are not settable through this path; the
// update type cannot carry them.
func (s *UserService) Update(ctx context.Context, targetID int, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.repo.Update(ctx, targetID, update)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the target user; their login logs cascade away.
func (s *UserService) Delete(ctx context.Context, targetID int) error {
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user %d: %w", targetID, err)
	}
	return nil
}
