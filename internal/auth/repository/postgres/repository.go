package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yamess/authService/internal/auth/domain"
	autherrors "github.com/yamess/authService/internal/errors"
)

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, username, hashed_pwd, first_name, last_name,
		is_active, is_admin, is_superuser, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPwd, &u.FirstName,
		&u.LastName, &u.IsActive, &u.IsAdmin, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1;`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Create inserts the user and fills in the generated id and server
// timestamps. Unique violations come back as ErrDuplicateEmail or
// ErrDuplicateUsername so the caller can tell a taken email from a
// username-generation collision.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, username, hashed_pwd, first_name, last_name,
			is_active, is_admin, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		user.Email, user.Username, user.HashedPwd, user.FirstName, user.LastName,
		user.IsActive, user.IsAdmin, user.IsSuperuser).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users OFFSET $1 LIMIT $2;`
	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPwd, &u.FirstName,
			&u.LastName, &u.IsActive, &u.IsAdmin, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the non-nil fields and refreshes updated_at. Returns
// ErrNotFound when the id does not exist.
func (r *PostgresRepository) Update(ctx context.Context, id int, update domain.UserUpdate) (*domain.User, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}
	if update.IsAdmin != nil {
		add("is_admin", *update.IsAdmin)
	}

	query := `UPDATE users SET ` + strings.Join(set, ", ") +
		` WHERE id = $1 RETURNING ` + userColumns + `;`

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, autherrors.ErrNotFound
	}
	return user, nil
}

// Delete removes the user; login logs cascade at the schema level.
func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherrors.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) InsertLoginLog(ctx context.Context, log *domain.LoginLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_logs (user_id, client_host, status)
		VALUES ($1, $2, $3);
	`, log.UserID, log.ClientHost, log.Status)
	return err
}

// translateUniqueViolation maps a 23505 to the matching conflict
// sentinel, or returns nil when err is something else.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return autherrors.ErrDuplicateUsername
	default:
		return autherrors.ErrDuplicateEmail
	}
}
