package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/google/uuid"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, name, email, password_hash, roles, profile_picture, bio, phone, is_verified, created_at, updated_at`

// Create inserts the user, assigning its ID and timestamps. The email unique
// index is the authoritative duplicate check: a violation yields ErrDuplicateEmail
// even when an earlier lookup found nothing.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.PasswordHash() == "" {
		return errors.New("insert user: password hash is empty")
	}
	if len(user.Roles) == 0 {
		user.Roles = domain.DefaultRoles()
	}

	id := uuid.NewString()
	email := normalizeEmail(user.Email)
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, user.Name, email, user.PasswordHash(), user.Roles.String(),
		user.ProfilePicture, user.Bio, user.Phone, user.IsVerified, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// GetByEmail looks a user up case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u     domain.User
		hash  string
		roles string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &roles, &u.ProfilePicture,
		&u.Bio, &u.Phone, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	rs, err := domain.ParseRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("decode roles of user %s: %w", u.ID, err)
	}
	u.Roles = rs
	u.RestoreHash(hash)
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
