package domain

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered user of the application.
//
// The password hash is unexported: SetPassword is the only way to change it, so
// a plaintext password can never reach storage unhashed.
type User struct {
	ID             string
	Name           string
	Email          string
	Roles          Roles
	ProfilePicture *string
	Bio            string
	Phone          *string
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	passwordHash string
}

// SetPassword hashes plaintext with bcrypt at the given cost and stores the hash.
func (u *User) SetPassword(plaintext string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return err
	}
	u.passwordHash = string(hash)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash. The comparison
// is constant-time; a mismatch or an empty hash yields false.
func (u *User) CheckPassword(plaintext string) bool {
	if u.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(plaintext)) == nil
}

// PasswordHash returns the stored hash for persistence.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// RestoreHash sets an already-hashed password read back from storage.
func (u *User) RestoreHash(hash string) {
	u.passwordHash = hash
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
