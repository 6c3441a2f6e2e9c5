package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/repository/sqlite"
)

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Test User", Email: email}
	if err := u.SetPassword("Password123", 4); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return u
}

// mustCreateUser stores a user and returns it.
func mustCreateUser(t *testing.T, db *sqlite.DB, email string, roles ...domain.Role) *domain.User {
	t.Helper()
	u := newUser(t, email)
	if len(roles) > 0 {
		rs, err := domain.NewRoles(roles...)
		if err != nil {
			t.Fatalf("NewRoles: %v", err)
		}
		u.Roles = rs
	}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return u
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser(t, " Test@Example.com ")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == "" {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
	if user.Email != "test@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleMember {
		t.Fatalf("expected default roles, got %v", user.Roles)
	}
}

func TestUserRepository_CreateRequiresHash(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	err := repo.Create(context.Background(), &domain.User{Name: "No Hash", Email: "nohash@example.com"})
	if err == nil {
		t.Fatal("expected an error for a user without a password hash")
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser(t, "dup@example.com")); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create(ctx, newUser(t, "DUP@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	created := mustCreateUser(t, db, "find@example.com", domain.RoleOrgAdmin, domain.RoleMember)

	found, err := repo.GetByEmail(ctx, "FIND@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected ID %s, got %s", created.ID, found.ID)
	}
	if !found.CheckPassword("Password123") {
		t.Fatal("stored hash should verify the original password")
	}
	if found.Roles.String() != "member,orgAdmin" {
		t.Fatalf("expected roles member,orgAdmin, got %s", found.Roles)
	}
	if found.IsVerified || found.ProfilePicture != nil || found.Phone != nil {
		t.Fatalf("unexpected optional fields: %+v", found)
	}

	_, err = repo.GetByEmail(ctx, "nonexistent@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	created := mustCreateUser(t, db, "byid@example.com")

	found, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Email != "byid@example.com" {
		t.Fatalf("expected byid@example.com, got %s", found.Email)
	}

	_, err = repo.GetByID(ctx, "no-such-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
