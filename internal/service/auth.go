package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Meet3141/CampusConnect/internal/domain"
)

// AuthService handles registration, login, identity verification and token refresh.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenService
	bcryptCost int

	dummyOnce sync.Once
	dummy     *domain.User
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Session is the result of a successful register or login.
type Session struct {
	Token string
	User  *domain.User
}

// Register creates a member account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.Invalid("Name, email, and password are required")
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, domain.Invalid("Name must be between 2 and 50 characters")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domain.Invalid("Invalid email format")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user := &domain.User{
		Name:  name,
		Email: email,
		Roles: domain.DefaultRoles(),
	}
	if err := user.SetPassword(password, s.bcryptCost); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// A concurrent registration can still win the race; the store's unique
	// index turns that into ErrDuplicateEmail here.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Roles: user.Roles})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail identically
// with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			s.dummyUser().CheckPassword(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Roles: user.Roles})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Authenticate verifies a bearer token and returns the identity it carries.
func (s *AuthService) Authenticate(token string) (*domain.Identity, error) {
	return s.tokens.Verify(token)
}

// Verify reloads the canonical record of an authenticated identity.
func (s *AuthService) Verify(ctx context.Context, id *domain.Identity) (*domain.User, error) {
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Refresh re-issues a token with the same subject and roles. The presented token
// must carry a valid signature but may be expired.
func (s *AuthService) Refresh(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.Invalid("Token required")
	}
	id, err := s.tokens.VerifyIgnoringExpiry(token)
	if err != nil {
		return "", err
	}
	fresh, _, err := s.tokens.Issue(*id)
	if err != nil {
		return "", err
	}
	return fresh, nil
}

func (s *AuthService) dummyUser() *domain.User {
	s.dummyOnce.Do(func() {
		u := &domain.User{}
		if err := u.SetPassword("dummy-Password-1", s.bcryptCost); err == nil {
			s.dummy = u
		} else {
			s.dummy = &domain.User{}
		}
	})
	return s.dummy
}

// ValidatePassword enforces the password policy: at least 8 characters drawn from
// letters, digits and @$!%*?&, with at least one lowercase letter, one uppercase
// letter and one digit.
func ValidatePassword(password string) error {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return domain.Invalid("Password may only contain letters, digits and @$!%%*?&")
		}
	}
	if len(password) < 8 || !lower || !upper || !digit {
		return domain.Invalid("Password must be 8+ characters with uppercase, lowercase, and number")
	}
	return nil
}
