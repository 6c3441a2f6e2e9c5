package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload: the standard registered claims plus the role set.
type Claims struct {
	Roles domain.Roles `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret. Tokens expire ttl
// after issuance.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// Issue signs a token for id. It returns the token and its expiry.
func (s *TokenService) Issue(id domain.Identity) (string, time.Time, error) {
	if id.UserID == "" || len(id.Roles) == 0 {
		return "", time.Time{}, errors.New("issue token: identity needs a subject and at least one role")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Roles: id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

// Verify checks the signature and every claim, including expiry. It fails with
// domain.ErrTokenExpired or domain.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	return identityFromClaims(claims)
}

// VerifyIgnoringExpiry is Verify without the expiry check. Signature, algorithm,
// issuer, issued-at and not-before are still enforced. Only the refresh flow
// may call it.
func (s *TokenService) VerifyIgnoringExpiry(tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	rest := *claims
	rest.ExpiresAt = nil
	v := jwt.NewValidator(jwt.WithIssuer(s.issuer), jwt.WithIssuedAt(), jwt.WithTimeFunc(s.now))
	if err := v.Validate(&rest); err != nil {
		return nil, domain.ErrInvalidToken
	}
	return identityFromClaims(claims)
}

func (s *TokenService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

func identityFromClaims(c *Claims) (*domain.Identity, error) {
	if c.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	roles, err := domain.NewRoles(c.Roles...)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{UserID: c.Subject, Roles: roles}, nil
}
