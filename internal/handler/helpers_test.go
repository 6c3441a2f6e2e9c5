package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/handler"
	"github.com/Meet3141/CampusConnect/internal/repository/sqlite"
	"github.com/Meet3141/CampusConnect/internal/service"
)

const testJWTSecret = "test-secret-key-for-handler-tests-0123456789"

type testEnv struct {
	db      *sqlite.DB
	tokens  *service.TokenService
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLimiter(t, service.NewRateLimiter(6000, 1000))
}

func newTestEnvWithLimiter(t *testing.T, limiter *service.RateLimiter) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testJWTSecret, "campusconnect", time.Hour)
	auth := service.NewAuthService(db.Users(), tokens, 4)
	clubs := service.NewClubService(db.Clubs())
	events := service.NewEventService(db.Events(), db.Clubs())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, clubs, events, db, limiter)
	return &testEnv{db: db, tokens: tokens, handler: handler.Wrap(mux, false)}
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := newRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := serve(e, req)

	res := response{Code: rec.Code, Header: rec.Header()}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.Body); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return res
}

// userWithRoles stores a user directly and returns it with a signed token.
func (e *testEnv) userWithRoles(t *testing.T, email string, roles ...domain.Role) (*domain.User, string) {
	t.Helper()
	rs, err := domain.NewRoles(roles...)
	if err != nil {
		t.Fatalf("NewRoles: %v", err)
	}
	u := &domain.User{Name: "User " + email, Email: email, Roles: rs}
	if err := u.SetPassword("Password123", 4); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := e.db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, _, err := e.tokens.Issue(domain.Identity{UserID: u.ID, Roles: u.Roles})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return u, token
}

func expectStatus(t *testing.T, res response, want int) {
	t.Helper()
	if res.Code != want {
		t.Fatalf("expected status %d, got %d: %v", want, res.Code, res.Body)
	}
}

func expectError(t *testing.T, res response, status int, message string) {
	t.Helper()
	expectStatus(t, res, status)
	if res.Body["success"] != false {
		t.Fatalf("expected success=false, got %v", res.Body)
	}
	if message != "" && res.Body["message"] != message {
		t.Fatalf("expected message %q, got %v", message, res.Body["message"])
	}
}

func dataOf(t *testing.T, res response) map[string]any {
	t.Helper()
	data, ok := res.Body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", res.Body)
	}
	return data
}
