package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/ports"
	"github.com/internalpj/crm-api/internal/core/token"
)

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (r *fakeUserRepo) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (r *fakeUserRepo) ExistsByEmail(context.Context, string) (bool, error)   { return false, nil }
func (r *fakeUserRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (r *fakeUserRepo) FindAll(context.Context) ([]*domain.User, error)              { return nil, nil }

type fakeAccounts struct {
	registerErr error
	loginRes    *ports.LoginResult
	loginErr    error
	users       *fakeUserRepo
}

func (s *fakeAccounts) Register(context.Context, ports.RegisterInput) error { return s.registerErr }
func (s *fakeAccounts) Login(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginRes, s.loginErr
}
func (s *fakeAccounts) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
func (s *fakeAccounts) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Insert(context.Context, *domain.AuditEntry) error { return nil }
func (fakeAuditRepo) Recent(context.Context, int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, repo *fakeUserRepo, accounts ports.AccountService, tokens *token.Service) *echo.Echo {
	t.Helper()
	return NewRouter(RouterDeps{
		Accounts:    accounts,
		Users:       repo,
		Tokens:      tokens,
		Audit:       fakeAuditRepo{},
		Log:         zerolog.Nop(),
		CORSOrigins: []string{"http://localhost:5173"},
		Registry:    prometheus.NewRegistry(),
	})
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_LoginSucceeds(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := &fakeUserRepo{users: map[int64]*domain.User{}}
	accounts := &fakeAccounts{
		users:    repo,
		loginRes: &ports.LoginResult{UserID: 1, Username: "alice", Email: "alice@x.com", AccessToken: "tok"},
	}
	e := newTestRouter(t, repo, accounts, tokens)

	rec := doJSON(e, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RegisterConflictMapsToStableCode(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := &fakeUserRepo{users: map[int64]*domain.User{}}
	accounts := &fakeAccounts{users: repo, registerErr: domain.ErrUsernameTaken}
	e := newTestRouter(t, repo, accounts, tokens)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"bob@x.com","password":"secret2","role_id":2}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["code"] != "USERNAME_ALREADY_EXISTS" {
		t.Fatalf("expected USERNAME_ALREADY_EXISTS, got %v", body["code"])
	}
}

func TestRouter_MeRequiresToken(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := &fakeUserRepo{users: map[int64]*domain.User{}}
	e := newTestRouter(t, repo, &fakeAccounts{users: repo}, tokens)

	rec := doJSON(e, http.MethodGet, "/api/users/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "AUTH_001" {
		t.Fatalf("expected AUTH_001, got %v", body["code"])
	}
}

func TestRouter_MeWithValidToken(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", Email: "alice@x.com", RoleID: domain.RoleUser},
	}}
	e := newTestRouter(t, repo, &fakeAccounts{users: repo}, tokens)

	tok, err := tokens.Issue(1, "alice@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/api/users/me", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["username"] != "alice" || data["authority"] != "USER" {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestRouter_DeletedUserTokenIsAnonymous(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	now := time.Now().UTC()
	repo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", RoleID: domain.RoleUser, DeletedAt: &now},
	}}
	e := newTestRouter(t, repo, &fakeAccounts{users: repo}, tokens)

	tok, _ := tokens.Issue(1, "alice@x.com")

	rec := doJSON(e, http.MethodGet, "/api/users/me", "", tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account must not grant access, got %d", rec.Code)
	}
}

func TestRouter_UserListIsAdminOnly(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Username: "alice", RoleID: domain.RoleUser},
		2: {ID: 2, Username: "root", RoleID: domain.RoleAdmin},
	}}
	e := newTestRouter(t, repo, &fakeAccounts{users: repo}, tokens)

	userTok, _ := tokens.Issue(1, "alice@x.com")
	rec := doJSON(e, http.MethodGet, "/api/users", "", userTok)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER authority, got %d", rec.Code)
	}

	adminTok, _ := tokens.Issue(2, "root@x.com")
	rec = doJSON(e, http.MethodGet, "/api/users", "", adminTok)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ADMIN authority, got %d", rec.Code)
	}
}
