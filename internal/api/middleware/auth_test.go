package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/token"
)

type stubUserRepo struct {
	users map[int64]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (r *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error)   { return false, nil }
func (r *stubUserRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *stubUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (r *stubUserRepo) FindAll(context.Context) ([]*domain.User, error)              { return nil, nil }

func newTestContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidTokenAttachesPrincipal(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := newStubUserRepo(&domain.User{ID: 1, Username: "alice", Email: "alice@x.com", RoleID: domain.RoleAdmin})

	signed, err := tokens.Issue(1, "alice@x.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := newTestContext(t, "Bearer "+signed)

	called := false
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		called = true
		p, ok := CurrentPrincipal(c)
		if !ok {
			t.Fatalf("principal not attached")
		}
		if p.User.Username != "alice" {
			t.Fatalf("unexpected user: %+v", p.User)
		}
		if len(p.Authorities) != 1 || p.Authorities[0] != domain.AuthorityAdmin {
			t.Fatalf("expected single ADMIN authority, got %v", p.Authorities)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_StandardRoleGetsUserAuthority(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	repo := newStubUserRepo(&domain.User{ID: 2, Username: "bob", RoleID: domain.RoleUser})

	signed, _ := tokens.Issue(2, "bob@x.com")
	c, _ := newTestContext(t, "Bearer "+signed)

	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		p, _ := CurrentPrincipal(c)
		if !p.HasAuthority(domain.AuthorityUser) || p.HasAuthority(domain.AuthorityAdmin) {
			t.Fatalf("expected USER authority only, got %v", p.Authorities)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_MissingHeaderProceedsAnonymous(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	c, _ := newTestContext(t, "")

	handler := Authenticate(tokens, newStubUserRepo())(func(c echo.Context) error {
		if _, ok := CurrentPrincipal(c); ok {
			t.Fatalf("principal attached without credentials")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("filter must not fail on missing credentials: %v", err)
	}
}

func TestAuthenticate_WrongSchemeProceedsAnonymous(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	c, _ := newTestContext(t, "Basic dXNlcjpwYXNz")

	handler := Authenticate(tokens, newStubUserRepo())(func(c echo.Context) error {
		if _, ok := CurrentPrincipal(c); ok {
			t.Fatalf("principal attached for non-bearer scheme")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("filter must not fail on wrong scheme: %v", err)
	}
}

func TestAuthenticate_InvalidTokenProceedsAnonymous(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	c, _ := newTestContext(t, "Bearer not-a-token")

	handler := Authenticate(tokens, newStubUserRepo())(func(c echo.Context) error {
		if _, ok := CurrentPrincipal(c); ok {
			t.Fatalf("principal attached for invalid token")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("filter must not fail on invalid token: %v", err)
	}
}

func TestAuthenticate_DeletedSubjectProceedsAnonymous(t *testing.T) {
	tokens := token.NewService("secret", time.Hour)
	now := time.Now().UTC()
	repo := newStubUserRepo(&domain.User{ID: 3, Username: "carol", DeletedAt: &now})

	// Cryptographically valid token for a user deleted after issuance.
	signed, _ := tokens.Issue(3, "carol@x.com")
	if !tokens.Validate(signed) {
		t.Fatalf("token should still validate cryptographically")
	}

	c, _ := newTestContext(t, "Bearer "+signed)
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		if _, ok := CurrentPrincipal(c); ok {
			t.Fatalf("deleted account must not yield a principal")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("filter must not fail on deleted subject: %v", err)
	}
}
