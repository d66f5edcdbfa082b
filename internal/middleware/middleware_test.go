package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/token"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[string]*entity.User

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, apperror.ErrNotFound
}

type fakeOwners map[uint]string

func (f fakeOwners) OwnerOf(_ context.Context, id uint) (string, error) {
	if owner, ok := f[id]; ok {
		return owner, nil
	}
	return "", apperror.ErrNotFound
}

func newRouter(t *testing.T) (*gin.Engine, *token.Manager) {
	t.Helper()
	tokens := token.NewManager("middleware-secret", time.Hour)
	users := fakeUsers{
		"member@school.org": {Email: "member@school.org", Role: entity.RoleApproved},
		"admin@school.org":  {Email: "admin@school.org", Role: entity.RoleAdmin},
	}
	auth := NewAuthMiddleware(tokens, users)
	owners := fakeOwners{7: "member@school.org"}

	r := gin.New()
	r.Use(Recovery())
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email": c.GetString(response.ContextUserEmail),
			"role":  c.GetString(response.ContextUserRole),
		})
	}
	r.GET("/private", auth.RequireAuth(), whoami)
	r.GET("/optional", auth.OptionalAuth(), whoami)
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), whoami)
	r.DELETE("/posts/:postId", auth.RequireAuth(), RequirePostOwnerOrAdmin(owners), whoami)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r, tokens
}

func do(r http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body["message"]
}

func sign(t *testing.T, tokens *token.Manager, email, role string) string {
	t.Helper()
	signed, _, err := tokens.Generate(email, role)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestRequireAuth(t *testing.T) {
	r, tokens := newRouter(t)

	w := do(r, http.MethodGet, "/private", "")
	if w.Code != http.StatusUnauthorized || message(t, w) != "Unauthorized request" {
		t.Fatalf("missing token: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/private", "not-a-jwt")
	if w.Code != http.StatusUnauthorized || message(t, w) != "Invalid token" {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/private", sign(t, tokens, "gone@school.org", entity.RoleApproved))
	if w.Code != http.StatusUnauthorized || message(t, w) != "No user found with this email" {
		t.Fatalf("deleted user: %d %s", w.Code, w.Body.String())
	}

	// The stored role wins over a stale claim.
	w = do(r, http.MethodGet, "/private", sign(t, tokens, "member@school.org", entity.RolePending))
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: %d %s", w.Code, w.Body.String())
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["email"] != "member@school.org" || body["role"] != entity.RoleApproved {
		t.Fatalf("unexpected identity %v", body)
	}

	w = do(r, http.MethodGet, "/private?token="+sign(t, tokens, "member@school.org", entity.RoleApproved), "")
	if w.Code != http.StatusOK {
		t.Fatalf("query token: %d %s", w.Code, w.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	r, tokens := newRouter(t)

	w := do(r, http.MethodGet, "/optional", "")
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous: %d", w.Code)
	}

	w = do(r, http.MethodGet, "/optional", sign(t, tokens, "member@school.org", entity.RoleApproved))
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["email"] != "member@school.org" {
		t.Fatalf("expected identified caller, got %v", body)
	}

	w = do(r, http.MethodGet, "/optional", "garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token must still be rejected, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, tokens := newRouter(t)

	w := do(r, http.MethodGet, "/admin", sign(t, tokens, "member@school.org", entity.RoleAdmin))
	if w.Code != http.StatusForbidden {
		t.Fatalf("member with forged admin claim: %d", w.Code)
	}

	w = do(r, http.MethodGet, "/admin", sign(t, tokens, "admin@school.org", entity.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("admin: %d", w.Code)
	}
}

func TestRequirePostOwnerOrAdmin(t *testing.T) {
	r, tokens := newRouter(t)
	member := sign(t, tokens, "member@school.org", entity.RoleApproved)
	admin := sign(t, tokens, "admin@school.org", entity.RoleAdmin)

	cases := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{"owner", "/posts/7", member, http.StatusOK},
		{"admin", "/posts/7", admin, http.StatusOK},
		{"missing", "/posts/8", member, http.StatusNotFound},
		{"invalid id", "/posts/abc", member, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(r, http.MethodDelete, tc.path, tc.bearer); w.Code != tc.want {
				t.Fatalf("got %d want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}

	owners := fakeOwners{9: "someone@school.org"}
	r2 := gin.New()
	r2.DELETE("/posts/:postId", func(c *gin.Context) {
		c.Set(response.ContextUserEmail, "member@school.org")
		c.Set(response.ContextUserRole, entity.RoleApproved)
	}, RequirePostOwnerOrAdmin(owners), func(c *gin.Context) { c.Status(http.StatusOK) })
	if w := do(r2, http.MethodDelete, "/posts/9", ""); w.Code != http.StatusForbidden {
		t.Fatalf("non-owner: %d", w.Code)
	}
}

func TestRecoveryKeepsServing(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError || message(t, w) != "Server error, try again" {
		t.Fatalf("panic: %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodGet, "/optional", ""); w.Code != http.StatusOK {
		t.Fatalf("server stopped serving after panic: %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/login", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/login", "")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", w.Code)
	}
	if !strings.HasPrefix(message(t, w), "Too many requests") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
