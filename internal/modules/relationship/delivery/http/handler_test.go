package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/repository"
	relationship "github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/service"
	"github.com/Justin66666/teachersLoungeBE/internal/testutil"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &entity.Friend{}, &entity.Mute{}, &entity.Block{})
	testutil.CreateUser(t, db, "a@x.com", "A", "User")
	testutil.CreateUser(t, db, "b@x.com", "B", "User")
	h := NewRelationshipHandler(relationship.NewRelationshipService(repository.NewRelationshipRepository(db)))

	r := gin.New()
	// Stand-in for RequireAuth: the caller is named by a test header.
	r.Use(func(c *gin.Context) {
		c.Set(response.ContextUserEmail, c.GetHeader("X-Test-User"))
		c.Set(response.ContextUserRole, entity.RoleApproved)
	})
	r.POST("/friendUser", h.FriendUser)
	r.POST("/blockUser", h.BlockUser)
	r.GET("/getPendingFriendRequests", h.GetPendingFriendRequests)
	return r
}

func send(r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFriendUserEndpoint(t *testing.T) {
	r := newRouter(t)

	w := send(r, http.MethodPost, "/friendUser", "a@x.com", gin.H{"frienderEmail": "a@x.com", "friendeeEmail": "b@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first friend: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/friendUser", "a@x.com", gin.H{"friendeeEmail": "b@x.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate friend: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/friendUser", "a@x.com", gin.H{"frienderEmail": "b@x.com", "friendeeEmail": "a@x.com"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("acting for someone else: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/getPendingFriendRequests?userEmail=b@x.com", "b@x.com", nil)
	var body struct {
		Data []struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Email != "a@x.com" {
		t.Fatalf("unexpected pending list %s", w.Body.String())
	}
}

func TestFriendUserBlocked(t *testing.T) {
	r := newRouter(t)

	w := send(r, http.MethodPost, "/blockUser", "b@x.com", gin.H{"blockeeEmail": "a@x.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/friendUser", "a@x.com", gin.H{"friendeeEmail": "b@x.com"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when blocked, got %d %s", w.Code, w.Body.String())
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Cannot friend user" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}
