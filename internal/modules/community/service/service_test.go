package community

import (
	"context"
	"net/http"
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/community/repository"
	"github.com/Justin66666/teachersLoungeBE/internal/testutil"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

func newService(t *testing.T) CommunityService {
	t.Helper()
	db := testutil.NewDB(t, &entity.Community{}, &entity.CommunityMember{})
	testutil.CreateUser(t, db, "a@x.com", "A", "User")
	return NewCommunityService(repository.NewCommunityRepository(db), sanitize.New())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Science  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Science" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}

	_, err = svc.Create(ctx, "Science")
	if apperror.MapErrorToStatus(err) != http.StatusConflict || err.Error() != "Community already exists!" {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := svc.Create(ctx, "   "); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %v", err)
	}
}

func TestMembership(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	math, _ := svc.Create(ctx, "Math")
	art, _ := svc.Create(ctx, "Art")

	if err := svc.Join(ctx, math.ID, "a@x.com"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.Join(ctx, art.ID, "a@x.com"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.Join(ctx, math.ID, "a@x.com"); apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409 on rejoin, got %v", err)
	}
	if err := svc.Join(ctx, 99, "a@x.com"); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown community, got %v", err)
	}

	mine, err := svc.ListForUser(ctx, "A@x.com")
	if err != nil || len(mine) != 2 || mine[0].Name != "Art" {
		t.Fatalf("unexpected communities %+v %v", mine, err)
	}

	if err := svc.Leave(ctx, math.ID, "a@x.com"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	err = svc.Leave(ctx, math.ID, "a@x.com")
	if apperror.MapErrorToStatus(err) != http.StatusNotFound || err.Error() != "User not found in community" {
		t.Fatalf("expected 404 on second leave, got %v", err)
	}

	name, err := svc.Name(ctx, art.ID)
	if err != nil || name != "Art" {
		t.Fatalf("name: %q %v", name, err)
	}
}
