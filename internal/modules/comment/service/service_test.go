package comment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/repository"
	"github.com/Justin66666/teachersLoungeBE/internal/testutil"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
	"gorm.io/gorm"
)

func setup(t *testing.T) (CommentService, *gorm.DB, uint) {
	t.Helper()
	db := testutil.NewDB(t, &entity.Post{}, &entity.Comment{}, &entity.Mute{})
	testutil.CreateUser(t, db, "a@x.com", "Ann", "A")
	testutil.CreateUser(t, db, "b@x.com", "Bob", "B")

	post := entity.Post{Content: "post", Email: "a@x.com", Approved: entity.PostApproved}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return NewCommentService(repository.NewCommentRepository(db), sanitize.New()), db, post.ID
}

func TestAddAndListFiltersMutedAuthors(t *testing.T) {
	svc, db, postID := setup(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "a@x.com", dto.AddCommentRequest{Content: "first", PostID: postID}); err != nil {
		t.Fatalf("add: %v", err)
	}
	created, err := svc.Add(ctx, "b@x.com", dto.AddCommentRequest{Content: "second<script>x</script>", PostID: postID})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.Content != "second" || created.Time.IsZero() {
		t.Fatalf("unexpected comment %+v", created)
	}

	rows, err := svc.ListByPost(ctx, postID, "")
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected two comments, got %v %v", rows, err)
	}
	if rows[0].FirstName != "Ann" || rows[1].FirstName != "Bob" {
		t.Fatalf("expected oldest first with authors joined, got %+v", rows)
	}

	db.Create(&entity.Mute{Muter: "a@x.com", Mutee: "b@x.com"})
	rows, _ = svc.ListByPost(ctx, postID, "a@x.com")
	if len(rows) != 1 || rows[0].Email != "a@x.com" {
		t.Fatalf("muted author still listed: %+v", rows)
	}
	rows, _ = svc.ListByPost(ctx, postID, "b@x.com")
	if len(rows) != 2 {
		t.Fatalf("mute must be one-directional, got %d rows", len(rows))
	}
}

func TestAddRejectsMissingPost(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Add(context.Background(), "a@x.com", dto.AddCommentRequest{Content: "x", PostID: 404})
	if apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUpdateRequiresOwnerOrAdmin(t *testing.T) {
	svc, _, postID := setup(t)
	ctx := context.Background()

	when := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c, _ := svc.Add(ctx, "a@x.com", dto.AddCommentRequest{Content: "draft", PostID: postID, Time: when})

	err := svc.Update(ctx, "b@x.com", false, dto.UpdateCommentRequest{CommentID: c.ID, Content: "hijack"})
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if err := svc.Update(ctx, "a@x.com", false, dto.UpdateCommentRequest{CommentID: c.ID, Content: "final"}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if err := svc.Update(ctx, "b@x.com", true, dto.UpdateCommentRequest{CommentID: c.ID, Content: "moderated"}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	row, err := svc.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Content != "moderated" || !row.Time.Equal(when) {
		t.Fatalf("unexpected row %+v", row)
	}

	err = svc.Update(ctx, "a@x.com", false, dto.UpdateCommentRequest{CommentID: 999, Content: "x"})
	if apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _, postID := setup(t)
	ctx := context.Background()

	c, _ := svc.Add(ctx, "a@x.com", dto.AddCommentRequest{Content: "bye", PostID: postID})
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, c.ID); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
	if err := svc.Delete(ctx, c.ID); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
}
