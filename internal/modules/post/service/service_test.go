package post

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/repository"
	"github.com/Justin66666/teachersLoungeBE/internal/testutil"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
	"github.com/Justin66666/teachersLoungeBE/pkg/storage"
	"gorm.io/gorm"
)

type fakeFiles struct {
	deleted []string
	err     error
}

func (f *fakeFiles) Upload(context.Context, io.Reader, string, string) (*storage.StoredFile, error) {
	return nil, errors.New("not used")
}

func (f *fakeFiles) Delete(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return f.err
}

func newPostService(t *testing.T, files *fakeFiles) (PostService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &entity.Community{}, &entity.Post{}, &entity.PostLike{}, &entity.Comment{}, &entity.Mute{})
	for _, email := range []string{"a@x.com", "b@x.com", "viewer@x.com"} {
		testutil.CreateUser(t, db, email, email[:1], "User")
	}
	var fs storage.FileStorage
	if files != nil {
		fs = files
	}
	return NewPostService(repository.NewPostRepository(db), fs, sanitize.New()), db
}

var approved = Author{Role: entity.RoleApproved}

func as(email string) Author {
	a := approved
	a.Email = email
	return a
}

func postIDs(rows []dto.PostRow) []uint {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PostID)
	}
	return ids
}

func TestMutedAuthorsAreHidden(t *testing.T) {
	svc, db := newPostService(t, nil)
	ctx := context.Background()

	pa, err := svc.CreatePost(ctx, as("a@x.com"), dto.CreatePostRequest{Title: "From A", Content: "hello"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	pb, err := svc.CreatePost(ctx, as("b@x.com"), dto.CreatePostRequest{Title: "From B", Content: "hi"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	db.Create(&entity.Mute{Muter: "viewer@x.com", Mutee: "a@x.com"})

	rows, err := svc.ListApproved(ctx, "viewer@x.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := postIDs(rows); len(ids) != 1 || ids[0] != pb.ID {
		t.Fatalf("expected only b's post, got %v", ids)
	}

	rows, _ = svc.ListApproved(ctx, "")
	if len(rows) != 2 {
		t.Fatalf("anonymous listing should see both posts, got %v", postIDs(rows))
	}

	rows, _ = svc.ListApprovedByAuthor(ctx, "a@x.com", "viewer@x.com")
	if ids := postIDs(rows); len(ids) != 1 || ids[0] != pa.ID {
		t.Fatalf("profile listing is not mute-filtered, got %v", ids)
	}
}

func TestCountsAndViewerLike(t *testing.T) {
	svc, db := newPostService(t, nil)
	ctx := context.Background()

	p, _ := svc.CreatePost(ctx, as("a@x.com"), dto.CreatePostRequest{Content: "counted"})
	if err := svc.Like(ctx, p.ID, "b@x.com"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Like(ctx, p.ID, "viewer@x.com"); err != nil {
		t.Fatalf("like: %v", err)
	}
	db.Create(&entity.Comment{Content: "nice", Email: "b@x.com", PostID: p.ID})

	rows, err := svc.ListApproved(ctx, "viewer@x.com")
	if err != nil || len(rows) != 1 {
		t.Fatalf("list: %v %v", rows, err)
	}
	row := rows[0]
	if row.LikesCount != 2 || row.CommentsCount != 1 || !row.LikedByViewer || row.FirstName != "a" {
		t.Fatalf("unexpected row %+v", row)
	}

	if err := svc.Like(ctx, p.ID, "b@x.com"); apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409 on second like, got %v", err)
	}
	if err := svc.Like(ctx, 999, "b@x.com"); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 liking a missing post, got %v", err)
	}
	if err := svc.Unlike(ctx, p.ID, "a@x.com"); err == nil || err.Error() != "You have not liked this post yet!" {
		t.Fatalf("expected not-liked error, got %v", err)
	}
}

func TestModeration(t *testing.T) {
	svc, _ := newPostService(t, nil)
	ctx := context.Background()

	pending := Author{Email: "a@x.com", Role: entity.RolePending}
	p, err := svc.CreatePost(ctx, pending, dto.CreatePostRequest{Content: "needs review"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Approved != entity.PostPending {
		t.Fatalf("posts from pending accounts must await approval, got %d", p.Approved)
	}

	zero := entity.PostPending
	if _, err := svc.CreatePost(ctx, as("b@x.com"), dto.CreatePostRequest{Content: "draft", Approved: &zero}); err != nil {
		t.Fatalf("create explicit pending: %v", err)
	}

	queue, _ := svc.ListPending(ctx)
	if len(queue) != 2 {
		t.Fatalf("expected two pending posts, got %v", postIDs(queue))
	}
	listed, _ := svc.ListApproved(ctx, "")
	if len(listed) != 0 {
		t.Fatalf("pending posts must not be listed, got %v", postIDs(listed))
	}

	if err := svc.Approve(ctx, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	listed, _ = svc.ListApproved(ctx, "")
	if ids := postIDs(listed); len(ids) != 1 || ids[0] != p.ID {
		t.Fatalf("approved post not listed, got %v", ids)
	}
	if err := svc.Approve(ctx, 999); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCommunityPosts(t *testing.T) {
	svc, db := newPostService(t, nil)
	ctx := context.Background()
	community := entity.Community{Name: "Math"}
	db.Create(&community)

	_, err := svc.CreatePost(ctx, as("a@x.com"), dto.CreatePostRequest{Content: "x", IsCommunityPost: true})
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without community id, got %v", err)
	}
	if _, err := svc.CreateCommunityPost(ctx, as("a@x.com"), dto.CreateCommunityPostRequest{Content: "x", CommunityID: 42}); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown community, got %v", err)
	}

	p, err := svc.CreateCommunityPost(ctx, as("a@x.com"), dto.CreateCommunityPostRequest{Content: "<b>sum</b><script>x</script>", CommunityID: community.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Content != "<b>sum</b>" {
		t.Fatalf("content not sanitized: %q", p.Content)
	}
	if _, err := svc.CreatePost(ctx, as("b@x.com"), dto.CreatePostRequest{Content: "general"}); err != nil {
		t.Fatalf("create general: %v", err)
	}

	rows, err := svc.ListCommunityApproved(ctx, community.ID, "")
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one community post, got %v %v", postIDs(rows), err)
	}
	if rows[0].CommunityName == nil || *rows[0].CommunityName != "Math" {
		t.Fatalf("community name not joined: %+v", rows[0])
	}
}

func TestDeleteCascadesAndToleratesStorageFailure(t *testing.T) {
	files := &fakeFiles{err: errors.New("s3 unavailable")}
	svc, db := newPostService(t, files)
	ctx := context.Background()

	url := "https://bucket.s3.us-east-1.amazonaws.com/uploads/1-a.png"
	p, _ := svc.CreatePost(ctx, as("a@x.com"), dto.CreatePostRequest{Content: "with file", FileURL: &url})
	_ = svc.Like(ctx, p.ID, "b@x.com")
	db.Create(&entity.Comment{Content: "c", Email: "b@x.com", PostID: p.ID})

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete must succeed even when file removal fails: %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != url {
		t.Fatalf("expected file removal attempt, got %v", files.deleted)
	}

	var likes, comments, posts int64
	db.Model(&entity.PostLike{}).Count(&likes)
	db.Model(&entity.Comment{}).Count(&comments)
	db.Model(&entity.Post{}).Count(&posts)
	if likes+comments+posts != 0 {
		t.Fatalf("expected cascade, got likes=%d comments=%d posts=%d", likes, comments, posts)
	}

	if err := svc.Delete(ctx, p.ID); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
}
