package space

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/repository"
	"github.com/Justin66666/teachersLoungeBE/internal/testutil"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
	"gorm.io/gorm"
)

const (
	creator = "creator@x.com"
	user    = "user@x.com"
	other   = "other@x.com"
)

func setup(t *testing.T) (SpaceService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t,
		&entity.PrivateSpace{},
		&entity.PrivateSpaceMember{},
		&entity.PrivateSpaceInvitation{},
		&entity.PrivateSpacePost{},
		&entity.PrivateSpacePostComment{},
	)
	testutil.CreateUser(t, db, creator, "Cara", "Creator")
	testutil.CreateUser(t, db, user, "Uma", "User")
	testutil.CreateUser(t, db, other, "Otto", "Other")
	return NewSpaceService(repository.NewSpaceRepository(db), sanitize.New()), db
}

func status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return apperror.MapErrorToStatus(err)
}

func createSpace(t *testing.T, svc SpaceService) *entity.PrivateSpace {
	t.Helper()
	s, err := svc.Create(context.Background(), creator, dto.CreateSpaceRequest{Name: "Staff room", Description: "fourth floor"})
	if err != nil {
		t.Fatalf("create space: %v", err)
	}
	return s
}

func join(t *testing.T, svc SpaceService, spaceID uint, email string) {
	t.Helper()
	ctx := context.Background()
	inv, err := svc.Invite(ctx, creator, spaceID, email)
	if err != nil {
		t.Fatalf("invite %s: %v", email, err)
	}
	if _, err := svc.Accept(ctx, email, inv.InvitationID); err != nil {
		t.Fatalf("accept %s: %v", email, err)
	}
}

func TestInvitationLifecycle(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	s := createSpace(t, svc)

	inv, err := svc.Invite(ctx, creator, s.SpaceID, "USER@x.com")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	pending, _ := svc.PendingInvitations(ctx, user)
	if len(pending) != 1 || pending[0].SpaceName != "Staff room" || pending[0].InviterName != "Cara Creator" {
		t.Fatalf("unexpected pending invitations %+v", pending)
	}

	if _, err := svc.Accept(ctx, other, inv.InvitationID); status(err) != http.StatusNotFound {
		t.Fatalf("only the invitee may accept, got %v", err)
	}
	spaceID, err := svc.Accept(ctx, user, inv.InvitationID)
	if err != nil || spaceID != s.SpaceID {
		t.Fatalf("accept: %d %v", spaceID, err)
	}

	members, err := svc.Members(ctx, user, s.SpaceID)
	if err != nil || len(members) != 2 {
		t.Fatalf("members: %+v %v", members, err)
	}
	if members[0].Email != creator || members[0].Role != entity.SpaceRoleAdmin {
		t.Fatalf("creator should be listed first as admin: %+v", members[0])
	}
	if members[1].Email != user || members[1].Role != entity.SpaceRoleMember || members[1].Name != "Uma User" {
		t.Fatalf("unexpected member row %+v", members[1])
	}

	pending, _ = svc.PendingInvitations(ctx, user)
	if len(pending) != 0 {
		t.Fatalf("accepted invitation still pending: %+v", pending)
	}
	if _, err := svc.Accept(ctx, user, inv.InvitationID); status(err) != http.StatusNotFound {
		t.Fatalf("expected 404 accepting twice, got %v", err)
	}

	details, err := svc.Details(ctx, user, s.SpaceID)
	if err != nil || details.UserRole != entity.SpaceRoleMember || details.Space.MemberCount != 2 {
		t.Fatalf("details: %+v %v", details, err)
	}

	spaces, _ := svc.ListForUser(ctx, user)
	if len(spaces) != 1 || spaces[0].UserRole != entity.SpaceRoleMember || spaces[0].MemberCount != 2 {
		t.Fatalf("unexpected spaces %+v", spaces)
	}
}

func TestInviteConflictsAndDecline(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	s := createSpace(t, svc)

	inv, err := svc.Invite(ctx, creator, s.SpaceID, user)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := svc.Invite(ctx, creator, s.SpaceID, user); status(err) != http.StatusConflict {
		t.Fatalf("expected 409 for a second pending invitation, got %v", err)
	}
	if _, err := svc.Invite(ctx, creator, s.SpaceID, creator); status(err) != http.StatusConflict {
		t.Fatalf("expected 409 inviting a member, got %v", err)
	}
	if _, err := svc.Invite(ctx, creator, s.SpaceID, "ghost@x.com"); status(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %v", err)
	}

	invitable, _ := svc.InvitableUsers(ctx, creator, s.SpaceID)
	if len(invitable) != 1 || invitable[0].Email != other || invitable[0].SchoolName != "Unaffiliated" {
		t.Fatalf("pending invitees and members must be excluded: %+v", invitable)
	}

	if err := svc.Decline(ctx, user, inv.InvitationID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if err := svc.Decline(ctx, user, inv.InvitationID); status(err) != http.StatusNotFound {
		t.Fatalf("expected 404 declining twice, got %v", err)
	}

	if _, err := svc.Invite(ctx, creator, s.SpaceID, user); err != nil {
		t.Fatalf("re-invite after decline: %v", err)
	}

	found, err := svc.SearchInvitableUsers(ctx, creator, s.SpaceID, "ott")
	if err != nil || len(found) != 1 || found[0].Name != "Otto Other" {
		t.Fatalf("search: %+v %v", found, err)
	}
	if _, err := svc.SearchInvitableUsers(ctx, creator, s.SpaceID, " o "); status(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for a short query, got %v", err)
	}
}

func TestOnlyAdminsManageTheSpace(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	s := createSpace(t, svc)
	join(t, svc, s.SpaceID, user)

	if _, err := svc.Invite(ctx, user, s.SpaceID, other); status(err) != http.StatusForbidden {
		t.Fatalf("member invite: expected 403, got %v", err)
	}
	if err := svc.RemoveMember(ctx, user, s.SpaceID, creator); status(err) != http.StatusForbidden {
		t.Fatalf("member remove: expected 403, got %v", err)
	}
	if err := svc.Dissolve(ctx, user, s.SpaceID); status(err) != http.StatusForbidden {
		t.Fatalf("member dissolve: expected 403, got %v", err)
	}
	if _, err := svc.InvitableUsers(ctx, user, s.SpaceID); status(err) != http.StatusForbidden {
		t.Fatalf("member invitable list: expected 403, got %v", err)
	}
	if _, err := svc.Members(ctx, other, s.SpaceID); status(err) != http.StatusForbidden {
		t.Fatalf("outsider members list: expected 403, got %v", err)
	}

	if err := svc.RemoveMember(ctx, creator, s.SpaceID, creator); status(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 removing the creator, got %v", err)
	}
	if err := svc.RemoveMember(ctx, creator, s.SpaceID, other); status(err) != http.StatusNotFound {
		t.Fatalf("expected 404 removing a non-member, got %v", err)
	}
	if err := svc.RemoveMember(ctx, creator, s.SpaceID, user); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Members(ctx, user, s.SpaceID); status(err) != http.StatusForbidden {
		t.Fatalf("removed member keeps access: %v", err)
	}
}

func TestPostsCommentsAndPagination(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	s := createSpace(t, svc)
	join(t, svc, s.SpaceID, user)

	if _, err := svc.CreatePost(ctx, other, s.SpaceID, dto.CreateSpacePostRequest{Content: "hi"}); status(err) != http.StatusForbidden {
		t.Fatalf("outsider post: expected 403, got %v", err)
	}

	var posts []*entity.PrivateSpacePost
	for _, content := range []string{"one", "two", "three"} {
		p, err := svc.CreatePost(ctx, user, s.SpaceID, dto.CreateSpacePostRequest{Content: content})
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		posts = append(posts, p)
	}

	if _, err := svc.AddComment(ctx, creator, posts[0].PostID, "nice"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := svc.AddComment(ctx, other, posts[0].PostID, "let me in"); status(err) != http.StatusForbidden {
		t.Fatalf("outsider comment: expected 403, got %v", err)
	}
	comments, err := svc.Comments(ctx, user, posts[0].PostID)
	if err != nil || len(comments) != 1 || comments[0].AuthorName != "Cara Creator" {
		t.Fatalf("comments: %+v %v", comments, err)
	}

	page, err := svc.Posts(ctx, creator, s.SpaceID, commonDto.PageQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("posts: %v", err)
	}
	if page.Page != 2 || page.Limit != 2 || len(page.Posts) != 1 || page.Posts[0].Content != "one" {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Posts[0].CommentCount != 1 || page.Posts[0].AuthorName != "Uma User" {
		t.Fatalf("unexpected row %+v", page.Posts[0])
	}

	first, _ := svc.Posts(ctx, creator, s.SpaceID, commonDto.PageQuery{})
	if first.Page != 1 || first.Limit != 20 || len(first.Posts) != 3 || first.Posts[0].Content != "three" {
		t.Fatalf("defaults not applied: %+v", first)
	}

	if err := svc.DeletePost(ctx, other, posts[1].PostID); status(err) != http.StatusNotFound {
		t.Fatalf("outsider delete: expected 404, got %v", err)
	}
	join(t, svc, s.SpaceID, other)
	if err := svc.DeletePost(ctx, other, posts[1].PostID); status(err) != http.StatusForbidden {
		t.Fatalf("non-author member delete: expected 403, got %v", err)
	}
	if err := svc.DeletePost(ctx, creator, posts[0].PostID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.Comments(ctx, user, posts[0].PostID); status(err) != http.StatusForbidden {
		t.Fatalf("comments of a deleted post: expected 403, got %v", err)
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func seedContent(t *testing.T, svc SpaceService) *entity.PrivateSpace {
	t.Helper()
	ctx := context.Background()
	s := createSpace(t, svc)
	join(t, svc, s.SpaceID, user)
	if _, err := svc.Invite(ctx, creator, s.SpaceID, other); err != nil {
		t.Fatalf("invite: %v", err)
	}
	p, err := svc.CreatePost(ctx, user, s.SpaceID, dto.CreateSpacePostRequest{Content: "agenda"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := svc.AddComment(ctx, creator, p.PostID, "thanks"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	return s
}

func TestDissolveRemovesEverything(t *testing.T) {
	svc, db := setup(t)
	s := seedContent(t, svc)

	if err := svc.Dissolve(context.Background(), creator, s.SpaceID); err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	for _, model := range []any{
		&entity.PrivateSpace{}, &entity.PrivateSpaceMember{}, &entity.PrivateSpaceInvitation{},
		&entity.PrivateSpacePost{}, &entity.PrivateSpacePostComment{},
	} {
		if n := count(t, db, model); n != 0 {
			t.Fatalf("%T: %d rows left", model, n)
		}
	}
}

func TestDissolveRollsBackOnFailure(t *testing.T) {
	svc, db := setup(t)
	s := seedContent(t, svc)

	// Fail once posts, comments and invitations are already deleted.
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_members", func(tx *gorm.DB) {
		if tx.Statement.Table == "private_space_members" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if err := svc.Dissolve(context.Background(), creator, s.SpaceID); err == nil {
		t.Fatal("expected dissolve to fail")
	}

	want := map[string]int64{"spaces": 1, "members": 2, "invitations": 2, "posts": 1, "comments": 1}
	got := map[string]int64{
		"spaces":      count(t, db, &entity.PrivateSpace{}),
		"members":     count(t, db, &entity.PrivateSpaceMember{}),
		"invitations": count(t, db, &entity.PrivateSpaceInvitation{}),
		"posts":       count(t, db, &entity.PrivateSpacePost{}),
		"comments":    count(t, db, &entity.PrivateSpacePostComment{}),
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("partial dissolution: %s = %d, want %d", k, got[k], v)
		}
	}
}
