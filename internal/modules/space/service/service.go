package space

import (
	"context"
	"errors"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

const (
	invitableLimit    = 50
	invitableSearch   = 20
	minSearchQueryLen = 2
)

// SpaceService enforces space membership and admin rights on every call; nothing is cached.
type SpaceService interface {
	Create(ctx context.Context, creator string, req dto.CreateSpaceRequest) (*entity.PrivateSpace, error)
	ListForUser(ctx context.Context, email string) ([]dto.SpaceSummary, error)
	Details(ctx context.Context, email string, spaceID uint) (*dto.SpaceDetailsResponse, error)
	Members(ctx context.Context, email string, spaceID uint) ([]dto.SpaceMemberRow, error)
	RemoveMember(ctx context.Context, email string, spaceID uint, member string) error
	Dissolve(ctx context.Context, email string, spaceID uint) error

	Invite(ctx context.Context, inviter string, spaceID uint, invitee string) (*entity.PrivateSpaceInvitation, error)
	Accept(ctx context.Context, invitee string, invitationID uint) (uint, error)
	Decline(ctx context.Context, invitee string, invitationID uint) error
	PendingInvitations(ctx context.Context, invitee string) ([]dto.InvitationRow, error)
	InvitableUsers(ctx context.Context, email string, spaceID uint) ([]dto.InvitableUser, error)
	SearchInvitableUsers(ctx context.Context, email string, spaceID uint, query string) ([]dto.InvitableUser, error)

	CreatePost(ctx context.Context, email string, spaceID uint, req dto.CreateSpacePostRequest) (*entity.PrivateSpacePost, error)
	Posts(ctx context.Context, email string, spaceID uint, page commonDto.PageQuery) (*dto.SpacePostsResponse, error)
	DeletePost(ctx context.Context, email string, postID uint) error
	AddComment(ctx context.Context, email string, postID uint, content string) (*entity.PrivateSpacePostComment, error)
	Comments(ctx context.Context, email string, postID uint) ([]dto.SpaceCommentRow, error)
}

type spaceService struct {
	repo      repository.SpaceRepository
	sanitizer *sanitize.Sanitizer
}

func NewSpaceService(repo repository.SpaceRepository, sanitizer *sanitize.Sanitizer) SpaceService {
	return &spaceService{repo: repo, sanitizer: sanitizer}
}

// requireMember returns the caller's role, or a Forbidden error carrying message.
func (s *spaceService) requireMember(ctx context.Context, spaceID uint, email, message string) (string, error) {
	role, err := s.repo.MemberRole(ctx, spaceID, entity.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", apperror.Forbidden(message)
	}
	return role, nil
}

func (s *spaceService) requireAdmin(ctx context.Context, spaceID uint, email, message string) error {
	role, err := s.requireMember(ctx, spaceID, email, message)
	if err != nil {
		return err
	}
	if role != entity.SpaceRoleAdmin {
		return apperror.Forbidden(message)
	}
	return nil
}

func (s *spaceService) Create(ctx context.Context, creator string, req dto.CreateSpaceRequest) (*entity.PrivateSpace, error) {
	name := strings.TrimSpace(s.sanitizer.Plain(req.Name))
	if name == "" {
		return nil, apperror.BadRequest("Space name is required")
	}

	space := &entity.PrivateSpace{
		Name:         name,
		Description:  s.sanitizer.Plain(req.Description),
		AvatarURL:    req.AvatarURL,
		CreatorEmail: entity.NormalizeEmail(creator),
	}
	if err := s.repo.CreateWithCreator(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *spaceService) ListForUser(ctx context.Context, email string) ([]dto.SpaceSummary, error) {
	return s.repo.ListForUser(ctx, entity.NormalizeEmail(email))
}

func (s *spaceService) Details(ctx context.Context, email string, spaceID uint) (*dto.SpaceDetailsResponse, error) {
	role, err := s.requireMember(ctx, spaceID, email, "Access denied. You are not a member of this space.")
	if err != nil {
		return nil, err
	}

	details, err := s.repo.Details(ctx, spaceID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Private space not found")
		}
		return nil, err
	}
	return &dto.SpaceDetailsResponse{Space: details, UserRole: role}, nil
}

func (s *spaceService) Members(ctx context.Context, email string, spaceID uint) ([]dto.SpaceMemberRow, error) {
	if _, err := s.requireMember(ctx, spaceID, email, "Only members can view member list"); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, spaceID)
}

func (s *spaceService) RemoveMember(ctx context.Context, email string, spaceID uint, member string) error {
	if err := s.requireAdmin(ctx, spaceID, email, "Only admins can remove members"); err != nil {
		return err
	}

	space, err := s.repo.FindByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Private space not found")
		}
		return err
	}

	member = entity.NormalizeEmail(member)
	if member == space.CreatorEmail {
		return apperror.BadRequest("Cannot remove the space creator")
	}

	if err := s.repo.RemoveMember(ctx, spaceID, member); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Member not found")
		}
		return err
	}
	return nil
}

func (s *spaceService) Dissolve(ctx context.Context, email string, spaceID uint) error {
	if err := s.requireAdmin(ctx, spaceID, email, "Only admins can dissolve private spaces"); err != nil {
		return err
	}
	if err := s.repo.Dissolve(ctx, spaceID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Private space not found")
		}
		return err
	}
	return nil
}

func (s *spaceService) Invite(ctx context.Context, inviter string, spaceID uint, invitee string) (*entity.PrivateSpaceInvitation, error) {
	if err := s.requireAdmin(ctx, spaceID, inviter, "Only admins can invite members"); err != nil {
		return nil, err
	}

	invitee = entity.NormalizeEmail(invitee)
	exists, err := s.repo.UserExists(ctx, invitee)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("User not found")
	}

	role, err := s.repo.MemberRole(ctx, spaceID, invitee)
	if err != nil {
		return nil, err
	}
	if role != "" {
		return nil, apperror.Conflict("User is already a member")
	}

	pending, err := s.repo.HasPendingInvitation(ctx, spaceID, invitee)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.Conflict("User already has a pending invitation")
	}

	invitation := &entity.PrivateSpaceInvitation{
		SpaceID:      spaceID,
		InviterEmail: entity.NormalizeEmail(inviter),
		InviteeEmail: invitee,
		Status:       entity.InvitationPending,
	}
	if err := s.repo.CreateInvitation(ctx, invitation); err != nil {
		// the partial unique index catches a concurrent duplicate
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("User already has a pending invitation")
		}
		return nil, err
	}
	return invitation, nil
}

func (s *spaceService) Accept(ctx context.Context, invitee string, invitationID uint) (uint, error) {
	invitation, err := s.repo.FindPendingInvitation(ctx, invitationID, entity.NormalizeEmail(invitee))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, apperror.NotFound("Invalid or expired invitation")
		}
		return 0, err
	}

	if err := s.repo.AcceptInvitation(ctx, invitation); err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			return 0, apperror.Conflict("User is already a member")
		case errors.Is(err, apperror.ErrNotFound):
			return 0, apperror.NotFound("Invalid or expired invitation")
		}
		return 0, err
	}
	return invitation.SpaceID, nil
}

func (s *spaceService) Decline(ctx context.Context, invitee string, invitationID uint) error {
	if err := s.repo.DeclineInvitation(ctx, invitationID, entity.NormalizeEmail(invitee)); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Invalid or expired invitation")
		}
		return err
	}
	return nil
}

func (s *spaceService) PendingInvitations(ctx context.Context, invitee string) ([]dto.InvitationRow, error) {
	return s.repo.PendingInvitations(ctx, entity.NormalizeEmail(invitee))
}

func (s *spaceService) InvitableUsers(ctx context.Context, email string, spaceID uint) ([]dto.InvitableUser, error) {
	if err := s.requireAdmin(ctx, spaceID, email, "Only admins can view invitable users"); err != nil {
		return nil, err
	}
	return s.repo.InvitableUsers(ctx, spaceID, "", invitableLimit)
}

func (s *spaceService) SearchInvitableUsers(ctx context.Context, email string, spaceID uint, query string) ([]dto.InvitableUser, error) {
	if err := s.requireAdmin(ctx, spaceID, email, "Only admins can search users"); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLen {
		return nil, apperror.BadRequest("Search query must be at least 2 characters")
	}
	return s.repo.InvitableUsers(ctx, spaceID, query, invitableSearch)
}

func (s *spaceService) CreatePost(ctx context.Context, email string, spaceID uint, req dto.CreateSpacePostRequest) (*entity.PrivateSpacePost, error) {
	if _, err := s.requireMember(ctx, spaceID, email, "Only members can post in this space"); err != nil {
		return nil, err
	}

	content := s.sanitizer.Content(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("Post content is required")
	}

	post := &entity.PrivateSpacePost{
		SpaceID: spaceID,
		Email:   entity.NormalizeEmail(email),
		Content: content,
		FileURL: req.FileURL,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *spaceService) Posts(ctx context.Context, email string, spaceID uint, page commonDto.PageQuery) (*dto.SpacePostsResponse, error) {
	if _, err := s.requireMember(ctx, spaceID, email, "Only members can view posts"); err != nil {
		return nil, err
	}

	offset := page.Normalize()
	posts, err := s.repo.ListPosts(ctx, spaceID, page.Limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.SpacePostsResponse{Posts: posts, Page: page.Page, Limit: page.Limit}, nil
}

// DeletePost allows the post's author or an admin of its space.
func (s *spaceService) DeletePost(ctx context.Context, email string, postID uint) error {
	post, err := s.repo.FindPost(ctx, postID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("Post not found or access denied")
	}
	if err != nil {
		return err
	}

	role, err := s.repo.MemberRole(ctx, post.SpaceID, entity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if role == "" {
		return apperror.NotFound("Post not found or access denied")
	}
	if post.Email != entity.NormalizeEmail(email) && role != entity.SpaceRoleAdmin {
		return apperror.Forbidden("You can only delete your own posts")
	}

	return s.repo.DeletePost(ctx, postID)
}

// postAccess checks that the post exists and email belongs to its space.
func (s *spaceService) postAccess(ctx context.Context, email string, postID uint) error {
	post, err := s.repo.FindPost(ctx, postID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Forbidden("Access denied")
	}
	if err != nil {
		return err
	}
	_, err = s.requireMember(ctx, post.SpaceID, email, "Access denied")
	return err
}

func (s *spaceService) AddComment(ctx context.Context, email string, postID uint, content string) (*entity.PrivateSpacePostComment, error) {
	if err := s.postAccess(ctx, email, postID); err != nil {
		return nil, err
	}

	content = s.sanitizer.Content(content)
	if content == "" {
		return nil, apperror.BadRequest("Comment content is required")
	}

	comment := &entity.PrivateSpacePostComment{
		PostID:  postID,
		Email:   entity.NormalizeEmail(email),
		Content: content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *spaceService) Comments(ctx context.Context, email string, postID uint) ([]dto.SpaceCommentRow, error) {
	if err := s.postAccess(ctx, email, postID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID)
}
