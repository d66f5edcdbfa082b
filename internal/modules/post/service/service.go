package post

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
	"github.com/Justin66666/teachersLoungeBE/pkg/storage"
)

// Author identifies the account creating a post.
type Author struct {
	Email string
	Role  string
}

type PostService interface {
	CreatePost(ctx context.Context, author Author, req dto.CreatePostRequest) (*entity.Post, error)
	CreateCommunityPost(ctx context.Context, author Author, req dto.CreateCommunityPostRequest) (*entity.Post, error)
	ListApproved(ctx context.Context, viewer string) ([]dto.PostRow, error)
	ListApprovedByAuthor(ctx context.Context, author, viewer string) ([]dto.PostRow, error)
	ListCommunityApproved(ctx context.Context, communityID uint, viewer string) ([]dto.PostRow, error)
	ListPending(ctx context.Context) ([]dto.PostRow, error)
	ListByAuthor(ctx context.Context, author string) ([]dto.PostRow, error)
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error

	Like(ctx context.Context, postID uint, email string) error
	Unlike(ctx context.Context, postID uint, email string) error
	CountLikes(ctx context.Context, postID uint) (int64, error)
	HasLiked(ctx context.Context, postID uint, email string) (bool, error)
}

type postService struct {
	repo      repository.PostRepository
	files     storage.FileStorage
	sanitizer *sanitize.Sanitizer
}

// NewPostService wires post persistence. files may be nil, in which case attachments are never removed.
func NewPostService(repo repository.PostRepository, files storage.FileStorage, sanitizer *sanitize.Sanitizer) PostService {
	return &postService{
		repo:      repo,
		files:     files,
		sanitizer: sanitizer,
	}
}

func (s *postService) CreatePost(ctx context.Context, author Author, req dto.CreatePostRequest) (*entity.Post, error) {
	if req.IsCommunityPost && (req.CommunityID == nil || *req.CommunityID == 0) {
		return nil, apperror.BadRequest("Community ID is required for community posts.")
	}

	approved := entity.PostApproved
	if req.Approved != nil {
		approved = *req.Approved
	}

	return s.create(ctx, author, &entity.Post{
		Title:           req.Title,
		Content:         req.Content,
		FileURL:         req.FileURL,
		FileDisplayName: req.FileDisplayName,
		FileType:        req.FileType,
		Approved:        approved,
		CommunityID:     req.CommunityID,
	})
}

func (s *postService) CreateCommunityPost(ctx context.Context, author Author, req dto.CreateCommunityPostRequest) (*entity.Post, error) {
	communityID := req.CommunityID
	return s.create(ctx, author, &entity.Post{
		Title:           req.Title,
		Content:         req.Content,
		FileURL:         req.FileURL,
		FileDisplayName: req.FileDisplayName,
		FileType:        req.FileType,
		Approved:        entity.PostApproved,
		CommunityID:     &communityID,
	})
}

// create sanitizes and stores a post. Accounts still awaiting approval always post into moderation.
func (s *postService) create(ctx context.Context, author Author, post *entity.Post) (*entity.Post, error) {
	post.Email = author.Email
	post.Title = s.sanitizer.Plain(post.Title)
	post.Content = s.sanitizer.Content(post.Content)
	post.FileDisplayName = s.sanitizer.Plain(post.FileDisplayName)
	if post.Content == "" && post.FileURL == nil {
		return nil, apperror.BadRequest("Post content is required")
	}
	if post.FileURL != nil && strings.TrimSpace(*post.FileURL) == "" {
		post.FileURL = nil
	}

	if author.Role == entity.RolePending || author.Role == entity.RoleGuest {
		post.Approved = entity.PostPending
	}

	if post.CommunityID != nil {
		exists, err := s.repo.CommunityExists(ctx, *post.CommunityID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.NotFound("Community not found")
		}
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) ListApproved(ctx context.Context, viewer string) ([]dto.PostRow, error) {
	return s.repo.ListApproved(ctx, entity.NormalizeEmail(viewer))
}

func (s *postService) ListApprovedByAuthor(ctx context.Context, author, viewer string) ([]dto.PostRow, error) {
	author = entity.NormalizeEmail(author)
	if author == "" {
		return nil, apperror.BadRequest("Username is required")
	}
	return s.repo.ListApprovedByAuthor(ctx, author, entity.NormalizeEmail(viewer))
}

func (s *postService) ListCommunityApproved(ctx context.Context, communityID uint, viewer string) ([]dto.PostRow, error) {
	if communityID == 0 {
		return nil, apperror.BadRequest("Community ID is required")
	}
	return s.repo.ListCommunityApproved(ctx, communityID, entity.NormalizeEmail(viewer))
}

func (s *postService) ListPending(ctx context.Context) ([]dto.PostRow, error) {
	return s.repo.ListPending(ctx)
}

func (s *postService) ListByAuthor(ctx context.Context, author string) ([]dto.PostRow, error) {
	return s.repo.ListByAuthor(ctx, entity.NormalizeEmail(author))
}

func (s *postService) Approve(ctx context.Context, id uint) error {
	if err := s.repo.Approve(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return err
	}
	return nil
}

// Delete removes the post rows first; a failure to remove the stored file is only logged.
func (s *postService) Delete(ctx context.Context, id uint) error {
	post, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return err
	}

	if post.FileURL != nil && *post.FileURL != "" && s.files != nil {
		if err := s.files.Delete(ctx, *post.FileURL); err != nil {
			log.Printf("Failed to delete file for post %d: %v", id, err)
		}
	}
	return nil
}

func (s *postService) Like(ctx context.Context, postID uint, email string) error {
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return err
	}

	if err := s.repo.Like(ctx, postID, email); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return apperror.Conflict("You've already liked this post!")
		}
		return err
	}
	return nil
}

func (s *postService) Unlike(ctx context.Context, postID uint, email string) error {
	if err := s.repo.Unlike(ctx, postID, email); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("You have not liked this post yet!")
		}
		return err
	}
	return nil
}

func (s *postService) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.repo.CountLikes(ctx, postID)
}

func (s *postService) HasLiked(ctx context.Context, postID uint, email string) (bool, error) {
	return s.repo.HasLiked(ctx, postID, email)
}
