package comment

import (
	"context"
	"errors"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

type CommentService interface {
	Add(ctx context.Context, email string, req dto.AddCommentRequest) (*entity.Comment, error)
	FindByAuthorAndContent(ctx context.Context, email, content string) ([]dto.CommentRow, error)
	GetByID(ctx context.Context, id uint) (*dto.CommentRow, error)
	ListByPost(ctx context.Context, postID uint, viewer string) ([]dto.CommentRow, error)
	// Update changes a comment's content; only its author or an admin may do so.
	Update(ctx context.Context, editor string, isAdmin bool, req dto.UpdateCommentRequest) error
	Delete(ctx context.Context, id uint) error
}

type commentService struct {
	repo      repository.CommentRepository
	sanitizer *sanitize.Sanitizer
	now       func() time.Time
}

func NewCommentService(repo repository.CommentRepository, sanitizer *sanitize.Sanitizer) CommentService {
	return &commentService{repo: repo, sanitizer: sanitizer, now: time.Now}
}

func (s *commentService) Add(ctx context.Context, email string, req dto.AddCommentRequest) (*entity.Comment, error) {
	content := s.sanitizer.Content(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("Comment content is required")
	}

	exists, err := s.repo.PostExists(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Post not found")
	}

	at := req.Time
	if at.IsZero() {
		at = s.now()
	}

	comment := &entity.Comment{
		Content: content,
		Email:   email,
		Time:    at,
		PostID:  req.PostID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) FindByAuthorAndContent(ctx context.Context, email, content string) ([]dto.CommentRow, error) {
	return s.repo.FindByAuthorAndContent(ctx, entity.NormalizeEmail(email), content)
}

func (s *commentService) GetByID(ctx context.Context, id uint) (*dto.CommentRow, error) {
	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("Comment not found")
	}
	return row, err
}

func (s *commentService) ListByPost(ctx context.Context, postID uint, viewer string) ([]dto.CommentRow, error) {
	return s.repo.ListByPost(ctx, postID, entity.NormalizeEmail(viewer))
}

func (s *commentService) Update(ctx context.Context, editor string, isAdmin bool, req dto.UpdateCommentRequest) error {
	owner, err := s.repo.OwnerOf(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Comment not found")
		}
		return err
	}
	if owner != editor && !isAdmin {
		return apperror.Forbidden("You can only modify your own comments")
	}

	content := s.sanitizer.Content(req.Content)
	if content == "" {
		return apperror.BadRequest("Comment content is required")
	}
	return s.repo.UpdateContent(ctx, req.CommentID, content)
}

func (s *commentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Comment not found")
		}
		return err
	}
	return nil
}
