package repository

import (
	"context"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uint) (*dto.CommentRow, error)
	OwnerOf(ctx context.Context, id uint) (string, error)
	FindByAuthorAndContent(ctx context.Context, email, content string) ([]dto.CommentRow, error)
	ListByPost(ctx context.Context, postID uint, viewer string) ([]dto.CommentRow, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
	PostExists(ctx context.Context, postID uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return database.MapError(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments AS c").
		Select(`c.id AS comment_id, c.content, c.email, c.time, c.post_id, c.created_at,
			u.first_name, u.last_name, u.profile_pic_link`).
		Joins("LEFT JOIN users u ON u.email = c.email")
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*dto.CommentRow, error) {
	var rows []dto.CommentRow
	if err := r.rows(ctx).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.MapError(gorm.ErrRecordNotFound)
	}
	return &rows[0], nil
}

func (r *commentRepository) OwnerOf(ctx context.Context, id uint) (string, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Select("email").Where("id = ?", id).First(&comment).Error; err != nil {
		return "", database.MapError(err)
	}
	return comment.Email, nil
}

func (r *commentRepository) FindByAuthorAndContent(ctx context.Context, email, content string) ([]dto.CommentRow, error) {
	rows := []dto.CommentRow{}
	err := r.rows(ctx).
		Where("c.email = ? AND c.content = ?", email, content).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByPost returns a post's comments oldest first, without those written by authors the viewer muted.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, viewer string) ([]dto.CommentRow, error) {
	rows := []dto.CommentRow{}
	q := r.rows(ctx).Where("c.post_id = ?", postID)
	if viewer != "" {
		q = q.Joins("LEFT JOIN mutes m ON m.muter = ? AND m.mutee = c.email", viewer).
			Where("m.muter IS NULL")
	}
	err := q.Order("c.created_at ASC, c.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *commentRepository) PostExists(ctx context.Context, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Post{}).Where("id = ?", postID).Count(&count).Error
	return count > 0, err
}
