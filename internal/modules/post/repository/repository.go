package repository

import (
	"context"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	OwnerOf(ctx context.Context, id uint) (string, error)
	ListApproved(ctx context.Context, viewer string) ([]dto.PostRow, error)
	ListApprovedByAuthor(ctx context.Context, author, viewer string) ([]dto.PostRow, error)
	ListCommunityApproved(ctx context.Context, communityID uint, viewer string) ([]dto.PostRow, error)
	ListPending(ctx context.Context) ([]dto.PostRow, error)
	ListByAuthor(ctx context.Context, author string) ([]dto.PostRow, error)
	Approve(ctx context.Context, id uint) error
	// Delete removes the post with its likes and comments and returns the deleted row.
	Delete(ctx context.Context, id uint) (*entity.Post, error)
	CommunityExists(ctx context.Context, id uint) (bool, error)

	Like(ctx context.Context, postID uint, email string) error
	Unlike(ctx context.Context, postID uint, email string) error
	CountLikes(ctx context.Context, postID uint) (int64, error)
	HasLiked(ctx context.Context, postID uint, email string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return database.MapError(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &post, nil
}

func (r *postRepository) OwnerOf(ctx context.Context, id uint) (string, error) {
	post, err := r.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return post.Email, nil
}

const rowColumns = `p.id AS post_id, p.title, p.content, p.email, p.file_url, p.file_display_name,
	p.file_type, p.approved, p.community_id, p.created_at,
	c.name AS community_name, u.first_name, u.last_name, u.profile_pic_link,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comments_count,
	EXISTS (SELECT 1 FROM post_likes vl WHERE vl.post_id = p.id AND vl.email = ?) AS liked_by_viewer`

// rows builds the listing query. A non-empty viewer hides posts by authors the viewer muted.
func (r *postRepository) rows(ctx context.Context, viewer string, hideMuted bool) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("posts AS p").
		Select(rowColumns, viewer).
		Joins("LEFT JOIN communities c ON c.id = p.community_id").
		Joins("LEFT JOIN users u ON u.email = p.email")

	if hideMuted && viewer != "" {
		q = q.Joins("LEFT JOIN mutes m ON m.muter = ? AND m.mutee = p.email", viewer).
			Where("m.muter IS NULL")
	}
	return q.Order("p.created_at DESC, p.id DESC")
}

func (r *postRepository) ListApproved(ctx context.Context, viewer string) ([]dto.PostRow, error) {
	rows := []dto.PostRow{}
	err := r.rows(ctx, viewer, true).
		Where("p.approved = ?", entity.PostApproved).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListApprovedByAuthor(ctx context.Context, author, viewer string) ([]dto.PostRow, error) {
	rows := []dto.PostRow{}
	err := r.rows(ctx, viewer, false).
		Where("p.approved = ? AND p.email = ?", entity.PostApproved, author).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListCommunityApproved(ctx context.Context, communityID uint, viewer string) ([]dto.PostRow, error) {
	rows := []dto.PostRow{}
	err := r.rows(ctx, viewer, true).
		Where("p.approved = ? AND p.community_id = ?", entity.PostApproved, communityID).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListPending(ctx context.Context) ([]dto.PostRow, error) {
	rows := []dto.PostRow{}
	err := r.rows(ctx, "", false).
		Where("p.approved = ?", entity.PostPending).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, author string) ([]dto.PostRow, error) {
	rows := []dto.PostRow{}
	err := r.rows(ctx, author, false).
		Where("p.email = ?", author).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) Approve(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&entity.Post{}).Where("id = ?", id).Update("approved", entity.PostApproved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
			return database.MapError(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Post{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) CommunityExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Community{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Like(ctx context.Context, postID uint, email string) error {
	return database.MapError(r.db.WithContext(ctx).Create(&entity.PostLike{PostID: postID, Email: email}).Error)
}

func (r *postRepository) Unlike(ctx context.Context, postID uint, email string) error {
	res := r.db.WithContext(ctx).Where("post_id = ? AND email = ?", postID, email).Delete(&entity.PostLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *postRepository) HasLiked(ctx context.Context, postID uint, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PostLike{}).
		Where("post_id = ? AND email = ?", postID, email).
		Count(&count).Error
	return count > 0, err
}
