package repository

import (
	"context"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"gorm.io/gorm"
)

type CommunityRepository interface {
	Create(ctx context.Context, community *entity.Community) error
	FindAll(ctx context.Context) ([]entity.Community, error)
	FindByID(ctx context.Context, id uint) (*entity.Community, error)
	AddMember(ctx context.Context, communityID uint, email string) error
	RemoveMember(ctx context.Context, communityID uint, email string) error
	FindByMember(ctx context.Context, email string) ([]entity.Community, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// Create relies on the unique name index; a duplicate surfaces as apperror.ErrConflict.
func (r *communityRepository) Create(ctx context.Context, community *entity.Community) error {
	return database.MapError(r.db.WithContext(ctx).Create(community).Error)
}

func (r *communityRepository) FindAll(ctx context.Context) ([]entity.Community, error) {
	communities := []entity.Community{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&communities).Error
	return communities, err
}

func (r *communityRepository) FindByID(ctx context.Context, id uint) (*entity.Community, error) {
	var community entity.Community
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&community).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &community, nil
}

func (r *communityRepository) AddMember(ctx context.Context, communityID uint, email string) error {
	member := entity.CommunityMember{CommunityID: communityID, Email: email}
	return database.MapError(r.db.WithContext(ctx).Create(&member).Error)
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID uint, email string) error {
	res := r.db.WithContext(ctx).
		Where("community_id = ? AND email = ?", communityID, email).
		Delete(&entity.CommunityMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *communityRepository) FindByMember(ctx context.Context, email string) ([]entity.Community, error) {
	communities := []entity.Community{}
	err := r.db.WithContext(ctx).
		Joins("JOIN community_members cm ON cm.community_id = communities.id").
		Where("cm.email = ?", email).
		Order("communities.name ASC").
		Find(&communities).Error
	return communities, err
}
