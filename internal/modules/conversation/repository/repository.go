package repository

import (
	"context"
	"errors"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	// Create fails with apperror.ErrConflict when a conversation with the same member set exists.
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindByID(ctx context.Context, id uint) (*entity.Conversation, error)
	ListForMember(ctx context.Context, email string) ([]entity.Conversation, error)
	UpdateTitle(ctx context.Context, id uint, title string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, conversationID uint) ([]entity.Message, error)
	// LastMessage returns nil when the conversation has no messages yet.
	LastMessage(ctx context.Context, conversationID uint) (*entity.Message, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	return database.MapError(r.db.WithContext(ctx).Create(conversation).Error)
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint) (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		return nil, database.MapError(err)
	}
	return &conversation, nil
}

func (r *conversationRepository) ListForMember(ctx context.Context, email string) ([]entity.Conversation, error) {
	conversations := []entity.Conversation{}
	err := r.db.WithContext(ctx).
		Where("? = ANY(members)", email).
		Order("id ASC").
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	res := r.db.WithContext(ctx).Model(&entity.Conversation{}).Where("id = ?", id).Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.MapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *conversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uint) ([]entity.Message, error) {
	messages := []entity.Message{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *conversationRepository) LastMessage(ctx context.Context, conversationID uint) (*entity.Message, error) {
	var message entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}
