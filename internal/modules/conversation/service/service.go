package conversation

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/dto"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

type ConversationService interface {
	Create(ctx context.Context, creator string, req dto.CreateConversationRequest) (*entity.Conversation, error)
	List(ctx context.Context, email string) ([]dto.ConversationSummary, error)
	Details(ctx context.Context, email string, conversationID uint) (*dto.ConversationSummary, error)
	UpdateTitle(ctx context.Context, email string, conversationID uint, title string) error

	Send(ctx context.Context, sender string, conversationID uint, content string) (*entity.Message, error)
	Messages(ctx context.Context, email string, conversationID uint) ([]entity.Message, error)
	LastMessage(ctx context.Context, email string, conversationID uint) (*entity.Message, error)
	// Authorize fails unless email is a member of the conversation.
	Authorize(ctx context.Context, email string, conversationID uint) error
}

type conversationService struct {
	repo      repository.ConversationRepository
	broker    Broker
	sanitizer *sanitize.Sanitizer
}

func NewConversationService(repo repository.ConversationRepository, broker Broker, sanitizer *sanitize.Sanitizer) ConversationService {
	return &conversationService{
		repo:      repo,
		broker:    broker,
		sanitizer: sanitizer,
	}
}

func (s *conversationService) Create(ctx context.Context, creator string, req dto.CreateConversationRequest) (*entity.Conversation, error) {
	members := entity.CanonicalMembers(append([]string{creator}, req.Members...))
	if len(members) < 2 {
		return nil, apperror.BadRequest("A conversation needs at least two members")
	}

	title := strings.TrimSpace(s.sanitizer.Plain(req.Title))
	if title == "" {
		title = entity.DefaultConversationTitle
	}

	conversation := &entity.Conversation{
		Title:     title,
		Members:   members,
		MemberKey: entity.MemberKey(members),
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("Conversation already exists")
		}
		return nil, err
	}
	return conversation, nil
}

func (s *conversationService) List(ctx context.Context, email string) ([]dto.ConversationSummary, error) {
	email = entity.NormalizeEmail(email)
	conversations, err := s.repo.ListForMember(ctx, email)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		out = append(out, summarize(&conversations[i], email))
	}
	return out, nil
}

func (s *conversationService) Details(ctx context.Context, email string, conversationID uint) (*dto.ConversationSummary, error) {
	conversation, err := s.member(ctx, email, conversationID)
	if err != nil {
		return nil, err
	}
	summary := summarize(conversation, entity.NormalizeEmail(email))
	return &summary, nil
}

func (s *conversationService) UpdateTitle(ctx context.Context, email string, conversationID uint, title string) error {
	if _, err := s.member(ctx, email, conversationID); err != nil {
		return err
	}

	title = strings.TrimSpace(s.sanitizer.Plain(title))
	if title == "" {
		return apperror.BadRequest("Title is required")
	}
	return s.repo.UpdateTitle(ctx, conversationID, title)
}

// Send stores the message, then publishes it. Publishing failures are logged, the message is already saved.
func (s *conversationService) Send(ctx context.Context, sender string, conversationID uint, content string) (*entity.Message, error) {
	if _, err := s.member(ctx, sender, conversationID); err != nil {
		return nil, err
	}

	content = s.sanitizer.Content(content)
	if content == "" {
		return nil, apperror.BadRequest("Message is required")
	}

	message := &entity.Message{
		ConversationID: conversationID,
		Sender:         entity.NormalizeEmail(sender),
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, message); err != nil {
			log.Printf("Failed to publish message %d to conversation %d: %v", message.ID, conversationID, err)
		}
	}
	return message, nil
}

func (s *conversationService) Messages(ctx context.Context, email string, conversationID uint) ([]entity.Message, error) {
	if _, err := s.member(ctx, email, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

func (s *conversationService) LastMessage(ctx context.Context, email string, conversationID uint) (*entity.Message, error) {
	if _, err := s.member(ctx, email, conversationID); err != nil {
		return nil, err
	}
	return s.repo.LastMessage(ctx, conversationID)
}

func (s *conversationService) Authorize(ctx context.Context, email string, conversationID uint) error {
	_, err := s.member(ctx, email, conversationID)
	return err
}

func (s *conversationService) member(ctx context.Context, email string, conversationID uint) (*entity.Conversation, error) {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Conversation not found")
		}
		return nil, err
	}
	if !conversation.HasMember(email) {
		return nil, apperror.Forbidden("You are not a member of this conversation")
	}
	return conversation, nil
}

// summarize replaces the default title with the other members' email local parts.
func summarize(conversation *entity.Conversation, viewer string) dto.ConversationSummary {
	title := conversation.Title
	if title == entity.DefaultConversationTitle {
		others := make([]string, 0, len(conversation.Members))
		for _, m := range conversation.Members {
			if m == viewer {
				continue
			}
			local, _, _ := strings.Cut(m, "@")
			others = append(others, local)
		}
		title = strings.Join(others, ", ")
	}

	return dto.ConversationSummary{
		ConversationID: conversation.ID,
		Members:        conversation.Members,
		Title:          title,
	}
}
