package conversation

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/sanitize"
)

// memoryRepo stands in for the postgres repository, whose text[] column sqlite cannot hold.
type memoryRepo struct {
	mu            sync.Mutex
	conversations []entity.Conversation
	messages      []entity.Message
}

func (r *memoryRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.conversations {
		if existing.MemberKey == c.MemberKey {
			return apperror.ErrConflict
		}
	}
	c.ID = uint(len(r.conversations) + 1)
	r.conversations = append(r.conversations, *c)
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.conversations {
		if r.conversations[i].ID == id {
			c := r.conversations[i]
			return &c, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryRepo) ListForMember(_ context.Context, email string) ([]entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Conversation
	for _, c := range r.conversations {
		if c.HasMember(email) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) UpdateTitle(_ context.Context, id uint, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.conversations {
		if r.conversations[i].ID == id {
			r.conversations[i].Title = title
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (r *memoryRepo) CreateMessage(_ context.Context, m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint(len(r.messages) + 1)
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memoryRepo) ListMessages(_ context.Context, conversationID uint) ([]entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Message{}
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) LastMessage(ctx context.Context, conversationID uint) (*entity.Message, error) {
	messages, _ := r.ListMessages(ctx, conversationID)
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[len(messages)-1], nil
}

func newService() (ConversationService, Broker) {
	broker := NewMemoryBroker()
	return NewConversationService(&memoryRepo{}, broker, sanitize.New()), broker
}

func TestCreateEnforcesMemberSetUniqueness(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, "a@x.com", dto.CreateConversationRequest{Members: []string{"B@x.com", "c@x.com"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.MemberKey != "a@x.com,b@x.com,c@x.com" || c.Title != entity.DefaultConversationTitle {
		t.Fatalf("unexpected conversation %+v", c)
	}

	// same set, different order and casing
	_, err = svc.Create(ctx, "c@x.com", dto.CreateConversationRequest{Members: []string{"b@x.com", "A@X.com"}})
	if apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}

	if _, err := svc.Create(ctx, "a@x.com", dto.CreateConversationRequest{Members: []string{"a@x.com"}}); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for a conversation with oneself, got %v", err)
	}
}

func TestListUsesFallbackTitle(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, "ann@x.com", dto.CreateConversationRequest{Members: []string{"bob@x.com", "cid@x.com"}})
	_, _ = svc.Create(ctx, "ann@x.com", dto.CreateConversationRequest{Members: []string{"bob@x.com"}, Title: "Lunch"})

	list, err := svc.List(ctx, "bob@x.com")
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v %v", list, err)
	}
	if list[0].Title != "ann, cid" || list[1].Title != "Lunch" {
		t.Fatalf("unexpected titles %q %q", list[0].Title, list[1].Title)
	}

	none, err := svc.List(ctx, "nobody@x.com")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %v", none, err)
	}
}

func TestSendRequiresMembershipAndPublishes(t *testing.T) {
	svc, broker := newService()
	ctx := context.Background()

	c, _ := svc.Create(ctx, "a@x.com", dto.CreateConversationRequest{Members: []string{"b@x.com"}})
	feed, unsubscribe, _ := broker.Subscribe(ctx, c.ID)
	defer unsubscribe()

	if _, err := svc.Send(ctx, "z@x.com", c.ID, "intruder"); apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %v", err)
	}
	if _, err := svc.Send(ctx, "a@x.com", 99, "x"); apperror.MapErrorToStatus(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown conversation, got %v", err)
	}

	if _, err := svc.Send(ctx, "a@x.com", c.ID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	sent, err := svc.Send(ctx, "b@x.com", c.ID, "second")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := receive(t, feed); got.Content != "first" {
		t.Fatalf("unexpected first delivery %+v", got)
	}
	if got := receive(t, feed); got.ID != sent.ID {
		t.Fatalf("unexpected second delivery %+v", got)
	}

	messages, _ := svc.Messages(ctx, "b@x.com", c.ID)
	if len(messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(messages))
	}
	last, _ := svc.LastMessage(ctx, "a@x.com", c.ID)
	if last == nil || last.Content != "second" {
		t.Fatalf("unexpected last message %+v", last)
	}
	if _, err := svc.Messages(ctx, "z@x.com", c.ID); apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Fatalf("expected 403 reading as non-member, got %v", err)
	}
}

func TestUpdateTitle(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	c, _ := svc.Create(ctx, "a@x.com", dto.CreateConversationRequest{Members: []string{"b@x.com"}})
	if err := svc.UpdateTitle(ctx, "z@x.com", c.ID, "Mine"); apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if err := svc.UpdateTitle(ctx, "b@x.com", c.ID, "Planning"); err != nil {
		t.Fatalf("update: %v", err)
	}
	details, err := svc.Details(ctx, "a@x.com", c.ID)
	if err != nil || details.Title != "Planning" {
		t.Fatalf("details: %+v %v", details, err)
	}
}
