package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/redis/go-redis/v9"
)

// Broker fans new messages out to live conversation streams.
type Broker interface {
	Publish(ctx context.Context, message *entity.Message) error
	// Subscribe returns a feed of JSON-encoded messages and a func that ends the subscription.
	Subscribe(ctx context.Context, conversationID uint) (<-chan []byte, func(), error)
}

func channelName(conversationID uint) string {
	return fmt.Sprintf("conversation:%d", conversationID)
}

type redisBroker struct {
	client *redis.Client
}

// NewRedisBroker publishes over Redis pub/sub so every instance sees every message.
func NewRedisBroker(client *redis.Client) Broker {
	return &redisBroker{client: client}
}

func (b *redisBroker) Publish(ctx context.Context, message *entity.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName(message.ConversationID), payload).Err()
}

func (b *redisBroker) Subscribe(ctx context.Context, conversationID uint) (<-chan []byte, func(), error) {
	pubsub := b.client.Subscribe(ctx, channelName(conversationID))

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			out <- []byte(msg.Payload)
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = pubsub.Close()
			// drain so the forwarding goroutine can exit
			for range out {
			}
		})
	}
	return out, cancel, nil
}

type memoryBroker struct {
	mu   sync.Mutex
	subs map[uint]map[chan []byte]struct{}
}

// NewMemoryBroker serves single-instance deployments running without Redis.
func NewMemoryBroker() Broker {
	return &memoryBroker{subs: make(map[uint]map[chan []byte]struct{})}
}

func (b *memoryBroker) Publish(_ context.Context, message *entity.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[message.ConversationID] {
		select {
		case ch <- payload:
		default:
			log.Printf("conversation %d: subscriber queue full, dropping message %d", message.ConversationID, message.ID)
		}
	}
	return nil
}

func (b *memoryBroker) Subscribe(_ context.Context, conversationID uint) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 16)

	b.mu.Lock()
	if b.subs[conversationID] == nil {
		b.subs[conversationID] = make(map[chan []byte]struct{})
	}
	b.subs[conversationID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[conversationID], ch)
			if len(b.subs[conversationID]) == 0 {
				delete(b.subs, conversationID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}
