package conversation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func receive(t *testing.T, feed <-chan []byte) entity.Message {
	t.Helper()
	select {
	case payload := <-feed:
		var msg entity.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return entity.Message{}
}

func testBroker(t *testing.T, b Broker) {
	ctx := context.Background()

	feed, unsubscribe, err := b.Subscribe(ctx, 7)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	if err := b.Publish(ctx, &entity.Message{ID: 1, ConversationID: 8, Content: "elsewhere"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := b.Publish(ctx, &entity.Message{ID: 2, ConversationID: 7, Sender: "a@x.com", Content: "hello"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := receive(t, feed)
	if got.ID != 2 || got.Content != "hello" || got.Sender != "a@x.com" {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestMemoryBroker(t *testing.T) {
	b := NewMemoryBroker()
	testBroker(t, b)

	// unsubscribing twice is harmless and removes the subscriber
	_, unsubscribe, _ := b.Subscribe(context.Background(), 3)
	unsubscribe()
	unsubscribe()
	if err := b.Publish(context.Background(), &entity.Message{ConversationID: 3}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}

func TestRedisBroker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	t.Cleanup(func() { _ = client.Close() })

	testBroker(t, NewRedisBroker(client))
}
