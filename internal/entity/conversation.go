package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
)

const DefaultConversationTitle = "Default Conversation"

type Conversation struct {
	ID      uint           `gorm:"primaryKey" json:"conversationId"`
	Title   string         `gorm:"size:255" json:"title"`
	Members pq.StringArray `gorm:"type:text[];not null" json:"members"`
	// MemberKey is the canonical member set; its unique index makes
	// "one conversation per member set" a database guarantee.
	MemberKey string    `gorm:"type:text;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"message_id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	Sender         string    `gorm:"size:255;index;not null" json:"sender"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	SentAt         time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

// CanonicalMembers lowercases, trims, dedupes and sorts a member list.
func CanonicalMembers(members []string) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		m = NormalizeEmail(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func MemberKey(members []string) string {
	return strings.Join(CanonicalMembers(members), ",")
}

func (c *Conversation) HasMember(email string) bool {
	email = NormalizeEmail(email)
	for _, m := range c.Members {
		if m == email {
			return true
		}
	}
	return false
}
