package search

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const usersIndex = "users"

// UserIndex keeps a searchable copy of account names.
type UserIndex interface {
	IndexUser(user *entity.User) error
	IndexUsers(users []entity.User) error
	RemoveUser(email string) error
	SearchUserEmails(query string, limit int64) ([]string, error)
}

type userDocument struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type meiliUserIndex struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliUserIndex(client meilisearch.ServiceManager) UserIndex {
	s := &meiliUserIndex{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliUserIndex) initIndex() {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        usersIndex,
		PrimaryKey: "id",
	})
	if err != nil {
		log.Printf("Failed to create index %s (might already exist): %v", usersIndex, err)
	}

	searchable := []string{"first_name", "last_name", "email"}
	if _, err := s.client.Index(usersIndex).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("Failed to update searchable attributes for %s: %v", usersIndex, err)
	}

	filterable := []interface{}{"role"}
	if _, err := s.client.Index(usersIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update filterable attributes for %s: %v", usersIndex, err)
	}
}

// DocumentID derives a stable index id; raw emails contain characters
// Meilisearch rejects in primary keys.
func DocumentID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(entity.NormalizeEmail(email))).String()
}

func (s *meiliUserIndex) IndexUser(user *entity.User) error {
	return s.IndexUsers([]entity.User{*user})
}

// IndexUsers upserts a batch of accounts in one indexing task.
func (s *meiliUserIndex) IndexUsers(users []entity.User) error {
	if len(users) == 0 {
		return nil
	}

	docs := make([]userDocument, 0, len(users))
	for _, user := range users {
		docs = append(docs, userDocument{
			ID:        DocumentID(user.Email),
			Email:     entity.NormalizeEmail(user.Email),
			FirstName: s.sanitizer.Sanitize(user.FirstName),
			LastName:  s.sanitizer.Sanitize(user.LastName),
			Role:      user.Role,
		})
	}

	primaryKey := "id"
	_, err := s.client.Index(usersIndex).AddDocuments(docs, &primaryKey)
	return err
}

func (s *meiliUserIndex) RemoveUser(email string) error {
	_, err := s.client.Index(usersIndex).DeleteDocument(DocumentID(email))
	return err
}

func (s *meiliUserIndex) SearchUserEmails(query string, limit int64) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	raw, err := s.client.Index(usersIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"email"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []userDocument `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		emails = append(emails, hit.Email)
	}
	return emails, nil
}
