// Package testutil holds fixtures shared by repository and service tests.
package testutil

import (
	"testing"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database and migrates the given models.
// A single connection keeps every statement on the same in-memory database.
func NewDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Config())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(append([]any{&entity.School{}, &entity.User{}}, models...)...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&entity.School{Name: "Unaffiliated"}).Error; err != nil {
		t.Fatalf("seed school: %v", err)
	}
	return db
}

// CreateUser inserts an approved user with a cheap password hash.
func CreateUser(t *testing.T, db *gorm.DB, email, first, last string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	u := &entity.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Password:  string(hash),
		SchoolID:  entity.DefaultSchoolID,
		Role:      entity.RoleApproved,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}
