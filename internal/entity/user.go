package entity

import (
	"strings"
	"time"
)

const (
	RoleGuest    = "Guest"
	RolePending  = "Pending"
	RoleApproved = "Approved"
	RoleAdmin    = "Admin"
)

// DefaultSchoolID is seeded at startup and assigned when no school is given.
const DefaultSchoolID uint = 1

type School struct {
	ID   uint   `gorm:"primaryKey" json:"schoolid"`
	Name string `gorm:"size:255;uniqueIndex;not null" json:"schoolname"`
}

// User is keyed by email; every other table references users by email.
type User struct {
	Email          string    `gorm:"primaryKey;size:255" json:"email"`
	FirstName      string    `gorm:"size:100" json:"firstname"`
	LastName       string    `gorm:"size:100" json:"lastname"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	SchoolID       uint      `gorm:"index;not null;default:1" json:"schoolid"`
	Role           string    `gorm:"size:20;index;not null;default:Pending" json:"role"`
	Color          string    `gorm:"size:20" json:"color"`
	ProfilePicLink string    `gorm:"type:text" json:"profilepiclink"`
	// AuthProvider is the social provider that created the account, empty for password accounts.
	AuthProvider   string    `gorm:"size:20" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsPending() bool {
	return u.Role == RolePending || u.Role == RoleGuest
}

// FullName joins first and last name the way listings display authors.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail is applied to every email entering the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
