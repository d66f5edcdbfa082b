package dto

import "time"

// PageQuery is bound from ?page=&limit= on paginated listings.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize applies the listing defaults (page 1, 20 items) and returns the row offset.
func (q *PageQuery) Normalize() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	return (q.Page - 1) * q.Limit
}

// UserProfile is the profile projection joined into listings.
type UserProfile struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstname"`
	LastName       string `json:"lastname"`
	SchoolName     string `json:"schoolname,omitempty"`
	Role           string `json:"role,omitempty"`
	Color          string `json:"color,omitempty"`
	ProfilePicLink string `json:"profilepiclink,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// EdgeProfile is a relationship row joined to the other user's profile.
type EdgeProfile struct {
	Email          string    `json:"email"`
	FirstName      string    `json:"firstname"`
	LastName       string    `json:"lastname"`
	ProfilePicLink string    `json:"profilepiclink"`
	CreatedAt      time.Time `json:"created_at"`
}
