package dto

import "time"

type AddCommentRequest struct {
	Content string    `json:"content" binding:"required,max=5000"`
	Email   string    `json:"email"`
	Time    time.Time `json:"time"`
	PostID  uint      `json:"postid" binding:"required"`
}

type UpdateCommentRequest struct {
	CommentID uint   `json:"commentId" binding:"required"`
	Content   string `json:"content" binding:"required,max=5000"`
}

// CommentRow is a comment joined with its author's profile.
type CommentRow struct {
	CommentID      uint      `json:"commentid"`
	Content        string    `json:"content"`
	Email          string    `json:"email"`
	Time           time.Time `json:"time"`
	PostID         uint      `json:"postid"`
	FirstName      string    `json:"firstname"`
	LastName       string    `json:"lastname"`
	ProfilePicLink string    `json:"profilepiclink"`
	CreatedAt      time.Time `json:"created_at"`
}

type CommentListResponse struct {
	Data []CommentRow `json:"data"`
}
