package dto

import (
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
)

type CreateSpaceRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=2000"`
	AvatarURL   *string `json:"avatarUrl" binding:"omitempty,url"`
}

type InviteRequest struct {
	InviteeEmail string `json:"inviteeEmail" binding:"required,email"`
}

type CreateSpacePostRequest struct {
	Content string  `json:"content" binding:"required,max=10000"`
	FileURL *string `json:"fileUrl" binding:"omitempty,url"`
}

type AddSpaceCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type SearchInvitableQuery struct {
	Query string `form:"query"`
}

// SpaceSummary is one of the caller's spaces with the caller's role in it.
type SpaceSummary struct {
	SpaceID      uint      `json:"space_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatorEmail string    `json:"creator_email"`
	CreatedAt    time.Time `json:"created_at"`
	UserRole     string    `json:"user_role"`
	MemberCount  int64     `json:"member_count"`
	PostCount    int64     `json:"post_count"`
}

type SpaceDetails struct {
	SpaceID      uint      `json:"space_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatorEmail string    `json:"creator_email"`
	CreatedAt    time.Time `json:"created_at"`
	CreatorName  string    `json:"creator_name"`
	MemberCount  int64     `json:"member_count"`
}

type InvitationRow struct {
	InvitationID     uint      `json:"invitation_id"`
	SpaceID          uint      `json:"space_id"`
	InviterEmail     string    `json:"inviter_email"`
	CreatedAt        time.Time `json:"created_at"`
	SpaceName        string    `json:"space_name"`
	SpaceDescription string    `json:"space_description"`
	InviterName      string    `json:"inviter_name"`
}

type SpacePostRow struct {
	PostID       uint      `json:"post_id"`
	SpaceID      uint      `json:"space_id"`
	Email        string    `json:"email"`
	Content      string    `json:"content"`
	FileURL      *string   `json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
	CommentCount int64     `json:"comment_count"`
}

type SpaceCommentRow struct {
	CommentID    uint      `json:"comment_id"`
	PostID       uint      `json:"post_id"`
	Email        string    `json:"email"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
}

type SpaceMemberRow struct {
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
}

type InvitableUser struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	SchoolName string `json:"schoolname"`
}

type SpaceResponse struct {
	Message string               `json:"message"`
	Space   *entity.PrivateSpace `json:"space"`
}

type SpaceDetailsResponse struct {
	Space    *SpaceDetails `json:"space"`
	UserRole string        `json:"userRole"`
}

type SpacePostsResponse struct {
	Posts []SpacePostRow `json:"posts"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
