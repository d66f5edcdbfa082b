package entity

import "time"

const (
	SpaceRoleAdmin  = "admin"
	SpaceRoleMember = "member"

	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

type PrivateSpace struct {
	SpaceID      uint      `gorm:"primaryKey;column:space_id" json:"space_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url"`
	CreatorEmail string    `gorm:"size:255;index;not null" json:"creator_email"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PrivateSpaceMember struct {
	SpaceID  uint      `gorm:"primaryKey;autoIncrement:false;column:space_id" json:"space_id"`
	Email    string    `gorm:"primaryKey;size:255;index" json:"email"`
	Role     string    `gorm:"size:20;not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// PrivateSpaceInvitation allows at most one pending invitation per (space, invitee).
type PrivateSpaceInvitation struct {
	InvitationID uint       `gorm:"primaryKey;column:invitation_id" json:"invitation_id"`
	SpaceID      uint       `gorm:"column:space_id;not null;index:idx_space_invitee_pending,unique,where:status = 'pending'" json:"space_id"`
	InviterEmail string     `gorm:"size:255;not null" json:"inviter_email"`
	InviteeEmail string     `gorm:"size:255;not null;index;index:idx_space_invitee_pending,unique,where:status = 'pending'" json:"invitee_email"`
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at"`
}

type PrivateSpacePost struct {
	PostID    uint      `gorm:"primaryKey;column:post_id" json:"post_id"`
	SpaceID   uint      `gorm:"column:space_id;index;not null" json:"space_id"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FileURL   *string   `gorm:"type:text" json:"file_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PrivateSpacePostComment struct {
	CommentID uint      `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	PostID    uint      `gorm:"column:post_id;index;not null" json:"post_id"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
