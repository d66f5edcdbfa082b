package entity

import "time"

const (
	PostPending  = 0
	PostApproved = 1
)

type Community struct {
	ID        uint      `gorm:"primaryKey" json:"communityid"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"communityname"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CommunityMember struct {
	CommunityID uint      `gorm:"primaryKey;autoIncrement:false" json:"communityid"`
	Email       string    `gorm:"primaryKey;size:255;index" json:"email"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

type Post struct {
	ID              uint      `gorm:"primaryKey" json:"postid"`
	Title           string    `gorm:"size:255" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	Email           string    `gorm:"size:255;index;not null" json:"email"`
	FileURL         *string   `gorm:"type:text" json:"fileurl"`
	FileDisplayName string    `gorm:"size:255" json:"filedisplayname"`
	FileType        string    `gorm:"size:100" json:"filetype"`
	Approved        int       `gorm:"index;not null" json:"approved"`
	CommunityID     *uint     `gorm:"index" json:"communityid"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PostLike struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"postid"`
	Email     string    `gorm:"primaryKey;size:255;index" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"commentid"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Time      time.Time `json:"time"`
	PostID    uint      `gorm:"index;not null" json:"postid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
