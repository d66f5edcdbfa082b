package dto

import "time"

// CreatePostRequest.Approved defaults to 1 when omitted.
type CreatePostRequest struct {
	Title           string  `json:"title" binding:"max=255"`
	Content         string  `json:"content" binding:"required,max=10000"`
	Email           string  `json:"email"`
	FileURL         *string `json:"fileUrl"`
	FileDisplayName string  `json:"filedisplayname" binding:"max=255"`
	FileType        string  `json:"filetype" binding:"max=100"`
	Approved        *int    `json:"approved" binding:"omitempty,oneof=0 1"`
	CommunityID     *uint   `json:"communityid"`
	IsCommunityPost bool    `json:"isCommunityPost"`
}

type CreateCommunityPostRequest struct {
	Title           string  `json:"title" binding:"max=255"`
	Content         string  `json:"content" binding:"required,max=10000"`
	Email           string  `json:"email"`
	FileURL         *string `json:"fileUrl"`
	FileDisplayName string  `json:"fileDisplayName" binding:"max=255"`
	FileType        string  `json:"fileType" binding:"max=100"`
	CommunityID     uint    `json:"communityId" binding:"required"`
}

type ApprovePostRequest struct {
	ID uint `json:"id" binding:"required"`
}

type LikeRequest struct {
	PostID    uint   `json:"postId" binding:"required"`
	UserEmail string `json:"userEmail"`
}

type PostLikesRequest struct {
	PostID uint `json:"postID" binding:"required"`
}

// PostRow is a post joined with its author, community and counters.
type PostRow struct {
	PostID          uint      `json:"postid"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Email           string    `json:"email"`
	FileURL         *string   `json:"fileurl"`
	FileDisplayName string    `json:"filedisplayname"`
	FileType        string    `json:"filetype"`
	Approved        int       `json:"approved"`
	CommunityID     *uint     `json:"communityid"`
	CommunityName   *string   `json:"communityname"`
	FirstName       string    `json:"firstname"`
	LastName        string    `json:"lastname"`
	ProfilePicLink  string    `json:"profilepiclink"`
	LikesCount      int64     `json:"likescount"`
	CommentsCount   int64     `json:"commentscount"`
	LikedByViewer   bool      `json:"likedbyviewer"`
	CreatedAt       time.Time `json:"created_at"`
}

type PostListResponse struct {
	Data []PostRow `json:"data"`
}
