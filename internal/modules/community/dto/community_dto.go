package dto

import "github.com/Justin66666/teachersLoungeBE/internal/entity"

type CreateCommunityRequest struct {
	CommunityName string `json:"communityName" binding:"required,max=255"`
}

type MembershipRequest struct {
	CommunityID uint   `json:"communityID" binding:"required"`
	UserEmail   string `json:"userEmail"`
}

type CommunityListResponse struct {
	Data []entity.Community `json:"data"`
}
