package dto

import commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"

type FriendInput struct {
	FrienderEmail string `json:"frienderEmail"`
	FriendeeEmail string `json:"friendeeEmail" binding:"required,email"`
}

type MuteInput struct {
	MuterEmail string `json:"muterEmail"`
	MuteeEmail string `json:"muteeEmail" binding:"required,email"`
}

type BlockInput struct {
	BlockerEmail string `json:"blockerEmail"`
	BlockeeEmail string `json:"blockeeEmail" binding:"required,email"`
}

type EdgeListResponse struct {
	Data []commonDto.EdgeProfile `json:"data"`
}
