package dto

import "github.com/Justin66666/teachersLoungeBE/internal/entity"

type CreateConversationRequest struct {
	Members []string `json:"members" binding:"required,min=1,max=50,dive,required,email"`
	Title   string   `json:"title" binding:"max=255"`
}

type SendMessageRequest struct {
	Message        string `json:"message" binding:"required,max=5000"`
	ConversationID uint   `json:"conversationId" binding:"required"`
	SenderEmail    string `json:"senderEmail"`
}

type UpdateTitleRequest struct {
	NewTitle       string `json:"newTitle" binding:"required,max=255"`
	ConversationID uint   `json:"conversationId" binding:"required"`
}

// ConversationSummary is a conversation as one member sees it.
type ConversationSummary struct {
	ConversationID uint     `json:"conversationId"`
	Members        []string `json:"members"`
	Title          string   `json:"title"`
}

type ConversationListResponse struct {
	Data []ConversationSummary `json:"data"`
}

type MessageListResponse struct {
	Data []entity.Message `json:"data"`
}

// StreamFrame is what a websocket client sends to post into the conversation.
type StreamFrame struct {
	Message string `json:"message"`
}
