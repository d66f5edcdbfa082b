package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/dto"
	conversation "github.com/Justin66666/teachersLoungeBE/internal/modules/conversation/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamReadLimit = 16 * 1024
	writeWait       = 10 * time.Second
)

type ConversationHandler struct {
	service  conversation.ConversationService
	broker   conversation.Broker
	upgrader websocket.Upgrader
}

func NewConversationHandler(service conversation.ConversationService, broker conversation.Broker) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		broker:  broker,
		upgrader: websocket.Upgrader{
			// Origins are enforced by the CORS layer and the bearer token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func conversationID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid conversation ID")
		return 0, false
	}
	return uint(id), true
}

func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	creator, err := response.GetUserEmail(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), creator, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Conversation created successfully",
		"conversationId": created.ID,
	})
}

func (h *ConversationHandler) GetConversations(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	conversations, err := h.service.List(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConversationListResponse{Data: conversations})
}

func (h *ConversationHandler) GetConversationDetails(c *gin.Context) {
	id, ok := conversationID(c, c.Query("conversationId"))
	if !ok {
		return
	}

	details, err := h.service.Details(c.Request.Context(), c.GetString(response.ContextUserEmail), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (h *ConversationHandler) UpdateConversationTitle(c *gin.Context) {
	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	err := h.service.UpdateTitle(c.Request.Context(), c.GetString(response.ContextUserEmail), req.ConversationID, req.NewTitle)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Title Updated Successfully"})
}

func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	sender, err := response.ActingAs(c, req.SenderEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message, err := h.service.Send(c.Request.Context(), sender, req.ConversationID, req.Message)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully", "data": message})
}

func (h *ConversationHandler) GetMessages(c *gin.Context) {
	id, ok := conversationID(c, c.Query("conversationId"))
	if !ok {
		return
	}

	messages, err := h.service.Messages(c.Request.Context(), c.GetString(response.ContextUserEmail), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageListResponse{Data: messages})
}

// GetLastMessage answers with a zero- or one-element list.
func (h *ConversationHandler) GetLastMessage(c *gin.Context) {
	id, ok := conversationID(c, c.Query("conversationId"))
	if !ok {
		return
	}

	last, err := h.service.LastMessage(c.Request.Context(), c.GetString(response.ContextUserEmail), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	messages := []entity.Message{}
	if last != nil {
		messages = append(messages, *last)
	}
	c.JSON(http.StatusOK, dto.MessageListResponse{Data: messages})
}

// Stream upgrades to a websocket that pushes every new message of the conversation.
// Frames sent by the client are stored as messages from the caller.
func (h *ConversationHandler) Stream(c *gin.Context) {
	id, ok := conversationID(c, c.Param("conversationId"))
	if !ok {
		return
	}

	email, err := response.GetUserEmail(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	// gin recycles c once Stream returns; the reader only touches ctx.
	ctx := c.Request.Context()
	if err := h.service.Authorize(ctx, email, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	feed, unsubscribe, err := h.broker.Subscribe(ctx, id)
	if err != nil {
		log.Printf("Failed to subscribe to conversation %d: %v", id, err)
		response.ResponseError(c, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	conn.SetReadLimit(streamReadLimit)

	clientClosed := make(chan struct{})
	defer func() {
		conn.Close()
		<-clientClosed
	}()
	go func() {
		defer close(clientClosed)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var frame dto.StreamFrame
			if err := json.Unmarshal(raw, &frame); err != nil || frame.Message == "" {
				continue
			}
			// The stored message comes back to this client through the feed.
			if _, err := h.service.Send(ctx, email, id, frame.Message); err != nil {
				log.Printf("Failed to store streamed message for conversation %d: %v", id, err)
			}
		}
	}()

	for {
		select {
		case payload, ok := <-feed:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
