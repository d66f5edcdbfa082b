package handler

import (
	"net/http"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/dto"
	relationship "github.com/Justin66666/teachersLoungeBE/internal/modules/relationship/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RelationshipHandler struct {
	service relationship.RelationshipService
}

func NewRelationshipHandler(service relationship.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{service: service}
}

func (h *RelationshipHandler) CheckIfFriended(c *gin.Context) {
	ok, err := h.service.HasFriended(c.Request.Context(), c.Query("frienderEmail"), c.Query("friendeeEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friended": ok})
}

func (h *RelationshipHandler) FriendUser(c *gin.Context) {
	var input dto.FriendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	friender, err := response.ActingAs(c, input.FrienderEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Friend(c.Request.Context(), friender, input.FriendeeEmail); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commonDto.MessageResponse{Message: "User friended successfully"})
}

func (h *RelationshipHandler) UnfriendUser(c *gin.Context) {
	friender, err := response.ActingAs(c, c.Query("frienderEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unfriend(c.Request.Context(), friender, c.Query("friendeeEmail")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "User unfriended successfully"})
}

func (h *RelationshipHandler) GetFriendsList(c *gin.Context) {
	email := c.Query("userEmail")
	if email == "" {
		email = c.GetString(response.ContextUserEmail)
	}

	friends, err := h.service.Friends(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeListResponse{Data: friends})
}

func (h *RelationshipHandler) GetSentFriendRequests(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	sent, err := h.service.SentRequests(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeListResponse{Data: sent})
}

func (h *RelationshipHandler) GetPendingFriendRequests(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	pending, err := h.service.PendingRequests(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeListResponse{Data: pending})
}

func (h *RelationshipHandler) MuteUser(c *gin.Context) {
	var input dto.MuteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	muter, err := response.ActingAs(c, input.MuterEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Mute(c.Request.Context(), muter, input.MuteeEmail); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commonDto.MessageResponse{Message: "User muted successfully"})
}

func (h *RelationshipHandler) UnmuteUser(c *gin.Context) {
	muter, err := response.ActingAs(c, c.Query("muterEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unmute(c.Request.Context(), muter, c.Query("muteeEmail")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "User unmuted successfully"})
}

func (h *RelationshipHandler) GetMuteList(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	mutes, err := h.service.Mutes(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeListResponse{Data: mutes})
}

func (h *RelationshipHandler) CheckIfMuted(c *gin.Context) {
	muter, err := response.ActingAs(c, c.Query("muterEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ok, err := h.service.HasMuted(c.Request.Context(), muter, c.Query("muteeEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"muted": ok})
}

func (h *RelationshipHandler) BlockUser(c *gin.Context) {
	var input dto.BlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	blocker, err := response.ActingAs(c, input.BlockerEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Block(c.Request.Context(), blocker, input.BlockeeEmail); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commonDto.MessageResponse{Message: "User blocked successfully"})
}

func (h *RelationshipHandler) UnblockUser(c *gin.Context) {
	blocker, err := response.ActingAs(c, c.Query("blockerEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unblock(c.Request.Context(), blocker, c.Query("blockeeEmail")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "User unblocked successfully"})
}

func (h *RelationshipHandler) CheckIfBlocked(c *gin.Context) {
	blocker, err := response.ActingAs(c, c.Query("blockerEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ok, err := h.service.HasBlocked(c.Request.Context(), blocker, c.Query("blockeeEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": ok})
}

func (h *RelationshipHandler) GetBlockList(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	blocks, err := h.service.Blocks(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EdgeListResponse{Data: blocks})
}
