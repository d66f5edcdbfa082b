package handler

import (
	"net/http"
	"strconv"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/space/dto"
	space "github.com/Justin66666/teachersLoungeBE/internal/modules/space/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

// SpaceHandler serves private spaces. Every route runs behind RequireAuth.
type SpaceHandler struct {
	service space.SpaceService
}

func NewSpaceHandler(service space.SpaceService) *SpaceHandler {
	return &SpaceHandler{service: service}
}

func pathID(c *gin.Context, param, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, message)
		return 0, false
	}
	return uint(id), true
}

func caller(c *gin.Context) (string, bool) {
	email, err := response.GetUserEmail(c)
	if err != nil {
		response.ResponseError(c, err)
		return "", false
	}
	return email, true
}

func (h *SpaceHandler) CreatePrivateSpace(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), email, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SpaceResponse{Message: "Private space created successfully", Space: created})
}

func (h *SpaceHandler) GetUserPrivateSpaces(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}

	spaces, err := h.service.ListForUser(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

func (h *SpaceHandler) GetPrivateSpaceDetails(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	details, err := h.service.Details(c.Request.Context(), email, spaceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *SpaceHandler) InviteToPrivateSpace(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	invitation, err := h.service.Invite(c.Request.Context(), email, spaceID, req.InviteeEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Invitation sent successfully", "invitationId": invitation.InvitationID})
}

func (h *SpaceHandler) AcceptPrivateSpaceInvitation(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "invitationId", "Invalid invitation ID")
	if !ok {
		return
	}

	spaceID, err := h.service.Accept(c.Request.Context(), email, invitationID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully joined private space", "spaceId": spaceID})
}

func (h *SpaceHandler) DeclinePrivateSpaceInvitation(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "invitationId", "Invalid invitation ID")
	if !ok {
		return
	}

	if err := h.service.Decline(c.Request.Context(), email, invitationID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Invitation declined"})
}

func (h *SpaceHandler) GetPendingInvitations(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}

	invitations, err := h.service.PendingInvitations(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (h *SpaceHandler) CreatePrivateSpacePost(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	var req dto.CreateSpacePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), email, spaceID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (h *SpaceHandler) GetPrivateSpacePosts(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	var page commonDto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	posts, err := h.service.Posts(c.Request.Context(), email, spaceID, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *SpaceHandler) DeletePrivateSpacePost(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "postId", "Invalid post ID")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), email, postID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Post deleted successfully"})
}

func (h *SpaceHandler) AddPrivateSpaceComment(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "postId", "Invalid post ID")
	if !ok {
		return
	}

	var req dto.AddSpaceCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), email, postID, req.Content)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment": comment})
}

func (h *SpaceHandler) GetPrivateSpaceComments(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "postId", "Invalid post ID")
	if !ok {
		return
	}

	comments, err := h.service.Comments(c.Request.Context(), email, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *SpaceHandler) GetPrivateSpaceMembers(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	members, err := h.service.Members(c.Request.Context(), email, spaceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *SpaceHandler) RemovePrivateSpaceMember(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), email, spaceID, c.Param("memberEmail")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Member removed successfully"})
}

func (h *SpaceHandler) GetInvitableUsers(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	users, err := h.service.InvitableUsers(c.Request.Context(), email, spaceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SpaceHandler) SearchInvitableUsers(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	var q dto.SearchInvitableQuery
	_ = c.ShouldBindQuery(&q)

	users, err := h.service.SearchInvitableUsers(c.Request.Context(), email, spaceID, q.Query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SpaceHandler) DissolvePrivateSpace(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	spaceID, ok := pathID(c, "spaceId", "Invalid space ID")
	if !ok {
		return
	}

	if err := h.service.Dissolve(c.Request.Context(), email, spaceID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Private space dissolved successfully"})
}
