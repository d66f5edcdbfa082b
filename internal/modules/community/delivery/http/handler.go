package handler

import (
	"net/http"
	"strconv"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/community/dto"
	community "github.com/Justin66666/teachersLoungeBE/internal/modules/community/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	service community.CommunityService
}

func NewCommunityHandler(service community.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

func (h *CommunityHandler) CreateNewCommunity(c *gin.Context) {
	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.CommunityName)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Community created successfully", "data": created})
}

func (h *CommunityHandler) GetAllCommunities(c *gin.Context) {
	communities, err := h.service.List(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommunityListResponse{Data: communities})
}

func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	var req dto.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	email, err := response.ActingAs(c, req.UserEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Join(c.Request.Context(), req.CommunityID, email); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commonDto.MessageResponse{Message: "User joined community successfully"})
}

func (h *CommunityHandler) LeaveCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Query("communityID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid community ID")
		return
	}

	email, err := response.ActingAs(c, c.Query("userEmail"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Leave(c.Request.Context(), uint(communityID), email); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "User removed from community successfully"})
}

func (h *CommunityHandler) GetUserCommunities(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	communities, err := h.service.ListForUser(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommunityListResponse{Data: communities})
}

func (h *CommunityHandler) GetCommunityName(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("communityId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "communityId is required")
		return
	}

	name, err := h.service.Name(c.Request.Context(), uint(id))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communityName": name})
}
