package handler

import (
	"net/http"
	"strconv"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/post/dto"
	post "github.com/Justin66666/teachersLoungeBE/internal/modules/post/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// viewer is the authenticated caller, falling back to ?userEmail for anonymous listings.
func viewer(c *gin.Context) string {
	if email := c.GetString(response.ContextUserEmail); email != "" {
		return email
	}
	return c.Query("userEmail")
}

func author(c *gin.Context, claimed string) (post.Author, error) {
	email, err := response.ActingAs(c, claimed)
	if err != nil {
		return post.Author{}, err
	}
	role := response.GetUserRole(c)
	if email != c.GetString(response.ContextUserEmail) {
		// An admin posting on behalf of someone keeps the post approved.
		role = ""
	}
	return post.Author{Email: email, Role: role}, nil
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	a, err := author(c, req.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), a, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *PostHandler) CreateCommunityPost(c *gin.Context) {
	var req dto.CreateCommunityPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	a, err := author(c, req.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.CreateCommunityPost(c.Request.Context(), a, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "data": created})
}

func (h *PostHandler) GetAllApprovedPosts(c *gin.Context) {
	posts, err := h.service.ListApproved(c.Request.Context(), viewer(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Data: posts})
}

func (h *PostHandler) GetAllApprovedPostsByUser(c *gin.Context) {
	posts, err := h.service.ListApprovedByAuthor(c.Request.Context(), c.Param("username"), viewer(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Data: posts})
}

func (h *PostHandler) GetCommunityApprovedPosts(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Query("communityID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid community ID")
		return
	}

	posts, err := h.service.ListCommunityApproved(c.Request.Context(), uint(communityID), viewer(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Data: posts})
}

func (h *PostHandler) GetPendingPosts(c *gin.Context) {
	posts, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Data: posts})
}

func (h *PostHandler) GetUserPosts(c *gin.Context) {
	email, err := response.ActingAs(c, c.Query("email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	posts, err := h.service.ListByAuthor(c.Request.Context(), email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Data: posts})
}

func (h *PostHandler) ApprovePost(c *gin.Context) {
	var req dto.ApprovePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	if err := h.service.Approve(c.Request.Context(), req.ID); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Post approved successfully"})
}

// DeletePost runs behind RequirePostOwnerOrAdmin, which already validated :postId.
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Post and associated file deleted successfully"})
}

func (h *PostHandler) LikePost(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	email, err := response.ActingAs(c, req.UserEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Like(c.Request.Context(), req.PostID, email); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commonDto.MessageResponse{Message: "Successfully liked the post!"})
}

func (h *PostHandler) UnlikePost(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	email, err := response.ActingAs(c, req.UserEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unlike(c.Request.Context(), req.PostID, email); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Post unliked successfully."})
}

func (h *PostHandler) GetPostLikes(c *gin.Context) {
	var req dto.PostLikesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	count, err := h.service.CountLikes(c.Request.Context(), req.PostID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": count})
}

// CheckLikedPost answers 409 when the caller already liked the post, mirroring what a like attempt would return.
func (h *PostHandler) CheckLikedPost(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	email, err := response.ActingAs(c, req.UserEmail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	liked, err := h.service.HasLiked(c.Request.Context(), req.PostID, email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if liked {
		c.JSON(http.StatusConflict, gin.H{"message": "You've already liked this post!", "liked": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have not liked this post yet", "liked": false})
}
