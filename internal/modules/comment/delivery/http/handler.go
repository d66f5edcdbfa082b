package handler

import (
	"net/http"
	"strconv"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/comment/dto"
	comment "github.com/Justin66666/teachersLoungeBE/internal/modules/comment/service"
	commonDto "github.com/Justin66666/teachersLoungeBE/pkg/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func queryID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+key)
		return 0, false
	}
	return uint(id), true
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	email, err := response.ActingAs(c, req.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.Add(c.Request.Context(), email, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	rows, err := h.service.FindByAuthorAndContent(c.Request.Context(), c.Query("email"), c.Query("content"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentListResponse{Data: rows})
}

func (h *CommentHandler) GetCommentByCommentID(c *gin.Context) {
	id, ok := queryID(c, "commentId")
	if !ok {
		return
	}

	row, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}

func (h *CommentHandler) GetCommentsByPostID(c *gin.Context) {
	postID, ok := queryID(c, "postId")
	if !ok {
		return
	}

	viewer := c.GetString(response.ContextUserEmail)
	if viewer == "" {
		viewer = c.Query("userEmail")
	}

	rows, err := h.service.ListByPost(c.Request.Context(), postID, viewer)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentListResponse{Data: rows})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	editor, err := response.GetUserEmail(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), editor, response.IsAdmin(c), req); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Comment updated successfully"})
}

// DeleteComment runs behind RequireCommentOwnerOrAdmin.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, commonDto.MessageResponse{Message: "Comment deleted successfully"})
}
