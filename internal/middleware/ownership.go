package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/gin-gonic/gin"
)

// OwnerLookup returns the email that owns the record with the given id.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id uint) (string, error)
}

// RequireOwnerOrAdmin guards routes whose :param names a record only its owner or an admin may change.
func RequireOwnerOrAdmin(lookup OwnerLookup, param, notFoundMessage, forbiddenMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := response.GetUserEmail(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid " + param})
			return
		}

		owner, err := lookup.OwnerOf(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": notFoundMessage})
				return
			}
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		if owner != email && !response.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": forbiddenMessage})
			return
		}
		c.Next()
	}
}

func RequirePostOwnerOrAdmin(posts OwnerLookup) gin.HandlerFunc {
	return RequireOwnerOrAdmin(posts, "postId", "Post not found", "You can only modify your own posts")
}

func RequireCommentOwnerOrAdmin(comments OwnerLookup) gin.HandlerFunc {
	return RequireOwnerOrAdmin(comments, "commentId", "Comment not found", "You can only modify your own comments")
}
