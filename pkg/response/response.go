package response

import (
	"log"
	"net/http"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"

	roleAdmin = "Admin"
)

// GetUserEmail retrieves the authenticated user email from the context
func GetUserEmail(c *gin.Context) (string, error) {
	email := c.GetString(ContextUserEmail)
	if email == "" {
		return "", apperror.Unauthorized("Unauthorized request")
	}
	return email, nil
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == roleAdmin
}

// ActingAs resolves the email a request acts for. Legacy clients still send the
// acting email in the payload; it must match the caller unless the caller is an admin.
func ActingAs(c *gin.Context, claimed string) (string, error) {
	email, err := GetUserEmail(c)
	if err != nil {
		return "", err
	}
	claimed = strings.ToLower(strings.TrimSpace(claimed))
	if claimed == "" || claimed == email {
		return email, nil
	}
	if IsAdmin(c) {
		return claimed, nil
	}
	return "", apperror.Forbidden("cannot act on behalf of another user")
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(code, gin.H{"message": "Server error, try again"})
		return
	}
	if code == http.StatusBadGateway {
		log.Printf("[Upstream Error] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	c.JSON(code, gin.H{"message": err.Error()})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
