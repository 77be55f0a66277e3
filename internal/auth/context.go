package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
)

// SetUser stores the session's user on the gin context.
func SetUser(c *gin.Context, u User) {
	c.Set(CtxUserID, u.ID)
	c.Set(CtxUserEmail, u.Email)
}

// UserID returns the authenticated user's id, or "" outside RequireSession.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}
