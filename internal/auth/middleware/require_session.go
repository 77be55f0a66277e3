package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
	"github.com/GoSim-25-26J-441/projectdash/internal/logging"
)

// RequireSession resolves the caller's session and aborts with 401 when
// there is none. Handlers behind it can rely on auth.UserID being set.
func RequireSession(resolver auth.SessionResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := resolver.Resolve(c.Request)
		if err != nil {
			logging.FromContext(c.Request.Context(), log).Debug("session rejected", zap.Error(err))
		}
		if err != nil || s == nil || s.User.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		auth.SetUser(c, s.User)
		c.Next()
	}
}
