package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode maps the deployment environment onto gin's run mode.
func SetGinMode(env string) {
	gin.SetMode(ginMode(env))
}

func ginMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
