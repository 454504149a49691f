package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionKey = "sessionId"

// SessionMiddleware tạo sessionId nếu chưa có và gán vào context
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionId := c.GetHeader("X-Session-ID")
		if _, err := uuid.Parse(sessionId); err != nil {
			// Tạo sessionId mới
			sessionId = uuid.NewString()
		}

		// Gán vào context để dùng trong controller hoặc service
		c.Set(SessionKey, sessionId)

		c.Writer.Header().Set("X-Session-ID", sessionId)

		c.Next()
	}
}

// SessionID returns the id set by SessionMiddleware, or "-".
func SessionID(c *gin.Context) string {
	if v := c.GetString(SessionKey); v != "" {
		return v
	}
	return "-"
}
