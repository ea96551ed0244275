package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionCookie = "incident_session"

// SessionMiddleware assigns each browser a stable session ID so the server
// can keep per-session list state (active filters, current page, in-flight
// aggregation) between requests.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(SessionCookie, sessionID, 86400, "/", "", false, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// SessionID returns the session identifier installed by SessionMiddleware.
func SessionID(c *gin.Context) string {
	if id, ok := c.Get("session_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
