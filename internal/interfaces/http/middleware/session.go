package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionIDKey    = "session_id"
	sessionIDHeader = "X-Session-ID"
)

// Session resolves the anonymous cart session from the X-Session-ID header or
// the session cookie, issuing a new one when neither carries a valid id.
func Session(cookieName string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionIDHeader)
		if !validSessionID(sessionID) {
			sessionID, _ = c.Cookie(cookieName)
		}
		if !validSessionID(sessionID) {
			sessionID = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, int(ttl.Seconds()), "/", "", secure, true)
		c.Header(sessionIDHeader, sessionID)
		c.Set(sessionIDKey, sessionID)

		c.Next()
	}
}

// GetSessionID returns the session id resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
