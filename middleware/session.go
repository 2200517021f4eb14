package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the browser session id.
const SessionCookieName = "cactus_session"

const sessionContextKey = "session"

// Session attaches the caller's SessionState, creating one when the cookie
// is missing or has expired. The state stays locked until the request
// finishes, so one session never runs two handlers at once.
func Session(store *service.SessionStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookieName)
		state, created := store.GetOrCreate(id)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, state.ID, int(ttl.Seconds()), "/", "", false, true)

		c.Set(sessionContextKey, state)
		ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, state.ID)
		c.Request = c.Request.WithContext(ctx)

		if created {
			logger.Info(ctx, "session started", "client_ip", c.ClientIP())
		}

		state.Lock()
		defer state.Unlock()

		c.Next()
	}
}

// GetSession returns the session attached by Session, or nil.
func GetSession(c *gin.Context) *service.SessionState {
	if v, exists := c.Get(sessionContextKey); exists {
		if state, ok := v.(*service.SessionState); ok {
			return state
		}
	}
	return nil
}

// GetSessionID returns the current session id, or "".
func GetSessionID(c *gin.Context) string {
	if state := GetSession(c); state != nil {
		return state.ID
	}
	return ""
}
