package session

import (
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
)

const ContextKey = "session"

// RequireSession loads the session named by the cookie and rejects the
// request when there is none.
func RequireSession(manager *Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			web.RespondError(c, schema.ErrMissingSession)
			return
		}

		session, err := manager.Load(c.Request.Context(), id)
		if err != nil {
			web.RespondError(c, err)
			return
		}

		requestLogger := web.Logger(c).
			With().
			Str("accountId", session.Account.ID).
			Str("userId", session.User.ID).
			Logger()
		web.SetLogger(c, &requestLogger)

		c.Set(ContextKey, session)
	}
}

// FromContext returns the session RequireSession loaded.
func FromContext(c *gin.Context) *Context {
	return c.MustGet(ContextKey).(*Context)
}
