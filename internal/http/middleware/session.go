package middleware

import (
	"net/http"

	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "storyforge.session"

// Session resolves the caller's workspace from the session header, falling
// back to the cookie. The resolved id is echoed in both so that clients can
// pick it up from whichever they read. The session is locked for the rest of
// the chain: one request at a time per session.
func Session(manager *session.Manager, cfg config.SessionConfig, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := c.GetHeader(cfg.HeaderName)
		if requested == "" {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				requested = cookie
			}
		}

		sess, _ := manager.Resolve(requested)

		c.Header(cfg.HeaderName, sess.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sess.ID, int(cfg.IdleTTL.Seconds()), "/", "", secureCookie, true)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			SessionID: logger.Ptr(sess.ID),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionContextKey, sess)

		sess.Lock()
		defer sess.Unlock()

		c.Next()
	}
}

// SessionFrom returns the session stored by Session. It panics when the
// middleware is not installed, which Recovery reports as a 500.
func SessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}
