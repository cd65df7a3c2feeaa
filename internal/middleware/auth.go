package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// SessionCookie holds the signed session token.
const SessionCookie = "nt_session"

const (
	ctxUser    = "currentUser"
	ctxSession = "currentSession"
)

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string, now time.Time) (*models.User, *models.Session, error)
}

// Session loads the signed-in user, if any, into the context. It never
// rejects a request; RequireLogin and RequireAPIUser do that.
func Session(resolver SessionResolver, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token != "" {
			user, sess, err := resolver.ResolveSession(c.Request.Context(), token, time.Now())
			switch {
			case err == nil:
				c.Set(ctxUser, user)
				c.Set(ctxSession, sess)
			case !errors.Is(err, util.ErrUnauthenticated):
				log.WithError(err).Error("resolve session")
			}
		}
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	// Header: Authorization: Bearer xxx
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentSession returns the session of the signed-in user or nil.
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

// SetUser marks c as signed in. Used right after login and registration so
// the rest of the request, including auditing, sees the user.
func SetUser(c *gin.Context, user *models.User, sess *models.Session) {
	c.Set(ctxUser, user)
	c.Set(ctxSession, sess)
}

// ClearUser forgets the signed-in user for the rest of the request.
func ClearUser(c *gin.Context) {
	c.Set(ctxUser, nil)
	c.Set(ctxSession, nil)
}

// RequireLogin redirects anonymous visitors to loginURL with a next
// parameter pointing back at the requested page.
func RequireLogin(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			target := loginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIUser rejects anonymous JSON requests with 401.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
