package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/models"
)

// AuditAction is the context key a handler sets to describe what a request
// did, e.g. "logged 118g of Banana".
const AuditAction = "auditAction"

// RequestLogger logs one line per request.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if u := CurrentUser(c); u != nil {
			fields["user_id"] = u.ID
		}
		entry := log.WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// AuditRecorder persists audit rows.
type AuditRecorder interface {
	Record(ctx context.Context, l *models.AuditLog) error
}

// Audit records every state-changing request made by a signed-in user.
// Request bodies are never stored.
func Audit(rec AuditRecorder, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}
		user := CurrentUser(c)
		if user == nil {
			return
		}

		action := c.Request.Method + " " + c.Request.URL.Path
		if v := c.GetString(AuditAction); v != "" {
			action = v
		}
		entry := &models.AuditLog{
			UserID:    user.ID,
			Method:    c.Request.Method,
			Path:      truncate(c.Request.URL.Path, 255),
			Action:    truncate(action, 255),
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: truncate(c.Request.UserAgent(), 255),
			CreatedAt: time.Now().UTC(),
		}
		if err := rec.Record(c.Request.Context(), entry); err != nil {
			log.WithError(err).Warn("audit")
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
