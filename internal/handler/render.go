package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

const flashCookie = "nt_flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"` // success | error | info
	Message string `json:"message"`
}

func readFlashCookie(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var out []Flash
	if json.Unmarshal(b, &out) != nil {
		return nil
	}
	return out
}

// addFlash queues a message for the page after the next redirect.
func addFlash(c *gin.Context, level, msg string) {
	flashes := append(readFlashCookie(c), Flash{Level: level, Message: msg})
	b, _ := json.Marshal(flashes)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

// takeFlashes returns queued messages and clears them.
func takeFlashes(c *gin.Context) []Flash {
	flashes := readFlashCookie(c)
	if flashes != nil {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	return flashes
}

var pageTitles = map[string]string{
	"home.html":      "Home",
	"dashboard.html": "Dashboard",
	"food_list.html": "Foods",
	"food_form.html": "Food",
	"log_food.html":  "Log food",
	"quick_log.html": "Quick log",
	"history.html":   "History",
	"weekly.html":    "Weekly summary",
	"goals.html":     "Goals",
	"login.html":     "Log in",
	"register.html":  "Register",
}

// render executes a page template with the values every page needs.
// Extra messages are shown alongside the queued flashes.
func render(c *gin.Context, status int, page string, data gin.H, extra ...Flash) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = middleware.CurrentUser(c)
	data["flashes"] = append(takeFlashes(c), extra...)
	data["meal_types"] = models.MealTypes
	data["path"] = c.Request.URL.Path
	if _, ok := data["title"]; !ok {
		data["title"] = pageTitles[page]
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = (*util.ValidationError)(nil)
	}
	c.HTML(status, page, data)
}

// serverError logs err and shows a generic error page.
func serverError(c *gin.Context, log *logrus.Entry, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title":   "Error",
		"user":    middleware.CurrentUser(c),
		"status":  http.StatusInternalServerError,
		"message": "Something went wrong. Please try again.",
	})
}

// apiError writes err as a JSON envelope.
func apiError(c *gin.Context, log *logrus.Entry, err error) {
	if ve, ok := util.AsValidation(err); ok {
		util.ValidationFailed(c, ve)
		return
	}
	switch {
	case errors.Is(err, util.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "not found")
	case errors.Is(err, util.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, "already exists")
	case errors.Is(err, util.ErrUnauthenticated):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("api request failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// formErrors extracts the field errors carried by err. A unique-index
// conflict is reported on field with msg.
func formErrors(err error, field, msg string) (*util.ValidationError, bool) {
	if ve, ok := util.AsValidation(err); ok {
		return ve, true
	}
	if errors.Is(err, util.ErrConflict) {
		return util.NewValidationError(field, msg), true
	}
	return nil, false
}

// safeNext keeps redirects on this site.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return fallback
	}
	return next
}
