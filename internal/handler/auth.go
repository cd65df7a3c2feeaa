package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/forms"
	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

// AuthHandler handles registration, login and logout for both the HTML
// pages (session cookie) and the JSON API (bearer token).
type AuthHandler struct {
	Accounts      *service.AccountService
	TokenTTL      time.Duration
	SecureCookies bool
	Now           func() time.Time

	log *logrus.Entry
}

func NewAuthHandler(accounts *service.AccountService, ttlHours int, secureCookies bool, log *logrus.Logger) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Accounts:      accounts,
		TokenTTL:      time.Duration(ttlHours) * time.Hour,
		SecureCookies: secureCookies,
		Now:           time.Now,
		log:           log.WithField("handler", "auth"),
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.TokenTTL.Seconds()), "/", "", h.SecureCookies, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
}

// signIn starts a session for user and marks the request as signed in.
func (h *AuthHandler) signIn(c *gin.Context, user *models.User) (string, error) {
	token, sess, err := h.Accounts.StartSession(c.Request.Context(), user, c.ClientIP(), h.Now())
	if err != nil {
		return "", err
	}
	middleware.SetUser(c, user, sess)
	return token, nil
}

// ---------- register ----------

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard/")
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{"form": forms.RegisterForm{}})
}

// Register creates the account with its default goal, signs the user in and
// redirects to the dashboard.
func (h *AuthHandler) Register(c *gin.Context) {
	var form forms.RegisterForm
	_ = c.ShouldBind(&form)

	user, err := h.register(c, &form)
	if err != nil {
		if ve, ok := formErrors(err, "username", "A user with that username already exists."); ok {
			form.Password1, form.Password2 = "", ""
			render(c, http.StatusOK, "register.html", gin.H{"form": form, "errors": ve})
			return
		}
		serverError(c, h.log, err)
		return
	}

	token, err := h.signIn(c, user)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, token)
	c.Set(middleware.AuditAction, "registered")
	addFlash(c, "success", "Account created successfully!")
	c.Redirect(http.StatusFound, "/dashboard/")
}

func (h *AuthHandler) register(c *gin.Context, form *forms.RegisterForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return h.Accounts.Register(c.Request.Context(), service.Registration{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password1,
	})
}

// APIRegister is the JSON form of Register.
func (h *AuthHandler) APIRegister(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	user, err := h.register(c, &form)
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	util.Success(c, util.Response{"user": userJSON(user)})
}

// ---------- login ----------

func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"), "/dashboard/")
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, next)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"form": forms.LoginForm{Next: next}})
}

func (h *AuthHandler) authenticate(c *gin.Context, form *forms.LoginForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return h.Accounts.Authenticate(c.Request.Context(), form.Username, form.Password, c.ClientIP(), h.Now())
}

func loginMessage(err error) string {
	if errors.Is(err, service.ErrAccountLocked) {
		return "Too many failed attempts. Please try again later."
	}
	return "Please enter a correct username and password. Note that both fields may be case-sensitive."
}

// Login signs the user in and redirects to next.
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	next := safeNext(form.Next, "/dashboard/")

	user, err := h.authenticate(c, &form)
	if err != nil {
		ve, ok := util.AsValidation(err)
		switch {
		case ok:
		case errors.Is(err, util.ErrUnauthenticated):
			ve = &util.ValidationError{}
			ve.Add("", loginMessage(err))
		default:
			serverError(c, h.log, err)
			return
		}
		form.Password = ""
		render(c, http.StatusOK, "login.html", gin.H{"form": form, "errors": ve})
		return
	}

	token, err := h.signIn(c, user)
	if err != nil {
		serverError(c, h.log, err)
		return
	}
	h.setSessionCookie(c, token)
	c.Set(middleware.AuditAction, "logged in")
	c.Redirect(http.StatusFound, next)
}

// APILogin returns a bearer token.
func (h *AuthHandler) APILogin(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	user, err := h.authenticate(c, &form)
	if err != nil {
		if errors.Is(err, util.ErrUnauthenticated) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, loginMessage(err))
			return
		}
		apiError(c, h.log, err)
		return
	}
	token, err := h.signIn(c, user)
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "logged in")
	util.Success(c, util.Response{
		"token":      token,
		"expires_in": int(h.TokenTTL.Seconds()),
		"user":       userJSON(user),
	})
}

// ---------- logout ----------

// Logout revokes the current session and returns to the landing page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := h.Accounts.EndSession(c.Request.Context(), sess.ID); err != nil {
			h.log.WithError(err).Warn("end session")
		}
		c.Set(middleware.AuditAction, "logged out")
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}
