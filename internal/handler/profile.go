package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/forms"
	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

// ProfileHandler edits the signed-in user's account over JSON.
type ProfileHandler struct {
	Accounts *service.AccountService
	Backups  *service.BackupService
	log      *logrus.Entry
}

func NewProfileHandler(accounts *service.AccountService, backups *service.BackupService, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Accounts: accounts, Backups: backups, log: log.WithField("handler", "profile")}
}

// UpdateProfile changes name and email.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	user, err := h.Accounts.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "updated profile")
	util.Success(c, util.Response{"user": userJSON(user)})
}

// ChangePasswordReq is the password change request body.
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword stores a new password and signs out every other session.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if !forms.IsStrongPassword(req.NewPassword) {
		util.ValidationFailed(c, util.NewValidationError("new_password",
			"Password must be 8-32 characters and contain upper-case, lower-case letters and digits."))
		return
	}

	keep := ""
	if sess := middleware.CurrentSession(c); sess != nil {
		keep = sess.ID
	}
	if err := h.Accounts.ChangePassword(c.Request.Context(), middleware.CurrentUser(c).ID, req.OldPassword, req.NewPassword, keep); err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "changed password")
	util.Success(c, util.Response{"message": "password changed"})
}

// DeleteAccountReq confirms account deletion.
type DeleteAccountReq struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccount removes the user with all their entries, goal and backups.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	backups, err := h.Backups.List(ctx, user.ID)
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	if err := h.Accounts.DeleteAccount(ctx, user.ID, req.Password); err != nil {
		apiError(c, h.log, err)
		return
	}
	h.Backups.RemoveFiles(backups)
	middleware.ClearUser(c)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{"message": "account deleted"})
}
