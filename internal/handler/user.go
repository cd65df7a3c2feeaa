package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"email":        u.Email,
		"display_name": u.DisplayName(),
		"created_at":   u.CreatedAt,
	}
}

// GetMe returns the signed-in user.
func GetMe(c *gin.Context) {
	util.Success(c, util.Response{
		"user": userJSON(middleware.CurrentUser(c)),
	})
}
