package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/config"
	"github.com/developer-az/food-tracker/internal/handler"
	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/web"
)

const loginURL = "/login/"

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *logrus.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	// backups fall back to the JWT secret when no encryption key is set
	encKey := cfg.Security.EncryptionKey
	if encKey == "" {
		encKey = cfg.JWT.Secret
	}

	// ====== services ======
	foods := service.NewFoodService(db, log)
	entries := service.NewEntryService(db, log, loc)
	goals := service.NewGoalService(db, log)
	summary := service.NewSummaryService(entries, goals, cfg.App.RecentLimit)
	accounts := service.NewAccountService(db, log, cfg.Security, cfg.JWT)
	audit := service.NewAuditService(db, log)
	backups := service.NewBackupService(db, log, cfg.Backup.Dir, encKey)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		gin.Recovery(),
		middleware.Session(accounts, log),
		middleware.Audit(audit, log),
	)

	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	foodHandler := handler.NewFoodHandler(foods, cfg.App.SearchLimit, log)
	entryHandler := handler.NewEntryHandler(foods, entries, goals, summary, cfg.App.HistoryLimit, log)
	authHandler := handler.NewAuthHandler(accounts, cfg.JWT.ExpireHours, cfg.Security.SecureCookies, log)
	exportHandler := handler.NewExportHandler(entries, log)

	// ====== pages ======
	r.GET("/", entryHandler.Home)
	r.GET("/foods/", foodHandler.List)
	r.GET("/api/food-search/", foodHandler.Search)

	r.GET("/register/", authHandler.RegisterPage)
	r.POST("/register/", authHandler.Register)
	r.GET("/login/", authHandler.LoginPage)
	r.POST("/login/", authHandler.Login)
	r.POST("/logout/", authHandler.Logout)

	// session-gated pages
	pages := r.Group("")
	pages.Use(middleware.RequireLogin(loginURL))

	pages.GET("/dashboard/", entryHandler.Dashboard)
	pages.GET("/foods/add/", foodHandler.AddPage)
	pages.POST("/foods/add/", foodHandler.Add)
	pages.GET("/foods/:id/edit/", foodHandler.EditPage)
	pages.POST("/foods/:id/edit/", foodHandler.Edit)
	pages.GET("/log/", entryHandler.LogPage)
	pages.POST("/log/", entryHandler.Log)
	pages.GET("/quick-log/", entryHandler.QuickLogPage)
	pages.POST("/quick-log/", entryHandler.QuickLog)
	pages.GET("/history/", entryHandler.History)
	pages.GET("/weekly/", entryHandler.Weekly)
	pages.GET("/goals/", entryHandler.GoalsPage)
	pages.POST("/goals/", entryHandler.SaveGoals)
	pages.GET("/export/csv/", exportHandler.ExportCSV)
	pages.GET("/export/xlsx/", exportHandler.ExportXLSX)

	// ====== API ======
	api := r.Group("/api")

	// login and register need no session
	api.POST("/auth/register", authHandler.APIRegister)
	api.POST("/auth/login", authHandler.APILogin)

	// everything else requires a signed-in user
	protected := api.Group("")
	protected.Use(middleware.RequireAPIUser())

	protected.GET("/me", handler.GetMe)

	profileHandler := handler.NewProfileHandler(accounts, backups, log)
	protected.POST("/profile", profileHandler.UpdateProfile)
	protected.POST("/profile/password", profileHandler.ChangePassword)
	protected.POST("/profile/delete", profileHandler.DeleteAccount)

	backupHandler := handler.NewBackupHandler(backups, log)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(audit, log)
	protected.GET("/logs", logHandler.ListLogs)

	return r, nil
}
