package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

// LogHandler serves the audit log API.
type LogHandler struct {
	Audit *service.AuditService
	log   *logrus.Entry
}

func NewLogHandler(audit *service.AuditService, log *logrus.Logger) *LogHandler {
	return &LogHandler{Audit: audit, log: log.WithField("handler", "log")}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListLogs pages through the current user's audit log, filtered by date
// range and keyword.
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	q := service.AuditQuery{
		Page:     page,
		PageSize: size,
		Keyword:  strings.TrimSpace(c.Query("q")),
	}

	// start and end are YYYY-MM-DD; end is inclusive
	if s := c.Query("start"); s != "" {
		if err := util.ValidateDate(s); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start: "+err.Error())
			return
		}
		q.Start, _ = time.Parse("2006-01-02", s)
	}
	if s := c.Query("end"); s != "" {
		if err := util.ValidateDate(s); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end: "+err.Error())
			return
		}
		end, _ := time.Parse("2006-01-02", s)
		q.End = end.AddDate(0, 0, 1)
	}

	logs, total, err := h.Audit.List(c.Request.Context(), middleware.CurrentUser(c).ID, q)
	if err != nil {
		apiError(c, h.log, err)
		return
	}

	items := make([]logResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, logResp{
			ID:        l.ID,
			Action:    l.Action,
			Path:      l.Path,
			Method:    l.Method,
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  q.Page,
		"size":  q.PageSize,
	})
}
