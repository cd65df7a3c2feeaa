package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
)

// AuditQuery filters a user's audit log. Zero values mean no filter.
type AuditQuery struct {
	Page     int
	PageSize int
	Start    time.Time // inclusive
	End      time.Time // exclusive
	Keyword  string
}

// AuditService stores and lists the audit trail of state-changing requests.
type AuditService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewAuditService(db *gorm.DB, log *logrus.Logger) *AuditService {
	return &AuditService{db: db, log: scoped(log, "audit")}
}

func (s *AuditService) Record(ctx context.Context, l *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Omit("User").Create(l).Error; err != nil {
		return fmt.Errorf("record audit log: %w", err)
	}
	return nil
}

// List returns one page of the user's log, newest first, and the total
// number of matching rows.
func (s *AuditService) List(ctx context.Context, userID uint, q AuditQuery) ([]models.AuditLog, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if !q.Start.IsZero() {
		base = base.Where("created_at >= ?", q.Start)
	}
	if !q.End.IsZero() {
		base = base.Where("created_at < ?", q.End)
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		p := containsPattern(kw)
		base = base.Where(`(LOWER(path) LIKE LOWER(?) ESCAPE '\' OR LOWER(action) LIKE LOWER(?) ESCAPE '\')`, p, p)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	var logs []models.AuditLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
