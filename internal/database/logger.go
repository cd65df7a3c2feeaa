package database

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// GormLogger sends gorm's SQL log to logrus.
type GormLogger struct {
	log   *logrus.Entry
	level logger.LogLevel
}

// NewGormLogger wraps log. A nil log discards everything.
func NewGormLogger(log *logrus.Logger) *GormLogger {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &GormLogger{
		log:   log.WithField("component", "gorm"),
		level: logger.Warn,
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.log.WithContext(ctx).Errorf(msg, args...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.log.WithContext(ctx).WithFields(logrus.Fields{
		"elapsed": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		entry.WithError(err).Error(sql)
	case elapsed > slowQuery && l.level >= logger.Warn:
		entry.Warn("slow query: " + sql)
	case l.level >= logger.Info:
		entry.Info(sql)
	}
}
