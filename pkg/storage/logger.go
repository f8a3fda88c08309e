// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm's messages into logrus.
type gormLogger struct {
	log           *logrus.Entry
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

func newGormLogger(log *logrus.Logger, slowThreshold time.Duration) *gormLogger {
	return &gormLogger{
		log:           log.WithField("logger", "gorm"),
		slowThreshold: slowThreshold,
		level:         gormlogger.Warn,
	}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.WithContext(ctx).Errorf(msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := g.log.WithContext(ctx).WithFields(logrus.Fields{
		"elapsedMs": elapsed.Milliseconds(),
		"rows":      rowsLabel(rows),
		"sql":       sql,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		entry.WithError(err).Error("sql failed")
	case g.slowThreshold != 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		entry.Warnf("slow sql, threshold %s", g.slowThreshold)
	default:
		entry.Debug("sql completed")
	}
}

func rowsLabel(rows int64) string {
	if rows == -1 {
		return "-"
	}
	return fmt.Sprintf("%d", rows)
}
