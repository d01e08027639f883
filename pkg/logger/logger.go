package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is a printf-style facade over logrus. Each level writes JSON lines
// tagged with the component that produced them.
type Logger struct {
	base  *logrus.Logger
	info  *logrus.Entry
	warn  *logrus.Entry
	error *logrus.Entry
}

func New() *Logger {
	return NewWithOutput(os.Stdout)
}

func NewWithOutput(out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	base.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		base.SetLevel(lvl)
	}

	entry := logrus.NewEntry(base).WithField("source", "app")
	return &Logger{
		base:  base,
		info:  entry,
		warn:  entry,
		error: entry,
	}
}

// With returns a child logger carrying an extra field on every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		base:  l.base,
		info:  l.info.WithField(key, value),
		warn:  l.warn.WithField(key, value),
		error: l.error.WithField(key, value),
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.info.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.warn.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.error.Errorf(format, v...)
}

// Writer exposes the logger as an io.Writer for gin's request log.
func (l *Logger) Writer() io.Writer {
	return l.info.WithField("source", "gin").WriterLevel(logrus.InfoLevel)
}

// Gorm returns an adapter that routes SQL logs through the same sink.
func (l *Logger) Gorm(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{
		entry:         l.info.WithField("source", "gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
}

type gormLogger struct {
	entry         *logrus.Entry
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.entry.WithField("data", data).Info(msg)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.entry.WithField("data", data).Warn(msg)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.entry.WithField("data", data).Error(msg)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := logrus.Fields{
		"elapsed": elapsed.String(),
		"sql":     sql,
		"rows":    rows,
	}

	switch {
	case err != nil && g.level >= gormlogger.Error && !isRecordNotFound(err):
		fields["error"] = err.Error()
		g.entry.WithFields(fields).Error("SQL query error")
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		g.entry.WithFields(fields).Warn("Slow SQL query")
	case g.level >= gormlogger.Info:
		g.entry.WithFields(fields).Debug("SQL query executed")
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gormlogger.ErrRecordNotFound)
}
