// Package logger wraps logrus with the fields the club service logs on every
// request, lifecycle transition and ledger write.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"trips-club/internal/config"
)

// Logger wraps logrus.Logger with domain helpers
type Logger struct {
	*logrus.Logger
}

// Fields represents a map of fields for structured logging
type Fields map[string]interface{}

// New creates a new logger instance
func New(cfg *config.LoggingConfig) (*Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	var output io.Writer = os.Stdout
	if cfg.Output == "file" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, err
		}
		output = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	}
	logger.SetOutput(output)

	return &Logger{Logger: logger}, nil
}

// WithFields adds fields to log entry
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// LogRequest records one served HTTP request
func (l *Logger) LogRequest(requestID, method, path, clientIP string, statusCode int, durationMs int64) {
	entry := l.WithFields(Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"client_ip":   clientIP,
		"status_code": statusCode,
		"duration_ms": durationMs,
		"type":        "request",
	})

	switch {
	case statusCode >= 500:
		entry.Error("HTTP request")
	case statusCode >= 400:
		entry.Warn("HTTP request")
	default:
		entry.Info("HTTP request")
	}
}

// LogSecurity records rejected or suspicious requests
func (l *Logger) LogSecurity(event string, userID uint, ip string, details map[string]interface{}) {
	fields := Fields{
		"event":   event,
		"user_id": userID,
		"ip":      ip,
		"type":    "security",
	}
	for k, v := range details {
		fields[k] = v
	}
	l.WithFields(fields).Warn("Security event")
}

// LogTransition records a proposal status change
func (l *Logger) LogTransition(tripID uint, from, to, action string) {
	l.WithFields(Fields{
		"trip_id": tripID,
		"from":    from,
		"to":      to,
		"action":  action,
		"type":    "lifecycle",
	}).Info("Proposal transition")
}

// LogCredit records a credit ledger write
func (l *Logger) LogCredit(userID uint, amountCents int64, txType, referenceType, referenceID string) {
	l.WithFields(Fields{
		"user_id":        userID,
		"amount_cents":   amountCents,
		"tx_type":        txType,
		"reference_type": referenceType,
		"reference_id":   referenceID,
		"type":           "credit",
	}).Info("Credit transaction")
}

var defaultLogger *Logger

// Init initializes the default logger
func Init(cfg *config.LoggingConfig) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	defaultLogger = logger
	return nil
}

// Get returns the default logger, falling back to a stdout logger at info
// level when Init has not been called (tests, CLI subcommands).
func Get() *Logger {
	if defaultLogger == nil {
		defaultLogger = &Logger{Logger: logrus.StandardLogger()}
	}
	return defaultLogger
}

func WithFields(fields Fields) *logrus.Entry {
	return Get().WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return Get().WithError(err)
}

func Info(args ...interface{}) {
	Get().Info(args...)
}

func Warn(args ...interface{}) {
	Get().Warn(args...)
}

func Error(args ...interface{}) {
	Get().Error(args...)
}

func Fatalf(format string, args ...interface{}) {
	Get().Fatalf(format, args...)
}
