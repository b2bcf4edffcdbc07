package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/paycrest/bridge-wallet/config"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.Level = logrus.InfoLevel
	logger.Formatter = &formatter{}
	cfg := config.ServerConfig()

	if cfg.Debug {
		logger.Level = logrus.DebugLevel
	}

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		})
		if err != nil {
			logger.Fatalf("Sentry initialization failed: %v", err)
		}
	} else if cfg.Environment != "test" {
		ex, err := os.Executable()
		if err != nil {
			logger.Errorf("Failed to get the executable path: %v", err)
			return
		}
		filePath := filepath.Join(filepath.Dir(ex), "logs.txt")
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.Out = file
		} else {
			logger.Errorf("Failed to open logs.txt: %v", err)
		}
	}
}

// SetOutput redirects log output, used by tests to capture log lines.
func SetOutput(out io.Writer) {
	logger.Out = out
}

// SetLogLevel sets the log level for the logger.
func SetLogLevel(level logrus.Level) {
	logger.Level = level
}

// Fields type, used to pass to `WithFields`.
type Fields logrus.Fields

// Entry is a log entry carrying structured fields.
type Entry struct {
	fields Fields
}

// WithFields returns an entry that logs with the given fields attached.
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// Debugf logs a message at level Debug
func (e *Entry) Debugf(format string, args ...interface{}) {
	logger.WithFields(logrus.Fields(e.fields)).Debugf(format, args...)
}

// Infof logs a message at level Info
func (e *Entry) Infof(format string, args ...interface{}) {
	logger.WithFields(logrus.Fields(e.fields)).Infof(format, args...)
}

// Warnf logs a message at level Warn and reports it to Sentry
func (e *Entry) Warnf(format string, args ...interface{}) {
	if logger.Level < logrus.WarnLevel {
		return
	}
	capture(sentry.LevelWarning, fmt.Sprintf(format, args...), e.fields)
	logger.WithFields(logrus.Fields(e.fields)).Warnf(format, args...)
}

// Errorf logs a message at level Error and reports it to Sentry
func (e *Entry) Errorf(format string, args ...interface{}) {
	if logger.Level < logrus.ErrorLevel {
		return
	}
	capture(sentry.LevelError, fmt.Sprintf(format, args...), e.fields)
	logger.WithFields(logrus.Fields(e.fields)).Errorf(format, args...)
}

// Debugf logs a message at level Debug
func Debugf(format string, args ...interface{}) {
	WithFields(nil).Debugf(format, args...)
}

// Infof logs a message at level Info
func Infof(format string, args ...interface{}) {
	WithFields(nil).Infof(format, args...)
}

// Warnf logs a message at level Warn
func Warnf(format string, args ...interface{}) {
	WithFields(nil).Warnf(format, args...)
}

// Errorf logs a message at level Error
func Errorf(format string, args ...interface{}) {
	WithFields(nil).Errorf(format, args...)
}

// Fatalf logs a fatal message and exits
func Fatalf(format string, args ...interface{}) {
	capture(sentry.LevelFatal, fmt.Sprintf(format, args...), nil)
	sentry.Flush(2 * time.Second)
	logger.Fatalf(format, args...)
}

// ErrorWithFields logs an error with additional context
func ErrorWithFields(err error, fields Fields) {
	if logger.Level < logrus.ErrorLevel {
		return
	}
	wrappedErr := fmt.Errorf("error occurred: %w", err)
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		applyFields(scope, fields)
		sentry.CaptureException(wrappedErr)
	})
	logger.WithFields(logrus.Fields(fields)).Error(wrappedErr.Error())
}

func capture(level sentry.Level, msg string, fields Fields) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		applyFields(scope, fields)
		sentry.CaptureMessage(msg)
	})
}

func applyFields(scope *sentry.Scope, fields Fields) {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			scope.SetTag(key, v)
		default:
			scope.SetExtra(key, value)
		}
	}
}

// Formatter implements logrus.Formatter interface
type formatter struct {
	prefix string
}

// Format building log message
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb bytes.Buffer
	sb.WriteString(strings.ToUpper(entry.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(entry.Time.Format(time.RFC3339))
	sb.WriteString(" ")
	sb.WriteString(f.prefix)
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteString(" [")
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("%s=%v ", key, entry.Data[key]))
		}
		sb.WriteString("]")
	}
	sb.WriteString("\n")

	return sb.Bytes(), nil
}
