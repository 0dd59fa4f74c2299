package logger

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:generate mockgen -source=logger.go -destination=../mocks/logger.go -package=mocks
type Logger interface {
	Info(message string, fields ...interface{})
	Debug(message string, fields ...interface{})
	Error(message string, err error, fields ...interface{})
	Fatal(message string, err error, fields ...interface{})
	With(fields ...interface{}) Logger
}

type LoggerZapImpl struct {
	env    string
	logger *zap.Logger
}

// NoOpLogger discards everything. Returned by NewLogger while running under go test.
type NoOpLogger struct{}

func (l *NoOpLogger) Info(message string, fields ...interface{})             {}
func (l *NoOpLogger) Debug(message string, fields ...interface{})            {}
func (l *NoOpLogger) Error(message string, err error, fields ...interface{}) {}
func (l *NoOpLogger) Fatal(message string, err error, fields ...interface{}) {}
func (l *NoOpLogger) With(fields ...interface{}) Logger                      { return l }

// NewNoOpLogger returns a logger that discards all logs
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

func isTestMode() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// NewLogger initializes a zap backed logger for the given environment
func NewLogger(env string) (Logger, error) {
	if isTestMode() {
		return NewNoOpLogger(), nil
	}
	return newZapLogger(env)
}

func newZapLogger(env string) (*LoggerZapImpl, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &LoggerZapImpl{
		env:    env,
		logger: zapLogger,
	}, nil
}

func (l *LoggerZapImpl) Info(message string, fields ...interface{}) {
	l.logger.Info(message, parseFields(fields...)...)
}

func (l *LoggerZapImpl) Debug(message string, fields ...interface{}) {
	if l.env == "development" {
		l.logger.Debug(message, parseFields(fields...)...)
	}
}

func (l *LoggerZapImpl) Error(message string, err error, fields ...interface{}) {
	if err == nil {
		l.logger.Error(message, parseFields(fields...)...)
		return
	}
	fields = append(fields, "error", err.Error())
	l.logger.Error(message, parseFields(fields...)...)
}

func (l *LoggerZapImpl) Fatal(message string, err error, fields ...interface{}) {
	if err == nil {
		err = errors.New("unknown error")
	}
	fields = append(fields, "error", err.Error())
	l.logger.Fatal(message, parseFields(fields...)...)
}

// With returns a child logger that adds the key/value pairs to every entry
func (l *LoggerZapImpl) With(fields ...interface{}) Logger {
	return &LoggerZapImpl{
		env:    l.env,
		logger: l.logger.With(parseFields(fields...)...),
	}
}

func parseFields(kv ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			key, ok := kv[i].(string)
			if !ok {
				continue
			}
			val := kv[i+1]
			fields = append(fields, zap.Any(key, val))
		}
	}
	return fields
}
