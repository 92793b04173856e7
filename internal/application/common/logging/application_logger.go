package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ApplicationLogger defines the interface for structured application logging.
type ApplicationLogger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	ErrorWithError(ctx context.Context, err error, message string, fields Fields)
	WithComponent(component string) ApplicationLogger
	Sync() error
}

// Fields represents structured logging fields.
type Fields map[string]interface{}

// Config represents logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, writer
	// Writer receives entries when Output is "writer" (used by tests).
	Writer io.Writer
	// FilePath, when set, additionally writes JSON entries to a rotated file.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Output destinations.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputWriter = "writer"
)

const defaultComponent = "codycli"

type applicationLoggerImpl struct {
	logger    *zap.Logger
	component string
}

// NewApplicationLogger creates a zap-backed application logger.
func NewApplicationLogger(config Config) (ApplicationLogger, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	level, _ := zapcore.ParseLevel(strings.ToLower(config.Level))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	switch config.Output {
	case OutputWriter:
		sink = zapcore.AddSync(config.Writer)
	case OutputStdout:
		sink = zapcore.Lock(os.Stdout)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)

	if config.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    withDefault(config.MaxSizeMB, 10),
			MaxBackups: withDefault(config.MaxBackups, 5),
			MaxAge:     withDefault(config.MaxAgeDays, 30),
			Compress:   true,
		}
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level)
		core = zapcore.NewTee(core, fileCore)
	}

	return &applicationLoggerImpl{
		logger:    zap.New(core),
		component: defaultComponent,
	}, nil
}

func withDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func validateConfig(config Config) error {
	if _, err := zapcore.ParseLevel(strings.ToLower(config.Level)); err != nil || config.Level == "" {
		return fmt.Errorf("invalid log level: %s", config.Level)
	}

	if config.Format != "json" && config.Format != "text" {
		return fmt.Errorf("invalid log format: %s", config.Format)
	}

	switch config.Output {
	case OutputStdout, OutputStderr:
	case OutputWriter:
		if config.Writer == nil {
			return fmt.Errorf("log output %q requires a writer", OutputWriter)
		}
	default:
		return fmt.Errorf("invalid log output: %s", config.Output)
	}

	return nil
}

func (l *applicationLoggerImpl) Debug(ctx context.Context, message string, fields Fields) {
	l.log(ctx, zapcore.DebugLevel, message, nil, fields)
}

func (l *applicationLoggerImpl) Info(ctx context.Context, message string, fields Fields) {
	l.log(ctx, zapcore.InfoLevel, message, nil, fields)
}

func (l *applicationLoggerImpl) Warn(ctx context.Context, message string, fields Fields) {
	l.log(ctx, zapcore.WarnLevel, message, nil, fields)
}

func (l *applicationLoggerImpl) Error(ctx context.Context, message string, fields Fields) {
	l.log(ctx, zapcore.ErrorLevel, message, nil, fields)
}

func (l *applicationLoggerImpl) ErrorWithError(ctx context.Context, err error, message string, fields Fields) {
	l.log(ctx, zapcore.ErrorLevel, message, err, fields)
}

// WithComponent returns a logger that tags entries with the component name.
func (l *applicationLoggerImpl) WithComponent(component string) ApplicationLogger {
	return &applicationLoggerImpl{logger: l.logger, component: component}
}

func (l *applicationLoggerImpl) Sync() error {
	return l.logger.Sync()
}

func (l *applicationLoggerImpl) log(ctx context.Context, level zapcore.Level, message string, err error, fields Fields) {
	ce := l.logger.Check(level, message)
	if ce == nil {
		return
	}

	zapFields := make([]zap.Field, 0, len(fields)+3)
	zapFields = append(zapFields, zap.String("component", l.component))
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		zapFields = append(zapFields, zap.String("correlation_id", correlationID))
	}
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}

	ce.Write(zapFields...)
}
