package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field - alias to the zap field
type Field = zapcore.Field

var (
	// String - constructs a field with the given key and string value
	String = zap.String
	// Int - constructs a field with the given key and int value
	Int = zap.Int
	// Bool - constructs a field with the given key and bool value
	Bool = zap.Bool
	// Float64 - constructs a field with the given key and float64 value
	Float64 = zap.Float64
	// Any - takes a key and an arbitrary value and chooses the best way to represent them
	Any = zap.Any
	// Error - constructs a field that carries an error
	Error = zap.Error
)

// Logger - methods that application logger must have
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
}

type loggerImpl struct {
	zap *zap.Logger
}

// New - returns the logger with the given level and service name
func New(level string, namespace string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &loggerImpl{
		zap: zapLogger.Named(namespace),
	}
}

// NewNop - returns a logger that never writes, used in tests
func NewNop() Logger {
	return &loggerImpl{zap: zap.NewNop()}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *loggerImpl) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *loggerImpl) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *loggerImpl) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *loggerImpl) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }
func (l *loggerImpl) Fatal(msg string, fields ...Field) { l.zap.Fatal(msg, fields...) }
