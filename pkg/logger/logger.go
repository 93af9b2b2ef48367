package logger

import (
	"context"
	"os"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/config"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/requestid"
	sqldblogger "github.com/simukti/sqldb-logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a logger that supports log levels, context and structured logging.
type Logger interface {
	// With returns a logger based off the root logger and decorates it with
	// the given context and arguments.
	With(ctx context.Context, args ...interface{}) Logger

	// Debug uses fmt.Sprint to construct and log a message at DEBUG level.
	Debug(args ...interface{})
	// Info uses fmt.Sprint to construct and log a message at INFO level.
	Info(args ...interface{})
	// Warn uses fmt.Sprint to construct and log a message at WARN level.
	Warn(args ...interface{})
	// Error uses fmt.Sprint to construct and log a message at ERROR level.
	Error(args ...interface{})

	// Debugf uses fmt.Sprintf to construct and log a message at DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof uses fmt.Sprintf to construct and log a message at INFO level.
	Infof(format string, args ...interface{})
	// Warnf uses fmt.Sprintf to construct and log a message at WARN level.
	Warnf(format string, args ...interface{})
	// Errorf uses fmt.Sprintf to construct and log a message at ERROR level.
	Errorf(format string, args ...interface{})

	// Sync flushes any buffered log entries.
	Sync() error

	// Log is used by sqldb-logger to write database queries.
	sqldblogger.Logger
}

type logger struct {
	*zap.SugaredLogger
}

var _ Logger = (*logger)(nil)

// New creates a new logger using the application configuration.
// Entries go to stdout and, when a path is configured, to a rotated file.
func New(cfg *config.Config) Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Logger.Level != "" {
		if l, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
			level.SetLevel(l)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if cfg.Logger.Path != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Logger.Path,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAge:     cfg.Logger.MaxAgeDays,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)

	return NewWithZap(zap.New(core, zap.AddCaller()))
}

// NewWithZap creates a new logger using the pre-configured zap logger.
func NewWithZap(l *zap.Logger) Logger {
	return &logger{l.Sugar()}
}

// NewForTest returns a new logger and the corresponding observed logs
// which can be used in unit tests to verify log entries.
func NewForTest() (Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewWithZap(zap.New(core)), recorded
}

// With returns a logger based off the root logger and decorates it
// with the given context and arguments.
//
// If the context contains a request ID, it will be added
// to every log message generated by the new logger.
func (l *logger) With(ctx context.Context, args ...interface{}) Logger {
	if ctx != nil {
		if id, ok := requestid.FromContext(ctx); ok {
			args = append(args, zap.String("request_id", id))
		}
	}
	if len(args) > 0 {
		return &logger{l.SugaredLogger.With(args...)}
	}
	return l
}

// Log implements sqldblogger.Logger.
func (l *logger) Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]interface{}) {
	kv := make([]interface{}, 0, 2*len(data)+2)
	for k, v := range data {
		kv = append(kv, k, v)
	}
	if id, ok := requestid.FromContext(ctx); ok {
		kv = append(kv, "request_id", id)
	}

	switch level {
	case sqldblogger.LevelError:
		l.Errorw(msg, kv...)
	case sqldblogger.LevelInfo:
		l.Infow(msg, kv...)
	default:
		l.Debugw(msg, kv...)
	}
}
