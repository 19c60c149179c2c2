// Package monitoring provides the observability adapters: the zap-backed
// logger and the Prometheus metrics of the authentication core.
package monitoring

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/logger"
)

var _ logger.Logger = (*zapLogger)(nil)

type zapLogger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// NewZapLogger builds the production logger: JSON (or console) encoding to
// stdout with an atomically adjustable level, so the config watcher can
// retune verbosity without a restart.
func NewZapLogger(cfg *config.LogConfig) (logger.Logger, error) {
	parsed, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	level := zap.NewAtomicLevelAt(parsed)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	return &zapLogger{
		zl:    zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)),
		level: level,
	}, nil
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Debug(msg, l.convert(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Info(msg, l.convert(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.zl.Warn(msg, l.convert(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	l.zl.Error(msg, l.convert(ctx, fields)...)
}

func (l *zapLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Field) {
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	l.zl.Fatal(msg, l.convert(ctx, fields)...)
}

func (l *zapLogger) WithFields(fields ...logger.Field) logger.Logger {
	return &zapLogger{zl: l.zl.With(l.convert(context.Background(), fields)...), level: l.level}
}

func (l *zapLogger) WithComponent(component string) logger.Logger {
	return &zapLogger{zl: l.zl.With(zap.String("component", component)), level: l.level}
}

func (l *zapLogger) SetLevel(level constants.LogLevel) {
	switch level {
	case constants.LogLevelDebug:
		l.level.SetLevel(zapcore.DebugLevel)
	case constants.LogLevelInfo:
		l.level.SetLevel(zapcore.InfoLevel)
	case constants.LogLevelWarn:
		l.level.SetLevel(zapcore.WarnLevel)
	case constants.LogLevelError:
		l.level.SetLevel(zapcore.ErrorLevel)
	case constants.LogLevelFatal:
		l.level.SetLevel(zapcore.FatalLevel)
	}
}

// convert maps structured fields to zap fields, routing every value through
// the redaction rules and attaching span/request correlation ids from the
// context.
func (l *zapLogger) convert(ctx context.Context, fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+2)

	if ctx != nil {
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			zapFields = append(zapFields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
			zapFields = append(zapFields, zap.String("request_id", requestID))
		}
	}

	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, logger.Sanitize(f.Key, f.Value)))
	}
	return zapFields
}

// ParseLevel maps a config string to the internal level type, defaulting to
// info.
func ParseLevel(level string) constants.LogLevel {
	switch level {
	case "debug":
		return constants.LogLevelDebug
	case "warn":
		return constants.LogLevelWarn
	case "error":
		return constants.LogLevelError
	case "fatal":
		return constants.LogLevelFatal
	default:
		return constants.LogLevelInfo
	}
}
