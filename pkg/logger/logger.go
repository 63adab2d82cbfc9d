package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

type ctxKey struct{}

// Init configures the global logger. Development environments get a
// pretty console writer; everything else logs JSON to stdout.
func Init(env string, logLevel string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if env == "development" || env == "dev" || env == "" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request-scoped logger if one was attached,
// the global logger otherwise.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext attaches a logger to the context.
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithRequestID returns a logger tagged with a request ID.
func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// Info logs at info level on the global logger.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn logs at warn level on the global logger.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error logs at error level on the global logger.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs at fatal level and exits.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
