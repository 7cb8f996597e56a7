package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures the process logger. A zero value logs info and above to stdout.
type Options struct {
	Level       string
	Service     string
	Environment string
	Output      io.Writer
}

// ParseLevel accepts slog level names in any case, with optional offsets
// such as "debug+2". Unknown or empty input means info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// New builds a JSON logger. Service and environment, when set, are attached
// to every record.
func New(o Options) *slog.Logger {
	out := o.Output
	if out == nil {
		out = os.Stdout
	}

	l := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(o.Level)}))
	if o.Service != "" {
		l = l.With("service", o.Service)
	}
	if o.Environment != "" {
		l = l.With("env", o.Environment)
	}
	return l
}

type ctxKey struct{}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or slog.Default when none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
