// Package logger configures structured logging for the CLI and the HTTP server.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorDim     = "\033[2m"
)

// Logger wraps slog.Logger with a few helpers.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer    io.Writer
	Format    string
	Level     slog.Level
	AddSource bool
	NoColor   bool
}

// New creates a logger. Logs go to stderr unless a writer is given so they
// never mix with command output on stdout.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					src.File = filepath.Base(src.File)
				}
			}
			return a
		},
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		h = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		h = NewTextHandler(cfg.Writer, opts, !cfg.NoColor)
	}
	return &Logger{Logger: slog.New(h)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Config{Writer: io.Discard, Level: slog.LevelError + 4, NoColor: true})
}

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds an error attribute.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// WithField adds a single attribute.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(slog.Any(key, value))}
}

// TextHandler writes one compact, optionally colored line per record.
type TextHandler struct {
	opts   *slog.HandlerOptions
	color  bool
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

// NewTextHandler creates a TextHandler writing to w.
func NewTextHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *TextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &TextHandler{opts: opts, color: color, mu: &sync.Mutex{}, w: w}
}

// Enabled reports whether the level is at or above the configured minimum.
func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats: TIME LVL message key=value ...
func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = h.paint(buf, colorDim, r.Time.Format("15:04:05"))
	buf = append(buf, ' ')
	lvl, c := levelLabel(r.Level)
	buf = h.paint(buf, c, lvl)
	buf = append(buf, ' ')
	if h.opts.AddSource && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		buf = h.paint(buf, colorDim, filepath.Base(f.File)+":"+strconv.Itoa(f.Line))
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Message...)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		buf = append(buf, ' ')
		buf = h.paint(buf, colorCyan, a.Key+"="+formatValue(a.Value))
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a handler carrying additional attributes.
func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup prefixes later attribute keys with the group name.
func (h *TextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func (h *TextHandler) paint(buf []byte, color, s string) []byte {
	if !h.color {
		return append(buf, s...)
	}
	buf = append(buf, color...)
	buf = append(buf, s...)
	return append(buf, colorReset...)
}

func levelLabel(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "ERR", colorRed
	case level >= slog.LevelWarn:
		return "WRN", colorYellow
	case level >= slog.LevelInfo:
		return "INF", colorGreen
	default:
		return "DBG", colorMagenta
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"=") {
			return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
		return s
	default:
		return v.String()
	}
}
