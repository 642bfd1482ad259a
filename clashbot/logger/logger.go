package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// Options mirrors the [log] config section.
type Options struct {
	Level     slog.Level
	Format    string
	AddSource bool
}

// New returns the JSON handler when Format is "json" and the coloured
// terminal handler otherwise.
func New(w io.Writer, opts Options) slog.Handler {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource})
	}
	return NewHandler(w, opts.Level)
}

type CustomHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func NewHandler(w io.Writer, level slog.Leveler) *CustomHandler {
	return &CustomHandler{
		mu:    &sync.Mutex{},
		out:   w,
		level: level,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	fields := collect(&r, h.attrs)

	message := r.Message
	if r.Level >= slog.LevelError {
		location := fields.errorLocation
		if location == "" {
			location = sourceLocation(r.PC)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if fields.err != "" {
			message = fmt.Sprintf("%s: %s", message, fields.err)
		}
	}
	if fields.name != "" && fields.userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields.name, fields.userName)
	}
	if fields.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields.status)
	}
	if fields.took != "" {
		message = fmt.Sprintf("%s (took %s)", message, fields.took)
	}

	var extra strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, attr := range fields.rest {
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&extra, " %s=%v", key, attr.Value)
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[CardClash] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		ts.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		fields.logType,
		message,
		extra.String(),
		colorReset,
	)
	return err
}

type recordFields struct {
	logType       LogType
	name          string
	userName      string
	status        string
	took          string
	err           string
	errorLocation string
	rest          []slog.Attr
}

// collect pulls the attributes the handler renders inline and keeps the
// rest for the key=value tail.
func collect(r *slog.Record, handlerAttrs []slog.Attr) recordFields {
	f := recordFields{logType: TypeSystem}
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			switch a.Value.String() {
			case "cmd":
				f.logType = TypeCommand
			case "db":
				f.logType = TypeDB
			case "error":
				f.logType = TypeError
			}
		case "name":
			f.name = a.Value.String()
		case "user_name":
			f.userName = a.Value.String()
		case "status":
			f.status = a.Value.String()
		case "took":
			f.took = a.Value.String()
		case "error":
			f.err = fmt.Sprintf("%v", a.Value.Any())
		case "error_location":
			f.errorLocation = a.Value.String()
		default:
			f.rest = append(f.rest, a)
		}
		return true
	}
	for _, a := range handlerAttrs {
		visit(a)
	}
	r.Attrs(visit)
	return f
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

// Gateway and rate limiter chatter from disgo.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}
