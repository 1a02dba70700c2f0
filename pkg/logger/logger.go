package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string // time format for log messages
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "", "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	}

	l := newLogger(output)
	l.zl = l.zl.Level(level)
	return l, nil
}

// NewWithWriter builds a JSON logger over w, used by tests and embedders.
func NewWithWriter(w io.Writer) *Logger {
	return newLogger(w)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func newLogger(output io.Writer) *Logger {
	return &Logger{zl: zerolog.New(output).With().Timestamp().Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { emit(l.zl.Error(), msg, fields) }

func emit(event *zerolog.Event, msg string, fields []Field) {
	if event == nil {
		return
	}
	for _, f := range fields {
		f.addTo(event)
	}
	event.Msg(msg)
}

// With returns a child logger that always carries the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = f.addToContext(ctx)
	}
	return &Logger{zl: ctx.Logger()}
}

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt64
	kindError
	kindAny
)

// Field is one structured key/value pair.
type Field struct {
	key  string
	kind fieldKind
	str  string
	num  int64
	err  error
	val  interface{}
}

func (f Field) addTo(e *zerolog.Event) {
	switch f.kind {
	case kindInt64:
		e.Int64(f.key, f.num)
	case kindError:
		e.AnErr(f.key, f.err)
	case kindAny:
		e.Interface(f.key, f.val)
	default:
		e.Str(f.key, f.str)
	}
}

func (f Field) addToContext(c zerolog.Context) zerolog.Context {
	switch f.kind {
	case kindInt64:
		return c.Int64(f.key, f.num)
	case kindError:
		return c.AnErr(f.key, f.err)
	case kindAny:
		return c.Interface(f.key, f.val)
	default:
		return c.Str(f.key, f.str)
	}
}

func String(key, value string) Field {
	return Field{key: key, kind: kindString, str: value}
}

// Strings logs values joined by ", ".
func Strings(key string, values []string) Field {
	return String(key, strings.Join(values, ", "))
}

// Any logs value through its JSON encoding.
func Any(key string, value interface{}) Field {
	return Field{key: key, kind: kindAny, val: value}
}

func Int(key string, value int) Field {
	return Int64(key, int64(value))
}

func Int64(key string, value int64) Field {
	return Field{key: key, kind: kindInt64, num: value}
}

func Error(err error) Field {
	return Field{key: "error", kind: kindError, err: err}
}

// Duration logs value in whole milliseconds.
func Duration(key string, value time.Duration) Field {
	return Int64(key, value.Milliseconds())
}

// Decimal logs the exact decimal text, never a float.
func Decimal(key string, value decimal.Decimal) Field {
	return String(key, value.String())
}
