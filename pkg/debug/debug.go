// Package debug sets up the zerolog loggers used by the command line tools.
package debug

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// hackGetCallerSkipFrameCount reads the event's unexported skip count so the
// caller hook reports the frame that logged, not a helper.
func hackGetCallerSkipFrameCount(e *zerolog.Event) int {
	v := reflect.ValueOf(e).Elem()
	field := v.FieldByName("skipFrame")

	if field.IsValid() {
		return int(field.Int())
	}

	return 0
}

type CustomTimeHook struct {
	WithColor bool
	Format    string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if t.Format == "" {
		e.Str("time", time.Now().Format("2006-01-02T15:04:05.0000Z"))
	} else {
		e.Str("time", time.Now().Format(t.Format))
	}
}

type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(hackGetCallerSkipFrameCount(e) + 3)
	if !ok {
		return
	}

	funcd := runtime.FuncForPC(pc)
	if funcd == nil {
		return
	}

	pkg, _ := GetPackageAndFuncFromFuncName(funcd.Name())

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// Options controls NewLogger.
type Options struct {
	Level   zerolog.Level
	Color   bool
	Console bool
	Caller  bool
}

// NewLogger builds a logger writing to w. Console output is human readable;
// otherwise each event is a JSON line.
func NewLogger(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if opts.Console {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !opts.Color,
			TimeFormat: "15:04:05.000",
		}
	}

	logger := zerolog.New(out).Level(opts.Level).Hook(CustomTimeHook{WithColor: opts.Color})
	if opts.Caller {
		logger = logger.Hook(CustomCallerHook{WithColor: opts.Color})
	}
	return logger
}

// WithLogger attaches a logger built from opts to ctx.
func WithLogger(ctx context.Context, w io.Writer, opts Options) context.Context {
	return NewLogger(w, opts).WithContext(ctx)
}

// ParseLevel accepts zerolog level names and falls back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func GetPackageAndFuncFromFuncName(pc string) (pkg, function string) {
	funcName := pc
	lastSlash := strings.LastIndexByte(funcName, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(funcName[lastSlash:], '.') + lastSlash
	if firstDot < lastSlash {
		return funcName, ""
	}

	pkg = funcName[:firstDot]
	fname := funcName[firstDot+1:]

	if strings.Contains(pkg, ".(") {
		splt := strings.Split(pkg, ".(")
		pkg = splt[0]
		fname = "(" + splt[1] + "." + fname
	}

	return pkg, fname
}

func FormatCaller(pkg, path string, number int, colorize bool) string {
	p := FileNameOfPath(path)
	if colorize {
		p = color.New(color.Bold).Sprint(p)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", number)
		sep := color.New(color.Faint).Sprint(":")

		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, p, sep, num)
	}

	return fmt.Sprintf("%s:%s:%d", pkg, p, number)
}

func FileNameOfPath(path string) string {
	tot := strings.Split(path, "/")
	if len(tot) > 1 {
		return tot[len(tot)-1]
	}

	return path
}
