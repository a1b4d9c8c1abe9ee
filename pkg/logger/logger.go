package logger

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options настраивает логгер.
type Options struct {
	// debug, info, warn, error
	Level string
	// Куда писать логи, nil - os.Stderr
	Output io.Writer
	// Дублировать логи в буфер (для вывода в HTML)
	Buffer bool
	// ANSI цвета уровней
	Color bool
}

type ZapLogger struct {
	log *zap.Logger

	mu     *sync.Mutex
	logBuf *bytes.Buffer
	Logs   []string
}

// New собирает логгер для веб-страницы: все уровни, цвета, только буфер.
func New() *ZapLogger {
	return NewWithOptions(Options{Level: "debug", Output: io.Discard, Buffer: true, Color: true})
}

func NewWithOptions(o Options) *ZapLogger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if o.Level != "" {
		if err := level.UnmarshalText([]byte(o.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}
	}

	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    plainLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if o.Color {
		config.EncodeLevel = colorLevelEncoder
	}

	encoder := zapcore.NewConsoleEncoder(config)

	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(out), level)}

	z := &ZapLogger{mu: &sync.Mutex{}}
	if o.Buffer {
		z.logBuf = &bytes.Buffer{}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(&lockedWriter{mu: z.mu, w: z.logBuf}), level))
	}

	z.log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return z
}

// NewNop ничего не пишет.
func NewNop() *ZapLogger {
	return &ZapLogger{log: zap.NewNop(), mu: &sync.Mutex{}}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

func plainLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(level.String())
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorCode string
	switch level {
	case zapcore.DebugLevel:
		colorCode = "\033[36m" // Cyan
	case zapcore.InfoLevel:
		colorCode = "\033[32m" // Green
	case zapcore.WarnLevel:
		colorCode = "\033[33m" // Yellow
	case zapcore.ErrorLevel:
		colorCode = "\033[31m" // Red
	default:
		colorCode = "\033[0m" // Default
	}
	enc.AppendString(colorCode + level.String() + "\033[0m")
}

var ansiCode = regexp.MustCompile(`\033\[(\d+)m`)

// Converts ANSI color codes to HTML span with inline styles
func ansiToHTML(input string) string {
	var result strings.Builder
	var lastIndex int
	open := false

	result.WriteString("<pre>")

	for _, match := range ansiCode.FindAllStringIndex(input, -1) {
		start := match[0]
		end := match[1]

		if start > lastIndex {
			result.WriteString(input[lastIndex:start])
		}

		colorCode := input[start+2 : end-1]
		if color, ok := colorMap[colorCode]; ok {
			if open {
				result.WriteString("</span>")
			}
			result.WriteString(`<span style="color: ` + color + `;">`)
			open = true
		} else if colorCode == "0" && open {
			result.WriteString("</span>")
			open = false
		}

		lastIndex = end
	}

	if lastIndex < len(input) {
		result.WriteString(input[lastIndex:])
	}
	if open {
		result.WriteString("</span>")
	}

	result.WriteString("</pre>")

	return result.String()
}

// Color mapping for ANSI codes
var colorMap = map[string]string{
	"31": "red",
	"32": "green",
	"33": "yellow",
	"34": "blue",
	"36": "cyan",
}

// UpdateLogs перерисовывает буфер в HTML. Без буфера ничего не делает.
func (z *ZapLogger) UpdateLogs() {
	if z.logBuf == nil {
		return
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	z.Logs = []string{ansiToHTML(z.logBuf.String())}
}

func (z *ZapLogger) ClearLogs() {
	if z.logBuf == nil {
		return
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	z.logBuf.Reset()
	z.Logs = nil
}

// With возвращает логгер с постоянными полями, буфер общий.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{
		log:    z.log.With(fields...),
		mu:     z.mu,
		logBuf: z.logBuf,
	}
}

// Enabled сообщает, пишется ли уровень. Нужен, чтобы не собирать дорогие поля зря.
func (z *ZapLogger) Enabled(level zapcore.Level) bool {
	return z.log.Core().Enabled(level)
}

func (z *ZapLogger) Sync() error {
	return z.log.Sync()
}

func (z *ZapLogger) Info(wrappedMsg string, fields ...zap.Field) {
	z.log.Info(wrappedMsg, fields...)
}

func (z *ZapLogger) Debug(wrappedMsg string, fields ...zap.Field) {
	z.log.Debug(wrappedMsg, fields...)
}

func (z *ZapLogger) Warn(wrappedMsg string, fields ...zap.Field) {
	z.log.Warn(wrappedMsg, fields...)
}

func (z *ZapLogger) Error(wrappedMsg string, fields ...zap.Field) {
	z.log.Error(wrappedMsg, fields...)
}

func (z *ZapLogger) Fatal(wrappedMsg string, fields ...zap.Field) {
	z.log.Fatal(wrappedMsg, fields...)
}
