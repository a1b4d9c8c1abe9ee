package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gotest.tools/v3/assert"
)

func TestAnsiToHTML(t *testing.T) {
	assert.Equal(t, ansiToHTML("\033[32minfo\033[0m done"), `<pre><span style="color: green;">info</span> done</pre>`)
	assert.Equal(t, ansiToHTML("\033[31mopen"), `<pre><span style="color: red;">open</span></pre>`)
	assert.Equal(t, ansiToHTML("\033[35mx\033[0m"), `<pre>x</pre>`)
	assert.Equal(t, ansiToHTML("plain"), `<pre>plain</pre>`)
}

func TestBufferLogs(t *testing.T) {
	l := New()
	l.Info("hello", zap.Int("n", 3))
	l.Debug("trace")

	assert.Equal(t, len(l.Logs), 0)
	l.UpdateLogs()
	assert.Equal(t, len(l.Logs), 1)
	assert.Assert(t, strings.Contains(l.Logs[0], "hello"))
	assert.Assert(t, strings.Contains(l.Logs[0], "trace"))
	assert.Assert(t, strings.Contains(l.Logs[0], `<span style="color: green;">info</span>`))

	l.ClearLogs()
	assert.Assert(t, l.Logs == nil)
	l.UpdateLogs()
	assert.Equal(t, l.Logs[0], "<pre></pre>")
}

func TestWithSharesBuffer(t *testing.T) {
	l := New()
	l.With(zap.String("run_id", "r-1")).Warn("pass")

	l.UpdateLogs()
	assert.Assert(t, strings.Contains(l.Logs[0], "run_id"))
	assert.Assert(t, strings.Contains(l.Logs[0], "r-1"))
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Level: "warn", Output: &buf})

	l.Info("quiet")
	l.Warn("loud")
	assert.Assert(t, !strings.Contains(buf.String(), "quiet"))
	assert.Assert(t, strings.Contains(buf.String(), "loud"))
	assert.Assert(t, !strings.Contains(buf.String(), "\033["))
	assert.Assert(t, !l.Enabled(zapcore.InfoLevel))
	assert.Assert(t, l.Enabled(zapcore.ErrorLevel))
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	l := NewWithOptions(Options{Level: "loud", Output: &bytes.Buffer{}})
	assert.Assert(t, l.Enabled(zapcore.InfoLevel))
	assert.Assert(t, !l.Enabled(zapcore.DebugLevel))
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.UpdateLogs()
	l.ClearLogs()
	assert.Assert(t, l.Logs == nil)
	assert.Assert(t, !l.Enabled(zapcore.ErrorLevel))
}
