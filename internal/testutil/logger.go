// Package testutil holds loggers for tests.
package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug logger that writes through t.Log, so output
// shows up only for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type tbWriter struct{ t testing.TB }

func (w tbWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

// Record is one decoded JSON log line.
type Record map[string]any

// Msg returns the record message.
func (r Record) Msg() string {
	s, _ := r[slog.MessageKey].(string)
	return s
}

// LogBuffer collects JSON log lines. Jobs log from several goroutines, so
// writes are serialized.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Records decodes every line written so far. It fails t on malformed lines.
func (b *LogBuffer) Records(t testing.TB) []Record {
	t.Helper()
	b.mu.Lock()
	data := bytes.Clone(b.buf.Bytes())
	b.mu.Unlock()

	var out []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("log line %q: %v", sc.Text(), err)
		}
		out = append(out, r)
	}
	return out
}

// WithMsg returns the records whose message is msg.
func (b *LogBuffer) WithMsg(t testing.TB, msg string) []Record {
	t.Helper()
	var out []Record
	for _, r := range b.Records(t) {
		if r.Msg() == msg {
			out = append(out, r)
		}
	}
	return out
}

// NewRecordingLogger returns a debug JSON logger and the buffer it writes to.
func NewRecordingLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
