package logging

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var errCoolingDown = errors.New("logstash: reconnect cooling down")

// LogstashWriter mirrors newline-delimited JSON entries to a Logstash TCP
// input. A write never fails because the collector is down: the entry is
// counted as dropped and the writer waits out a cool-down before redialing.
type LogstashWriter struct {
	addr     string
	dial     func(network, addr string, timeout time.Duration) (net.Conn, error)
	timeouts struct{ dial, write, cooldown time.Duration }

	mu      sync.Mutex
	conn    net.Conn
	retryAt time.Time
	closed  bool

	dropped atomic.Int64
}

type LogstashOption func(*LogstashWriter)

func WithDialTimeout(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.timeouts.dial = d }
}

func WithWriteTimeout(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.timeouts.write = d }
}

// WithCooldown sets how long the writer waits after a failed dial or write.
func WithCooldown(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.timeouts.cooldown = d }
}

// NewLogstashWriter validates addr (host:port) without dialing; the first
// connection is made lazily on Write.
func NewLogstashWriter(addr string, opts ...LogstashOption) (*LogstashWriter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("logstash: empty address")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("logstash: invalid address %q: %w", addr, err)
	}

	w := &LogstashWriter{addr: addr, dial: net.DialTimeout}
	w.timeouts.dial = 2 * time.Second
	w.timeouts.write = time.Second
	w.timeouts.cooldown = 5 * time.Second
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if err := w.connectLocked(); err != nil {
		w.dropped.Add(1)
		return len(p), nil
	}

	if w.timeouts.write > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.timeouts.write))
	}
	if _, err := w.conn.Write(line); err != nil {
		w.dropped.Add(1)
		w.resetLocked()
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer. Entries are written unbuffered.
func (w *LogstashWriter) Sync() error { return nil }

// Dropped reports how many entries never reached the collector.
func (w *LogstashWriter) Dropped() int64 { return w.dropped.Load() }

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

func (w *LogstashWriter) connectLocked() error {
	if w.conn != nil {
		return nil
	}
	if !w.retryAt.IsZero() && time.Now().Before(w.retryAt) {
		return errCoolingDown
	}
	conn, err := w.dial("tcp", w.addr, w.timeouts.dial)
	if err != nil {
		w.retryAt = time.Now().Add(w.timeouts.cooldown)
		return err
	}
	w.conn = conn
	w.retryAt = time.Time{}
	return nil
}

func (w *LogstashWriter) resetLocked() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.retryAt = time.Now().Add(w.timeouts.cooldown)
}
