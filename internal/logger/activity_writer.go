package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Session string
	Screen  string
	Caller  string // Function name
}

type activityRecord struct {
	Time    time.Time `json:"time"`
	App     string    `json:"app"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Session string    `json:"session,omitempty"`
	Screen  string    `json:"screen,omitempty"`
	Caller  string    `json:"caller,omitempty"`
}

// ActivityWriter appends console activity as JSON lines without blocking callers.
type ActivityWriter struct {
	out     io.WriteCloser
	logChan chan LogEntry
	appId   string
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// OpenActivityWriter opens (or creates) the activity file and starts the worker.
func OpenActivityWriter(path, appId string) (*ActivityWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	return NewActivityWriter(f, appId), nil
}

// NewActivityWriter initializes the worker
func NewActivityWriter(out io.WriteCloser, appId string) *ActivityWriter {
	writer := &ActivityWriter{
		out:     out,
		logChan: make(chan LogEntry, 1000),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook. Entries logged after Close are dropped.
func (w *ActivityWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Fprintln(os.Stderr, "activity log channel full, dropping:", entry.Message)
	}
}

// Close drains pending entries and closes the underlying file.
func (w *ActivityWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.logChan)
	w.mu.Unlock()

	<-w.done
	return w.out.Close()
}

func (w *ActivityWriter) processLogs() {
	defer close(w.done)
	enc := json.NewEncoder(w.out)
	for entry := range w.logChan {
		record := activityRecord{
			Time:    time.Now().UTC(),
			App:     w.appId,
			Level:   entry.Level.String(),
			Message: entry.Message,
			Session: entry.Session,
			Screen:  entry.Screen,
			Caller:  entry.Caller,
		}
		// Errors are ignored to keep the console running
		_ = enc.Encode(record)
	}
}
