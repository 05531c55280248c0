// Package socket follows the backend's notification websocket and keeps the
// latest notifications and messages in bounded lists.
package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ainews-console/internal/config"
	"ainews-console/internal/storage"

	"github.com/gorilla/websocket"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MaxItems bounds each list; older entries are dropped first.
const MaxItems = 100

const (
	TypeNotification = "notification"
	TypeMessage      = "message"
)

var ErrAlreadyRunning = errors.New("socket: feed already running")

// Frame is one event pushed by the backend.
type Frame struct {
	Type       string          `json:"type"`
	Title      string          `json:"title,omitempty"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

type TokenSource interface {
	Token() (string, bool)
}

// Feed holds the lists and, while running, a reconnecting websocket reader.
type Feed struct {
	url      string
	tokens   TokenSource
	dialer   *websocket.Dialer
	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu            sync.Mutex
	notifications []Frame
	messages      []Frame
	subscribers   map[int]chan Frame
	nextSub       int
	connected     bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewFeed(url string, tokens TokenSource, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{
		url:         url,
		tokens:      tokens,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		minDelay:    time.Second,
		maxDelay:    30 * time.Second,
		now:         time.Now,
		log:         log.Named("socket"),
		subscribers: make(map[int]chan Frame),
	}
}

// Append records a frame and fans it out to subscribers. Unknown types are
// ignored.
func (f *Feed) Append(fr Frame) bool {
	if fr.ReceivedAt.IsZero() {
		fr.ReceivedAt = f.now()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch fr.Type {
	case TypeNotification:
		f.notifications = prepend(f.notifications, fr)
	case TypeMessage:
		f.messages = prepend(f.messages, fr)
	default:
		return false
	}
	for _, ch := range f.subscribers {
		// slow subscribers miss frames rather than stall the reader
		select {
		case ch <- fr:
		default:
		}
	}
	return true
}

func prepend(list []Frame, fr Frame) []Frame {
	out := make([]Frame, 0, min(len(list)+1, MaxItems))
	out = append(out, fr)
	for _, old := range list {
		if len(out) == MaxItems {
			break
		}
		out = append(out, old)
	}
	return out
}

// Notifications returns the newest-first notification list.
func (f *Feed) Notifications() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame{}, f.notifications...)
}

func (f *Feed) Messages() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame{}, f.messages...)
}

func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = nil
	f.messages = nil
}

func (f *Feed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Subscribe returns a channel of new frames and a func that ends the
// subscription.
func (f *Feed) Subscribe() (<-chan Frame, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	ch := make(chan Frame, 16)
	f.subscribers[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Start runs the reader in the background until Stop.
func (f *Feed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		f.Run(ctx)
	}(f.done)
	return nil
}

func (f *Feed) Stop() {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Run connects and reads until ctx ends, reconnecting with exponential
// backoff after every failure.
func (f *Feed) Run(ctx context.Context) {
	delay := f.minDelay
	for {
		err := f.session(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			delay = f.minDelay
		}
		f.log.Warn("socket disconnected", zap.Error(err), zap.Duration("retry_in", delay))

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		delay = min(delay*2, f.maxDelay)
	}
}

// session runs one connection. It returns nil when a connection was
// established and later dropped.
func (f *Feed) session(ctx context.Context) error {
	header := http.Header{}
	if f.tokens != nil {
		if token, ok := f.tokens.Token(); ok {
			header.Set("Authorization", "Bearer "+token)
		}
	}
	conn, _, err := f.dialer.DialContext(ctx, f.url, header)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	f.setConnected(true)
	f.log.Info("socket connected", zap.String("url", f.url))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()
	defer func() {
		f.setConnected(false)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			f.log.Debug("socket read ended", zap.Error(err))
			return nil
		}
		var fr Frame
		if err := json.Unmarshal(data, &fr); err != nil {
			f.log.Debug("dropping malformed frame", zap.Error(err))
			continue
		}
		fr.ReceivedAt = time.Time{}
		if !f.Append(fr) {
			f.log.Debug("dropping frame of unknown type", zap.String("type", fr.Type))
		}
	}
}

func (f *Feed) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

// NewFromConfig follows SOCKET_URL for the lifetime of the app. An empty
// URL leaves the feed idle.
func NewFromConfig(lc fx.Lifecycle, cfg *config.Config, store storage.LocalStore, log *zap.Logger) *Feed {
	feed := NewFeed(cfg.SocketURL, storage.UserTokens(store), log)
	if cfg.SocketURL == "" {
		return feed
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return feed.Start()
		},
		OnStop: func(ctx context.Context) error {
			feed.Stop()
			return nil
		},
	})
	return feed
}
