// Package dialog is the queue of modal dialogs a session has to show.
package dialog

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
)

// SuccessTimeout is how long success dialogs stay up.
const SuccessTimeout = 2 * time.Second

type Dialog struct {
	ID           string        `json:"id"`
	Kind         Kind          `json:"kind"`
	Title        string        `json:"title"`
	Message      string        `json:"message"`
	ConfirmLabel string        `json:"confirmLabel,omitempty"`
	Destructive  bool          `json:"destructive,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	AutoDismiss  time.Duration `json:"-"`
	DismissAfter int64         `json:"autoDismissMs,omitempty"`
}

func Success(title, message string) Dialog {
	return Dialog{Kind: KindSuccess, Title: title, Message: message, AutoDismiss: SuccessTimeout}
}

func Error(title, message string) Dialog {
	return Dialog{Kind: KindError, Title: title, Message: message}
}

func Warning(title, message string) Dialog {
	return Dialog{Kind: KindWarning, Title: title, Message: message}
}

func Info(title, message string) Dialog {
	return Dialog{Kind: KindInfo, Title: title, Message: message}
}

// Confirm builds a destructive confirmation prompt.
func Confirm(title, message, confirmLabel string) Dialog {
	return Dialog{Kind: KindConfirm, Title: title, Message: message, ConfirmLabel: confirmLabel, Destructive: true}
}

// Presenter is what screens need from a dialog queue.
type Presenter interface {
	Show(d Dialog) Dialog
	Dismiss(id string) bool
}

// Queue holds dialogs until they are dismissed or time out.
type Queue struct {
	mu    sync.Mutex
	items []Dialog
	now   func() time.Time
	log   *zap.Logger
}

func NewQueue(log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{now: time.Now, log: log}
}

// WithClock swaps the time source (tests).
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

func (q *Queue) Show(d Dialog) Dialog {
	q.mu.Lock()
	defer q.mu.Unlock()

	d.ID = uuid.NewString()
	d.CreatedAt = q.now()
	d.DismissAfter = d.AutoDismiss.Milliseconds()
	q.items = append(q.items, d)
	q.log.Debug("dialog shown", zap.String("kind", string(d.Kind)), zap.String("title", d.Title))
	return d
}

// Active returns the dialogs still on screen; auto-dismissing ones past
// their timeout are dropped.
func (q *Queue) Active() []Dialog {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.items[:0]
	for _, d := range q.items {
		if d.AutoDismiss > 0 && now.Sub(d.CreatedAt) >= d.AutoDismiss {
			continue
		}
		kept = append(kept, d)
	}
	q.items = kept
	return append([]Dialog(nil), q.items...)
}

func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, d := range q.items {
		if d.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every dialog.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
