package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastKind selects the toast color.
type ToastKind string

// Toast kinds.
const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
	ToastInfo    ToastKind = "info"
)

// ToastTTL is how long a toast stays visible.
const ToastTTL = 3 * time.Second

// Toast is a short-lived notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      ToastKind `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the toast outlived its TTL at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= ToastTTL
}

// ToastQueue holds pending toasts, oldest first.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Toast
	limit  int
}

// NewToastQueue keeps at most limit toasts; older ones are dropped first.
func NewToastQueue(limit int) *ToastQueue {
	if limit < 1 {
		limit = 1
	}
	return &ToastQueue{limit: limit}
}

// Push adds a toast and returns it.
func (q *ToastQueue) Push(kind ToastKind, message string, now time.Time) Toast {
	t := Toast{ID: uuid.NewString(), Kind: kind, Message: message, CreatedAt: now}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, t)
	if over := len(q.toasts) - q.limit; over > 0 {
		q.toasts = append([]Toast(nil), q.toasts[over:]...)
	}
	return t
}

// Pending returns unexpired toasts and forgets expired ones.
func (q *ToastQueue) Pending(now time.Time) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.toasts = q.live(now)
	return append([]Toast(nil), q.toasts...)
}

// Drain returns unexpired toasts and empties the queue in one step. Pages
// call it so a toast is shown once.
func (q *ToastQueue) Drain(now time.Time) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	live := q.live(now)
	q.toasts = nil
	return live
}

// live must be called with mu held.
func (q *ToastQueue) live(now time.Time) []Toast {
	out := make([]Toast, 0, len(q.toasts))
	for _, t := range q.toasts {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	return out
}

// Dismiss removes the toast with id.
func (q *ToastQueue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return true
		}
	}
	return false
}
