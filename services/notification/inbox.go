package notification

import (
	"sync"

	"occupancy/models"
)

// Inbox holds undismissed notifications, newest first. Nothing is persisted.
type Inbox struct {
	mu    sync.RWMutex
	items []models.Notification
}

func NewInbox() *Inbox {
	return &Inbox{}
}

// Prepend puts batch, in its own order, ahead of everything already held.
func (in *Inbox) Prepend(batch []models.Notification) {
	if len(batch) == 0 {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	next := make([]models.Notification, 0, len(batch)+len(in.items))
	next = append(next, batch...)
	in.items = append(next, in.items...)
}

func (in *Inbox) List() []models.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return append([]models.Notification{}, in.items...)
}

// Dismiss removes the notification with id and reports whether it existed.
func (in *Inbox) Dismiss(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, n := range in.items {
		if n.ID == id {
			in.items = append(in.items[:i:i], in.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll empties the inbox and returns how many were removed.
func (in *Inbox) DismissAll() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := len(in.items)
	in.items = nil
	return n
}

func (in *Inbox) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.items)
}
