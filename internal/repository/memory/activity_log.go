package memory

import (
	"context"
	"sync"

	entity "market-catalog/internal/domain"
)

type ActivityLog struct {
	mu      sync.Mutex
	entries []entity.ActivityLog
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

func (l *ActivityLog) SaveActivity(_ context.Context, doc *entity.ActivityLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *doc)
	return nil
}

// Entries returns a copy of the log in insertion order.
func (l *ActivityLog) Entries() []entity.ActivityLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entity.ActivityLog(nil), l.entries...)
}
