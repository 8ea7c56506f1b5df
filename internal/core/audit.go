package core

import (
	"context"
	"sync"
)

// MemoryAuditLog keeps the most recent entries in a ring of fixed size.
type MemoryAuditLog struct {
	mu      sync.Mutex
	limit   int
	entries []AuditEntry
}

// NewMemoryAuditLog retains up to limit entries; limit <= 0 means 256.
func NewMemoryAuditLog(limit int) *MemoryAuditLog {
	if limit <= 0 {
		limit = 256
	}
	return &MemoryAuditLog{limit: limit}
}

// Record implements AuditRecorder.
func (l *MemoryAuditLog) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append([]AuditEntry(nil), l.entries[over:]...)
	}
}

// Entries returns retained entries, oldest first.
func (l *MemoryAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AuditEntry(nil), l.entries...)
}
