package recorder

import (
	"context"
	"sync"
	"time"
)

// MemoryHistory keeps seen-before state in process memory.
type MemoryHistory struct {
	mu   sync.RWMutex
	seen map[string]SeenRecord
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{seen: make(map[string]SeenRecord)}
}

func (h *MemoryHistory) LastSeen(_ context.Context, symbol string) (SeenRecord, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.seen[symbol]
	return rec, ok, nil
}

func (h *MemoryHistory) MarkSeen(_ context.Context, symbol string, at time.Time, score int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen[symbol] = merge(h.seen[symbol], symbol, at, score)
	return nil
}

func merge(prev SeenRecord, symbol string, at time.Time, score int) SeenRecord {
	if prev.TimesShown == 0 {
		prev.FirstSeen = at
	}
	prev.Symbol = symbol
	prev.LastSeen = at
	prev.LastScore = score
	prev.TimesShown++
	return prev
}
