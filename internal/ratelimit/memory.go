package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	mu    sync.Mutex
	stamp []time.Time
	// swept is set once Sweep has dropped the window from the key map.
	swept bool
}

// prune drops timestamps that fell out of the window ending at now.
func (w *window) prune(now time.Time, size time.Duration) {
	keep := w.stamp[:0]
	for _, t := range w.stamp {
		if now.Sub(t) < size {
			keep = append(keep, t)
		}
	}
	w.stamp = keep
}

// MemoryLimiter keeps one timestamp log per key. The key map is guarded by an
// RWMutex; appends and prunes for a key happen under that key's own mutex.
type MemoryLimiter struct {
	limit int
	size  time.Duration

	mu   sync.RWMutex
	keys map[string]*window
}

func NewMemoryLimiter(limit int, size time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if size <= 0 {
		size = DefaultWindow
	}
	return &MemoryLimiter{
		limit: limit,
		size:  size,
		keys:  make(map[string]*window),
	}
}

func (l *MemoryLimiter) Window() time.Duration {
	return l.size
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (bool, error) {
	for {
		w := l.window(key)
		w.mu.Lock()
		if w.swept {
			// Lost the window to a concurrent Sweep; the next lookup creates a fresh one.
			w.mu.Unlock()
			continue
		}
		allowed := l.admit(w, now)
		w.mu.Unlock()
		return allowed, nil
	}
}

// admit records now in w when the window has room. w.mu must be held.
func (l *MemoryLimiter) admit(w *window, now time.Time) bool {
	w.prune(now, l.size)
	if len(w.stamp) >= l.limit {
		return false
	}
	w.stamp = append(w.stamp, now)
	return true
}

func (l *MemoryLimiter) window(key string) *window {
	l.mu.RLock()
	w, ok := l.keys[key]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.keys[key]; !ok {
		w = &window{}
		l.keys[key] = w
	}
	return w
}

// Sweep forgets keys whose every timestamp has expired and returns how many
// were removed.
func (l *MemoryLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.keys {
		w.mu.Lock()
		w.prune(now, l.size)
		idle := len(w.stamp) == 0
		w.swept = idle
		w.mu.Unlock()
		if idle {
			delete(l.keys, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.keys)
}
