package dedupe

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultMaxSize = 10000
	defaultTTL     = 24 * time.Hour
	keySeparator   = "|"
)

// Guard records idempotency keys to make a submission take effect at most once.
type Guard interface {
	// SeenAndRecord reports whether key was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget removes key so a failed submission can be retried.
	Forget(ctx context.Context, key string)

	Size() int64
}

// Key joins the parts of a composite idempotency key.
func Key(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

type entry struct {
	key string
	at  time.Time
}

// memoryGuard keeps keys in insertion order so the oldest can be evicted
// and expired keys pruned from the front.
type memoryGuard struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	size    atomic.Int64
}

// NewGuard creates an in-memory guard.
func NewGuard(opts ...Option) Guard {
	g := &memoryGuard{
		maxSize: defaultMaxSize,
		ttl:     defaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.index = make(map[string]*list.Element)
	g.order = list.New()
	return g
}

func (g *memoryGuard) SeenAndRecord(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.pruneLocked(now)

	if _, ok := g.index[key]; ok {
		return true
	}
	if g.maxSize > 0 && g.order.Len() >= g.maxSize {
		g.removeLocked(g.order.Front())
	}
	g.index[key] = g.order.PushBack(&entry{key: key, at: now})
	g.size.Store(int64(g.order.Len()))
	return false
}

func (g *memoryGuard) Forget(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if el, ok := g.index[key]; ok {
		g.removeLocked(el)
	}
	g.size.Store(int64(g.order.Len()))
}

func (g *memoryGuard) Size() int64 {
	return g.size.Load()
}

// pruneLocked drops expired keys. Must be called with g.mu held.
func (g *memoryGuard) pruneLocked(now time.Time) {
	if g.ttl <= 0 {
		return
	}
	for el := g.order.Front(); el != nil; el = g.order.Front() {
		if now.Sub(el.Value.(*entry).at) < g.ttl {
			return
		}
		g.removeLocked(el)
	}
}

// removeLocked must be called with g.mu held.
func (g *memoryGuard) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	delete(g.index, el.Value.(*entry).key)
	g.order.Remove(el)
}
