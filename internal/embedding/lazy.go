package embedding

import (
	"context"
	"sync"
)

// Lazy defers the expensive model load until the first Embed call and
// shares the one loaded instance across all callers for the process
// lifetime. Unlike sync.Once, a failed load is not cached: the next
// caller attempts the load again.
type Lazy struct {
	load func(ctx context.Context) (Embedder, error)

	mu  sync.Mutex
	emb Embedder
}

// NewLazy wraps a load function. load is called at most once concurrently
// and at most once successfully.
func NewLazy(load func(ctx context.Context) (Embedder, error)) *Lazy {
	return &Lazy{load: load}
}

// get returns the shared embedder, loading it on first use. Concurrent
// callers block until the in-flight load finishes and then observe the
// same instance.
func (l *Lazy) get(ctx context.Context) (Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.emb != nil {
		return l.emb, nil
	}
	emb, err := l.load(ctx)
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}
	l.emb = emb
	return emb, nil
}

// Embed loads the model if needed and embeds text with it.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float64, error) {
	emb, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return emb.Embed(ctx, text)
}

// Dimension reports the fixed vector length without forcing a load.
func (l *Lazy) Dimension() int { return Dimension }
