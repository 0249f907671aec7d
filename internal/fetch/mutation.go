package fetch

import (
	"context"
	"sync"
)

type MutationOptions[R any] struct {
	OnSuccess func(result R)
	// OnError receives the normalised error stored in State.Error.
	OnError func(payload any)
}

// Mutation wraps a write call. Calls are independent; nothing is retried.
type Mutation[A, R any] struct {
	fn   func(ctx context.Context, arg A) (R, error)
	opts MutationOptions[R]

	mu       sync.Mutex
	inflight int
	err      any
}

func NewMutation[A, R any](fn func(ctx context.Context, arg A) (R, error), opts MutationOptions[R]) *Mutation[A, R] {
	return &Mutation[A, R]{fn: fn, opts: opts}
}

// Mutate runs the call and the matching callback. The raw result and error
// are also returned for callers that do not use callbacks.
func (m *Mutation[A, R]) Mutate(ctx context.Context, arg A) (R, error) {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()

	result, err := m.fn(ctx, arg)

	var payload any
	m.mu.Lock()
	if err != nil {
		payload = mutationError(err)
		m.err = payload
	}
	m.inflight--
	m.mu.Unlock()

	if err != nil {
		if m.opts.OnError != nil {
			m.opts.OnError(payload)
		}
		return result, err
	}
	if m.opts.OnSuccess != nil {
		m.opts.OnSuccess(result)
	}
	return result, nil
}

func (m *Mutation[A, R]) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight > 0
}

// Error returns the last normalised failure, or nil.
func (m *Mutation[A, R]) Error() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
