package fetch

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// State is a point-in-time copy of a binding's visible state.
type State[T any] struct {
	IsLoading bool
	Data      T
	Error     any
}

type QueryOptions[T any] struct {
	// OnError receives the same payload stored in State.Error.
	OnError func(payload any)
	// Clone defaults to JSONClone.
	Clone  CloneFunc[T]
	Logger *zap.Logger
}

// Query runs a producer and keeps its last result plus a snapshot that Reset
// restores. Concurrent fetches are not cancelled; the last one to settle
// decides Data and Error.
type Query[T any] struct {
	fn    func(ctx context.Context) (T, error)
	opts  QueryOptions[T]
	clone CloneFunc[T]

	mu       sync.Mutex
	settled  *sync.Cond
	inflight int
	data     T
	snapshot T
	err      any
}

// NewQuery starts fn in the background immediately.
func NewQuery[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts QueryOptions[T]) *Query[T] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	q := &Query[T]{fn: fn, opts: opts, clone: opts.Clone}
	if q.clone == nil {
		q.clone = JSONClone[T]
	}
	q.settled = sync.NewCond(&q.mu)

	q.begin()
	go q.run(ctx)
	return q
}

// Refetch re-runs the producer and returns once it has settled.
func (q *Query[T]) Refetch(ctx context.Context) {
	q.begin()
	q.run(ctx)
}

func (q *Query[T]) begin() {
	q.mu.Lock()
	q.inflight++
	q.mu.Unlock()
}

func (q *Query[T]) run(ctx context.Context) {
	result, err := q.fn(ctx)

	var snapshot T
	var cloneErr error
	if err == nil {
		snapshot, cloneErr = q.clone(result)
	}

	q.mu.Lock()
	var payload any
	if err != nil {
		payload = queryError(err)
		q.err = payload
	} else {
		q.data = result
		if cloneErr != nil {
			q.opts.Logger.Warn("query snapshot failed, reset keeps previous snapshot", zap.Error(cloneErr))
		} else {
			q.snapshot = snapshot
		}
	}
	q.inflight--
	q.settled.Broadcast()
	q.mu.Unlock()

	if err != nil && q.opts.OnError != nil {
		q.opts.OnError(payload)
	}
}

// Reset replaces Data with a fresh copy of the last snapshot.
func (q *Query[T]) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	restored, err := q.clone(q.snapshot)
	if err != nil {
		q.opts.Logger.Warn("query reset failed", zap.Error(err))
		return
	}
	q.data = restored
}

// SetData edits Data in place, as a form bound to it would.
func (q *Query[T]) SetData(edit func(data *T)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	edit(&q.data)
}

// State returns a copy of Data, so edits to it never reach the query. Use
// SetData to edit the bound value. If the copy fails Data is shared as is.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	data, err := q.clone(q.data)
	if err != nil {
		q.opts.Logger.Warn("query state copy failed, sharing data", zap.Error(err))
		data = q.data
	}
	return State[T]{IsLoading: q.inflight > 0, Data: data, Error: q.err}
}

// Wait blocks until no fetch is in flight.
func (q *Query[T]) Wait() State[T] {
	q.mu.Lock()
	for q.inflight > 0 {
		q.settled.Wait()
	}
	q.mu.Unlock()
	return q.State()
}
