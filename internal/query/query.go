// Package query tracks data fetched for a key that can change while requests are in flight.
// Only the response for the most recently requested key is kept; older ones are dropped.
package query

import (
	"context"
	"sync"
	"sync/atomic"
)

// FetchFunc loads the data for key.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Observer holds the state of one query. The zero value is ready to use.
type Observer[K comparable, T any] struct {
	mu      sync.Mutex
	key     K
	hasKey  bool
	data    T
	hasData bool
	err     error

	inFlight atomic.Int32
}

// Fetch makes key current and runs fn for it. The result is stored only if key is still
// current when fn returns. Switching to a new key clears data held for the previous one.
func (o *Observer[K, T]) Fetch(ctx context.Context, key K, fn FetchFunc[K, T]) (T, error) {
	o.mu.Lock()
	if !o.hasKey || o.key != key {
		var zero T
		o.key, o.hasKey = key, true
		o.data, o.hasData, o.err = zero, false, nil
	}
	o.mu.Unlock()

	o.inFlight.Add(1)
	defer o.inFlight.Add(-1)

	v, err := fn(ctx, key)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.key != key {
		return v, err
	}
	if err != nil {
		o.err = err
		return v, err
	}
	o.data, o.hasData, o.err = v, true, nil
	return v, nil
}

// Data returns the data held for the current key and whether any has arrived.
func (o *Observer[K, T]) Data() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data, o.hasData
}

// Err is the error of the last failed fetch for the current key.
func (o *Observer[K, T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// IsFetching reports whether any fetch is in flight.
func (o *Observer[K, T]) IsFetching() bool {
	return o.inFlight.Load() > 0
}
