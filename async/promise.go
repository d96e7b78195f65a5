// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package async implements the Promise/Sync Adapter (C14, spec.md
// §4.14): a Promise holds either a pending computation scheduled on a
// worker pool, or a delivered value, with a single on-delivery callback
// and single-step flattening of a Promise-valued result. Promises are
// not re-entrant-safe across goroutines; callers synchronize externally
// (spec.md §4.14). The Pool bounds concurrency with a semaphore and adds
// no locking of its own around a Promise.
package async

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Result is what a Promise resolves to: a value, or an error, or neither
// if cancelled before delivery.
type Result struct {
	Value     any
	Err       error
	Cancelled bool
}

// OnDelivery is the single callback that fires exactly once when a
// Promise resolves, unless cancellation suppressed delivery.
type OnDelivery func(Result)

// Promise is either pending (holds a computation to run) or delivered
// (holds a Result).
type Promise struct {
	compute   func(context.Context) (any, error)
	onDeliv   OnDelivery
	delivered bool
	result    Result

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Pool runs Promise computations on a bounded worker pool, backed by
// golang.org/x/sync/semaphore so at most maxWorkers computations run
// concurrently (spec.md §5 "a small worker pool for blocking calls").
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool builds a Pool with the given worker concurrency cap.
func NewPool(maxWorkers int64) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(maxWorkers)}
}

// New schedules compute to run asynchronously on the pool and returns a
// pending Promise. onDeliv, if non-nil, fires exactly once when the
// computation finishes, unless the Promise is cancelled first.
func (p *Pool) New(ctx context.Context, compute func(context.Context) (any, error), onDeliv OnDelivery) *Promise {
	pctx, cancel := context.WithCancel(ctx)
	pr := &Promise{
		compute: compute,
		onDeliv: onDeliv,
		ctx:     pctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(pr.done)
		if err := p.sem.Acquire(pctx, 1); err != nil {
			pr.result = Result{Cancelled: true, Err: pctx.Err()}
			return
		}
		defer p.sem.Release(1)

		value, err := compute(pctx)
		if pctx.Err() != nil {
			// Cancellation was requested after the computation began: it
			// is allowed to finish, but delivery is skipped (spec.md §5).
			pr.result = Result{Cancelled: true, Err: pctx.Err()}
			return
		}

		result := flatten(Result{Value: value, Err: err})
		pr.delivered = true
		pr.result = result
		if pr.onDeliv != nil {
			pr.onDeliv(result)
		}
	}()

	return pr
}

// Resolved wraps an already-available value as a delivered Promise,
// flattening if value is itself a Promise (single-step unwrap).
func Resolved(value any, err error) *Promise {
	done := make(chan struct{})
	close(done)
	pr := &Promise{delivered: true, done: done}
	pr.result = flatten(Result{Value: value, Err: err})
	return pr
}

// flatten unwraps a single level of Promise-valued Result, per spec.md
// §4.14 ("single-step unwrap is sufficient").
func flatten(r Result) Result {
	if inner, ok := r.Value.(*Promise); ok {
		inner.Await()
		return inner.result
	}
	return r
}

// Await blocks until the Promise is delivered or cancelled, returning
// its Result.
func (pr *Promise) Await() Result {
	<-pr.done
	return pr.result
}

// Cancel requests cancellation. If the computation has not yet started
// running its body, delivery (and the on-delivery callback) never
// fires; if it has already begun, it is allowed to finish but delivery
// is still skipped (spec.md §5).
func (pr *Promise) Cancel() {
	pr.cancel()
}

// IsDelivered reports whether the Promise has resolved to a (non-
// cancelled) value.
func (pr *Promise) IsDelivered() bool {
	select {
	case <-pr.done:
		return pr.delivered
	default:
		return false
	}
}
