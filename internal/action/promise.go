package action

import (
	"context"
	"fmt"
	"sync"

	"github.com/imposter-project/imposter-gateway/internal/exchange"
)

// Action handles a request and returns a deferred response.
type Action func(c *exchange.Context) *Promise

// Promise is a deferred response that completes exactly once, either with a
// response or with an error.
type Promise struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	rsp       *exchange.Response
	err       error
	callbacks []func(*exchange.Response, error)
}

// Completer completes the Promise it was created with. Only the first call
// has an effect.
type Completer func(rsp *exchange.Response, err error)

// New returns a pending Promise and the function that completes it
func New() (*Promise, Completer) {
	p := &Promise{done: make(chan struct{})}
	return p, p.complete
}

// Resolve returns a Promise already completed with rsp
func Resolve(rsp *exchange.Response) *Promise {
	p, complete := New()
	complete(rsp, nil)
	return p
}

// Reject returns a Promise already failed with err
func Reject(err error) *Promise {
	p, complete := New()
	complete(nil, err)
	return p
}

// Go runs fn on its own goroutine and returns a Promise of its result. A
// panic in fn fails the Promise instead of crashing the process.
func Go(fn func() (*exchange.Response, error)) *Promise {
	p, complete := New()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				complete(nil, fmt.Errorf("action panicked: %v", r))
			}
		}()
		complete(fn())
	}()
	return p
}

func (p *Promise) complete(rsp *exchange.Response, err error) {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return
	}
	if err == nil && rsp == nil {
		rsp = exchange.NewResponse(0, nil)
	}
	p.completed = true
	p.rsp = rsp
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(rsp, err)
	}
}

// onComplete registers cb to run once the Promise completes. If it already
// has, cb runs immediately on the calling goroutine.
func (p *Promise) onComplete(cb func(*exchange.Response, error)) {
	p.mu.Lock()
	if !p.completed {
		p.callbacks = append(p.callbacks, cb)
		p.mu.Unlock()
		return
	}
	rsp, err := p.rsp, p.err
	p.mu.Unlock()
	cb(rsp, err)
}

// Then attaches a continuation that runs only if the Promise succeeds. The
// returned Promise completes after the continuation with the same response;
// a failure skips the continuation and passes through unchanged.
func (p *Promise) Then(fn func(rsp *exchange.Response)) *Promise {
	next, complete := New()
	p.onComplete(func(rsp *exchange.Response, err error) {
		if err != nil {
			complete(nil, err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				complete(nil, fmt.Errorf("continuation panicked: %v", r))
			}
		}()
		fn(rsp)
		complete(rsp, nil)
	})
	return next
}

// Done is closed when the Promise completes
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the Promise completes or ctx is done. Giving up on the
// wait does not cancel the Promise.
func (p *Promise) Await(ctx context.Context) (*exchange.Response, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.rsp, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
