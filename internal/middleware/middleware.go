package middleware

import (
	"github.com/imposter-project/imposter-gateway/internal/action"
)

// Middleware wraps an action with cross-cutting behaviour. Configuration is
// read when the middleware is constructed and is immutable afterwards.
type Middleware interface {
	Install(next action.Action) action.Action
}

// Func adapts a plain function to the Middleware interface
type Func func(next action.Action) action.Action

func (f Func) Install(next action.Action) action.Action {
	return f(next)
}

// Pipeline holds middlewares in installation order.
//
// The first installed middleware is the outermost wrapper: it sees the
// request first and its continuation runs last. On the way back, continuations
// run in reverse installation order.
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a pipeline with the given middlewares installed in order
func NewPipeline(mws ...Middleware) *Pipeline {
	p := &Pipeline{}
	p.Use(mws...)
	return p
}

// Use installs middlewares after those already installed. Nil entries are skipped.
func (p *Pipeline) Use(mws ...Middleware) {
	for _, mw := range mws {
		if mw != nil {
			p.middlewares = append(p.middlewares, mw)
		}
	}
}

// Len returns the number of installed middlewares
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// Wrap returns a composed action with every installed middleware around a
func (p *Pipeline) Wrap(a action.Action) action.Action {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		a = p.middlewares[i].Install(a)
	}
	return a
}
