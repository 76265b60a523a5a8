package godispatch

import (
	"reflect"
	"unsafe"
)

// Middleware is one pipeline stage. Handle returns nil to let the request
// proceed to the next stage, or an error to divert the request into the
// owning tier's recovery chain. A stage runs at most once per request and
// never concurrently with another stage of the same request.
type Middleware interface {
	Handle(c *Context) error
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(c *Context) error

func (f MiddlewareFunc) Handle(c *Context) error { return f(c) }

// ErrorMiddleware is one stage of a tier's recovery chain. HandleError
// returns nil to declare the error resolved (a terminal response is
// expected to have been written already) or an error, possibly a new one,
// to hand off to the next recovery stage of the same tier.
type ErrorMiddleware interface {
	HandleError(err error, c *Context) error
}

// ErrorMiddlewareFunc adapts a plain function to the ErrorMiddleware
// interface.
type ErrorMiddlewareFunc func(err error, c *Context) error

func (f ErrorMiddlewareFunc) HandleError(err error, c *Context) error { return f(err, c) }

// sameStage reports whether two registered stages are the same value.
// Use and UseForError rely on it to make re-adding a stage a no-op.
// Pointer stages compare by pointer, comparable values by equality.
// Func stages compare by the closure pointer carried in the interface:
// the code pointer reflect exposes is shared by every closure built from
// the same literal and cannot tell them apart.
func sameStage(a, b interface{}) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Func:
		return dataWord(a) == dataWord(b)
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan:
		return av.Pointer() == bv.Pointer()
	}
	if !av.Type().Comparable() {
		return false
	}
	return a == b
}

func dataWord(i interface{}) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&i))[1]
}
