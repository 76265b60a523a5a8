package godispatch

// Route binds one (method, pattern) pair to a handler together with the
// route-scoped middleware and recovery chains. Its identity never changes
// after registration; only the chains grow.
type Route struct {
	method           string
	pattern          *PathPattern
	handler          HandlerFunc
	middlewares      []Middleware
	errorMiddlewares []ErrorMiddleware
}

func (r *Route) Method() string {
	return r.method
}

func (r *Route) Pattern() *PathPattern {
	return r.pattern
}

func (r *Route) Handler() HandlerFunc {
	return r.handler
}

// Use appends a route-tier middleware. Adding a stage that is already in
// the chain is a no-op. Returns the route for chaining.
func (r *Route) Use(m Middleware) *Route {
	for _, cur := range r.middlewares {
		if sameStage(cur, m) {
			return r
		}
	}
	r.middlewares = append(r.middlewares, m)
	return r
}

// UseForError appends a route-tier recovery stage, deduplicated like Use.
func (r *Route) UseForError(m ErrorMiddleware) *Route {
	for _, cur := range r.errorMiddlewares {
		if sameStage(cur, m) {
			return r
		}
	}
	r.errorMiddlewares = append(r.errorMiddlewares, m)
	return r
}
