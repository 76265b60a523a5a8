package godispatch

// RouterGroup is an ordered collection of routes sharing a middleware
// scope. Routes are scanned for a match in insertion order; registering
// the same (method, pattern source) key again replaces the existing route
// in place, keeping its scan position.
type RouterGroup struct {
	routes           []*Route
	index            map[string]int
	middlewares      []Middleware
	errorMiddlewares []ErrorMiddleware
}

func NewRouterGroup() *RouterGroup {
	return &RouterGroup{index: map[string]int{}}
}

func routeKey(method, source string) string {
	return method + " " + source
}

// Handle registers handler for method at the given path spec and returns
// the route so callers can attach route-tier middleware. Registration
// never invokes the handler; a malformed spec fails here with an
// *InvalidPatternError.
func (group *RouterGroup) Handle(spec string, method string, handler HandlerFunc) (*Route, error) {
	pattern, err := NewPathPattern(spec)
	if err != nil {
		return nil, err
	}
	route := &Route{method: method, pattern: pattern, handler: handler}
	if group.index == nil {
		group.index = map[string]int{}
	}
	key := routeKey(method, spec)
	if i, ok := group.index[key]; ok {
		group.routes[i] = route
		return route, nil
	}
	group.index[key] = len(group.routes)
	group.routes = append(group.routes, route)
	return route, nil
}

func (group *RouterGroup) GET(spec string, handler HandlerFunc) (*Route, error) {
	return group.Handle(spec, "GET", handler)
}

func (group *RouterGroup) POST(spec string, handler HandlerFunc) (*Route, error) {
	return group.Handle(spec, "POST", handler)
}

func (group *RouterGroup) PUT(spec string, handler HandlerFunc) (*Route, error) {
	return group.Handle(spec, "PUT", handler)
}

func (group *RouterGroup) DELETE(spec string, handler HandlerFunc) (*Route, error) {
	return group.Handle(spec, "DELETE", handler)
}

// Find returns the route registered under exactly (spec, method), or nil.
// This is a key lookup, not a match, meant for attaching more middleware
// to a route registered earlier.
func (group *RouterGroup) Find(spec string, method string) *Route {
	if i, ok := group.index[routeKey(method, spec)]; ok {
		return group.routes[i]
	}
	return nil
}

// Use appends a group-tier middleware, deduplicated by identity.
func (group *RouterGroup) Use(m Middleware) {
	for _, cur := range group.middlewares {
		if sameStage(cur, m) {
			return
		}
	}
	group.middlewares = append(group.middlewares, m)
}

// UseForError appends a group-tier recovery stage, deduplicated by
// identity.
func (group *RouterGroup) UseForError(m ErrorMiddleware) {
	for _, cur := range group.errorMiddlewares {
		if sameStage(cur, m) {
			return
		}
	}
	group.errorMiddlewares = append(group.errorMiddlewares, m)
}

// match returns the first route in insertion order whose method and
// pattern accept the request, or nil.
func (group *RouterGroup) match(method, rawPath string) *Route {
	for _, route := range group.routes {
		if route.method == method && route.pattern.Match(rawPath) {
			return route
		}
	}
	return nil
}
