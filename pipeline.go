package godispatch

import "net/http"

// tier is one of the three middleware scopes a request passes through,
// in fixed order: application, owning group, matched route.
type tier struct {
	name             string
	middlewares      []Middleware
	errorMiddlewares []ErrorMiddleware
}

// dispatch runs one request to a terminal response: match, bind, the
// three tiers, then the handler. The handler runs exactly once and only
// if every tier finished clean.
func (engine *Engine) dispatch(c *Context) {
	var route *Route
	var owner *RouterGroup
	for _, group := range engine.groups {
		if r := group.match(c.Request.Method, c.RawPath); r != nil {
			route, owner = r, group
			break
		}
	}
	if route == nil {
		if engine.ErrorPageFunc != nil {
			c.ShowErrorPage(http.StatusNotFound, "page not found")
		} else {
			c.Writer.WriteHeader(http.StatusNotFound)
		}
		return
	}
	c.Route = route
	c.Pattern = route.pattern
	c.Params = route.pattern.Params(c.RawPath)
	tiers := []tier{
		{"application", engine.middlewares, engine.errorMiddlewares},
		{"group", owner.middlewares, owner.errorMiddlewares},
		{"route", route.middlewares, route.errorMiddlewares},
	}
	for _, t := range tiers {
		if terminated := runTier(t, c); terminated {
			return
		}
	}
	safelyHandle(route.handler, c)
}

// runTier runs one tier's stages sequentially in registration order and
// reports whether the pipeline must terminate. The first stage error
// abandons the rest of the tier and every later tier; recovery stays
// inside this tier.
func runTier(t tier, c *Context) bool {
	for _, m := range t.middlewares {
		if err := m.Handle(c); err != nil {
			recoverTier(t, err, c)
			return true
		}
	}
	return false
}

// recoverTier hands err down the tier's recovery chain. A stage returning
// nil has resolved the error and is expected to have written a terminal
// response; a stage may also return a different error for the next stage.
// An exhausted chain is logged and the response left untouched.
func recoverTier(t tier, err error, c *Context) {
	for _, em := range t.errorMiddlewares {
		if err = em.HandleError(err, c); err == nil {
			return
		}
	}
	errlog.Println(NewPipelineError(t.name, err))
}
