package godispatch

import (
	"encoding/json"
	"net/http"
	"time"
)

// Context carries one request through the pipeline. It is created per
// request, handed by exclusive reference through every stage in order,
// and never shared across requests. Body, Query and Params start empty
// and are filled in by collaborator middlewares and by the matcher.
type Context struct {
	Engine  *Engine
	Request *http.Request
	Writer  http.ResponseWriter
	CT      time.Time

	// RawPath is the path plus query string exactly as the listener
	// delivered it; route patterns match against this string.
	RawPath string

	// Route and Pattern are bound by the dispatcher once a route matched.
	Route   *Route
	Pattern *PathPattern

	Body   interface{}
	Query  map[string][]string
	Params map[string]string
}

// Param returns the named path parameter, or "" when the matched pattern
// captured no such group.
func (c *Context) Param(name string) string {
	return c.Params[name]
}

// QueryValue returns the first value for the named query parameter. The
// query map is populated by the query-parsing middleware.
func (c *Context) QueryValue(name string) string {
	if vs := c.Query[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (c *Context) Success(data interface{}) {
	HandlerResult{Data: data}.Write(c.Writer)
}
func (c *Context) Failed(error string) {
	HandlerResult{Error: error}.Write(c.Writer)
}

// HandlerResult is the JSON envelope handlers write through Success and
// Failed.
type HandlerResult struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error,omitempty"`
}

func (r HandlerResult) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(r)
	if err != nil {
		errlog.Println(err)
		return
	}
	w.Write(b)
}

type ErrorPageFunc func(c *Context, status int, desc string)

func (c *Context) ShowErrorPage(status int, desc string) {
	if c.Engine == nil || c.Engine.ErrorPageFunc == nil {
		c.Writer.WriteHeader(status)
	} else {
		c.Engine.ErrorPageFunc(c, status, desc)
	}
}
