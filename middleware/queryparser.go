package middleware

import (
	"github.com/swishcloud/godispatch"
)

// QueryParser fills the context query map from the request URL. It never
// fails; an unparsable query yields an empty map.
func QueryParser() godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		c.Query = c.Request.URL.Query()
		return nil
	}
}

// ParamBinder re-derives the path parameters from the pattern the
// dispatcher bound to the context. Useful after another stage rewrote
// the raw path.
func ParamBinder() godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		if c.Pattern != nil {
			c.Params = c.Pattern.Params(c.RawPath)
		}
		return nil
	}
}
