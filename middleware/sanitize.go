package middleware

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/swishcloud/godispatch"
)

func init() {
	bluemondayPolicy = bluemonday.NewPolicy()
	bluemondayPolicy.AllowStandardURLs()
	bluemondayPolicy.AllowAttrs("href").OnElements("a", "area")
	bluemondayPolicy.AllowAttrs("src").OnElements("img")
	bluemondayPolicy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	bluemondayPolicy.AllowElements("p", "ol", "li", "br")
}

var bluemondayPolicy *bluemonday.Policy

// Sanitize strips disallowed HTML from every string value of a parsed
// object body. It expects a body-parsing stage to have run earlier in
// the pipeline; a nil or non-object body passes through untouched.
func Sanitize() godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		if m, ok := c.Body.(map[string]interface{}); ok {
			for k, v := range m {
				if s, ok := v.(string); ok {
					m[k] = bluemondayPolicy.Sanitize(s)
				}
			}
		}
		return nil
	}
}
