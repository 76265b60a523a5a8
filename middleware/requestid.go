package middleware

import (
	"github.com/google/uuid"

	"github.com/swishcloud/godispatch"
)

const RequestIdHeader = "X-Request-Id"

// RequestId tags every request with a correlation id, reusing the
// caller's id when the header is already present.
func RequestId() godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		id := c.Request.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.New().String()
			c.Request.Header.Set(RequestIdHeader, id)
		}
		c.Writer.Header().Set(RequestIdHeader, id)
		return nil
	}
}
