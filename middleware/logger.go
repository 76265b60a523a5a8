package middleware

import (
	"fmt"

	"github.com/swishcloud/godispatch"
)

// RequestLogger logs every request entering the pipeline through the
// given log.
func RequestLogger(log godispatch.Log) godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		log.Info(fmt.Sprintf("%s %s ip:%s", c.Request.Method, c.RawPath, c.Request.RemoteAddr))
		return nil
	}
}

// ErrorLogger is a recovery stage that logs the error and re-signals it
// unchanged, so a later stage of the same tier can still resolve it.
func ErrorLogger(log godispatch.Log) godispatch.ErrorMiddlewareFunc {
	return func(err error, c *godispatch.Context) error {
		log.Error(fmt.Sprintf("%s %s: %s", c.Request.Method, c.RawPath, err))
		return err
	}
}
