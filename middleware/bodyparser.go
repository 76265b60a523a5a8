// Package middleware holds the pluggable pipeline stages the engine core
// does not provide itself: body/query parsing, request correlation,
// request logging and body sanitation.
package middleware

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/swishcloud/godispatch"
)

// ErrInvalidBody is signalled into the pipeline when a strict parser
// cannot decode the request body.
var ErrInvalidBody = errors.New("invalid request body")

// BodyParser decodes a JSON request body into the context body slot. A
// malformed body is dropped silently: the body slot stays nil and the
// request proceeds.
func BodyParser() godispatch.MiddlewareFunc {
	return bodyParser(false)
}

// StrictBodyParser decodes a JSON request body into the context body
// slot and signals ErrInvalidBody on a malformed one, diverting the
// request into the owning tier's recovery chain.
func StrictBodyParser() godispatch.MiddlewareFunc {
	return bodyParser(true)
}

func bodyParser(strict bool) godispatch.MiddlewareFunc {
	return func(c *godispatch.Context) error {
		if c.Request.Body == nil {
			return nil
		}
		b, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			if strict {
				return errors.Wrap(ErrInvalidBody, err.Error())
			}
			return nil
		}
		if len(b) == 0 {
			return nil
		}
		var body interface{}
		if err := json.Unmarshal(b, &body); err != nil {
			if strict {
				return errors.Wrap(ErrInvalidBody, err.Error())
			}
			return nil
		}
		c.Body = body
		return nil
	}
}
