package godispatch

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidPatternError reports a route path spec that failed to compile.
// It is returned by registration calls and never surfaces at match time.
type InvalidPatternError struct {
	Source string
	cause  error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid route pattern %q: %s", e.Source, e.cause)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.cause
}

// NewPipelineError wraps err with the tier it surfaced in, for logging of
// errors that exhaust their tier's recovery chain.
func NewPipelineError(tier string, err error) error {
	return errors.Wrapf(err, "unrecovered pipeline error in %s tier", tier)
}
