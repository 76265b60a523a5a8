package godispatch

import (
	"regexp"
	"strings"
)

// PathPattern is the compiled, anchored form of a route path spec. A spec
// without regexp metacharacters is matched literally; anything else is
// compiled as a regexp whose named capture groups become path parameters.
// Matching runs against the raw request path as delivered by the listener,
// query string included, so the anchor tolerates an optional trailing
// slash and an optional "?query" tail after the path itself.
type PathPattern struct {
	source string
	re     *regexp.Regexp
}

// NewPathPattern compiles spec. A malformed spec fails here, at
// registration time, never during matching.
func NewPathPattern(spec string) (*PathPattern, error) {
	body := spec
	if regexp.QuoteMeta(spec) != spec {
		// accept the (?<name>...) named-group spelling too
		body = strings.ReplaceAll(spec, "(?<", "(?P<")
	}
	re, err := regexp.Compile("^" + body + `/?(\?.*)?$`)
	if err != nil {
		return nil, &InvalidPatternError{Source: spec, cause: err}
	}
	return &PathPattern{source: spec, re: re}, nil
}

// Source returns the spec the pattern was compiled from. Two routes are
// the same registration key iff their method and Source are identical.
func (p *PathPattern) Source() string {
	return p.source
}

func (p *PathPattern) Match(rawPath string) bool {
	return p.re.MatchString(rawPath)
}

// Params extracts named capture groups from rawPath. A path that does not
// match, or a pattern without named groups, yields nil rather than an
// error.
func (p *PathPattern) Params(rawPath string) map[string]string {
	m := p.re.FindStringSubmatch(rawPath)
	if m == nil {
		return nil
	}
	var params map[string]string
	for i, name := range p.re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		if params == nil {
			params = map[string]string{}
		}
		params[name] = m[i]
	}
	return params
}
