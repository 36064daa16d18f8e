package strada

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsupportedPattern is returned by a matcher strategy that
	// cannot represent a pattern. The adaptive router treats it as a
	// fallback trigger; it becomes fatal only when every configured
	// strategy rejects the pattern.
	ErrUnsupportedPattern = errors.New("pattern not supported by strategy")

	// ErrNoResponse reaches the error boundary when a handler chain
	// completes without producing a response. A chain where nothing
	// short-circuits and the terminal handler stays silent is a
	// server-side defect, not a client error.
	ErrNoResponse = errors.New("handler chain produced no response")
)

// pattern compile error causes, wrapped by PatternError.
var (
	errMissingSlash  = errors.New("pattern must begin with /")
	errEmptyName     = errors.New("empty parameter name")
	errDuplicateName = errors.New("duplicated parameter name")
	errNotLast       = errors.New("optional or wildcard segment must be last")
	errUnbalanced    = errors.New("unbalanced braces")
	errMountPrefix   = errors.New("mount prefix must not contain optional or wildcard segments")
)

// PatternError reports a malformed route pattern. It is returned
// synchronously from registration APIs and never surfaces at request
// time.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("strada: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// HTTPError carries an HTTP status code through the handler chain to
// the error boundary. The default boundary maps it to its status; any
// other error maps to a bare 500 so internals never leak.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError with the given status and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status the error maps to.
func (e *HTTPError) StatusCode() int { return e.Code }
