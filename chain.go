package strada

import (
	"errors"
	"net/http"
)

// dispatch drives one chain to completion and funnels failures into the
// error boundary. A chain is pending, running handler i, completed with
// a response, or failed with an error; only handler errors and a silent
// chain (ErrNoResponse) ever reach the boundary.
func (r *Router) dispatch(c *Context) {
	err := c.Next()
	if err == nil && c.resp == nil {
		err = ErrNoResponse
	}
	if err == nil {
		return
	}

	boundary := r.errorHandler
	if boundary == nil {
		boundary = defaultErrorHandler
	}

	// A partial response from a failed chain is discarded; the boundary
	// owns the response now.
	c.resp = nil
	boundary(c, err)
}

// defaultErrorHandler maps *HTTPError to its status code and anything
// else to a bare 500, leaking nothing about the failure.
func defaultErrorHandler(c *Context, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}
		c.Text(code, httpErr.Error())
		return
	}
	c.Text(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// defaultNotFound is the reserved not-found terminal handler.
func defaultNotFound(c *Context) error {
	return c.NoContent(http.StatusNotFound)
}

// defaultMethodNotAllowed is the reserved 405 terminal handler. The
// router sets the Allow header on the settled response.
func defaultMethodNotAllowed(c *Context) error {
	return c.NoContent(http.StatusMethodNotAllowed)
}
