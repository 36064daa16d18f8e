package strada

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the deferred response value a chain builds. Nothing is
// written to the network until the chain settles, so middleware running
// after Next can still change the status and headers.
type Response struct {
	status int
	header http.Header
	body   []byte
}

func newResponse(code int, contentType string, body []byte) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{status: code, header: h, body: body}
}

// Status returns the response status code.
func (r *Response) Status() int { return r.status }

// SetStatus replaces the response status code.
func (r *Response) SetStatus(code int) { r.status = code }

// Header returns the mutable response headers.
func (r *Response) Header() http.Header { return r.header }

// Body returns the response body bytes.
func (r *Response) Body() []byte { return r.body }

// write flushes the deferred response to the wire.
func (r *Response) write(w http.ResponseWriter) {
	for k, vs := range r.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.status)
	if len(r.body) > 0 {
		w.Write(r.body)
	}
}

// Text responds with a plain text body.
func (c *Context) Text(code int, body string) error {
	c.resp = newResponse(code, "text/plain; charset=utf-8", []byte(body))
	return nil
}

// HTML responds with an HTML body.
func (c *Context) HTML(code int, body string) error {
	c.resp = newResponse(code, "text/html; charset=utf-8", []byte(body))
	return nil
}

// JSON encodes v into a buffer first, so an encoding failure surfaces
// as a chain error instead of a half-written body.
func (c *Context) JSON(code int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("strada: encode json response: %w", err)
	}
	c.resp = newResponse(code, "application/json", buf.Bytes())
	return nil
}

// Blob responds with raw bytes under the given content type.
func (c *Context) Blob(code int, contentType string, body []byte) error {
	c.resp = newResponse(code, contentType, body)
	return nil
}

// NoContent responds with a status code and an empty body.
func (c *Context) NoContent(code int) error {
	c.resp = &Response{status: code, header: make(http.Header)}
	return nil
}

// Redirect responds with a Location header and the given 3xx status.
func (c *Context) Redirect(code int, location string) error {
	r := &Response{status: code, header: make(http.Header)}
	r.header.Set("Location", location)
	c.resp = r
	return nil
}
