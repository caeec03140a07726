package app

import "net/http"

// responseWriter wraps the transport writer to record whether a handler
// wrote to it directly and with which status. The dispatcher skips the
// finalized response when the handler already produced output, and the
// request logging hook reports the status that actually went out.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader records the first status; later calls are dropped, the
// transport would reject them anyway.
func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written reports whether anything reached the transport.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the status code sent, or zero while nothing was written.
func (w *responseWriter) Status() int {
	return w.status
}
