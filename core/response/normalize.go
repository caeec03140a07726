package response

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupportedReturnType reports a handler result that is not part of the
// accepted shape set.
var ErrUnsupportedReturnType = errors.New("unsupported handler return type")

// Tuple is the (body, status) / (body, status, headers) return shape.
// A zero Status keeps the body's own status; Header entries extend the
// body's headers, preserving duplicates.
type Tuple struct {
	Body   any
	Status int
	Header http.Header
}

// Normalize converts a handler return value into a canonical *Response.
//
// Accepted shapes, in priority order: *Response passthrough, Tuple,
// string (text/plain, 200), []byte (application/octet-stream, 200).
// Everything else fails with ErrUnsupportedReturnType.
func Normalize(v any) (*Response, error) {
	switch rv := v.(type) {
	case *Response:
		if rv == nil {
			return nil, fmt.Errorf("%w: nil *Response", ErrUnsupportedReturnType)
		}
		return rv, nil
	case Tuple:
		return normalizeTuple(rv)
	case string:
		return String(rv), nil
	case []byte:
		return Bytes(rv, "application/octet-stream"), nil
	case nil:
		return nil, fmt.Errorf("%w: handler returned nil", ErrUnsupportedReturnType)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedReturnType, v)
	}
}

func normalizeTuple(t Tuple) (*Response, error) {
	if _, ok := t.Body.(Tuple); ok {
		return nil, fmt.Errorf("%w: nested Tuple body", ErrUnsupportedReturnType)
	}

	resp, err := Normalize(t.Body)
	if err != nil {
		return nil, err
	}

	if t.Status != 0 {
		resp.StatusCode = t.Status
	}
	for key, values := range t.Header {
		for _, v := range values {
			resp.Header.Add(key, v)
		}
	}
	return resp, nil
}
