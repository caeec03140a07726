package response

import "net/http"

// HTTPError represents a structured error response that implements the
// error interface. Errors carrying a status code drive status-keyed
// error-handler lookup during dispatch.
type HTTPError struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode reports the HTTP status associated with the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = HTTPError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = HTTPError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrForbidden           = HTTPError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: http.StatusText(http.StatusForbidden)}
	ErrNotFound            = HTTPError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)}
	ErrMethodNotAllowed    = HTTPError{Status: http.StatusMethodNotAllowed, Code: "METHOD_NOT_ALLOWED", Message: http.StatusText(http.StatusMethodNotAllowed)}
	ErrConflict            = HTTPError{Status: http.StatusConflict, Code: "CONFLICT", Message: http.StatusText(http.StatusConflict)}
	ErrUnprocessableEntity = HTTPError{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: http.StatusText(http.StatusUnprocessableEntity)}
	ErrTooManyRequests     = HTTPError{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrInternalServerError = HTTPError{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
	ErrNotImplemented      = HTTPError{Status: http.StatusNotImplemented, Code: "NOT_IMPLEMENTED", Message: http.StatusText(http.StatusNotImplemented)}
	ErrServiceUnavailable  = HTTPError{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: http.StatusText(http.StatusServiceUnavailable)}
)

// httpErrorsByStatus maps status codes to their predefined errors for
// status-based conversion of plain errors.
var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusConflict:            ErrConflict,
	http.StatusUnprocessableEntity: ErrUnprocessableEntity,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	http.StatusInternalServerError: ErrInternalServerError,
	http.StatusNotImplemented:      ErrNotImplemented,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}

// ByStatus returns the predefined HTTPError for a status code, falling back
// to 500 Internal Server Error for unknown codes.
func ByStatus(status int) HTTPError {
	if e, ok := httpErrorsByStatus[status]; ok {
		return e
	}
	return ErrInternalServerError
}
