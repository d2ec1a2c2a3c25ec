package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrNotReady indicates that a resource exists but has not finished processing.
	ErrNotReady = errors.New("resource not ready")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	TypeServer     Type = iota // Server-side errors (e.g., database or network issues).
	TypeBusiness               // Business logic errors (e.g., an upload still processing).
	TypeValidation             // Validation errors (e.g., a bad file or query parameter).
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	CodeInternal         Code = iota // Internal or unspecified error.
	CodeInvalidFormat                // Request body is not a readable upload.
	CodeInvalidInput                 // Input failed validation.
	CodeNotFound                     // Resource not found.
	CodeConflict                     // Resource is in a state that forbids the operation.
	CodeUnsupportedMedia             // Upload has a file type the loader does not read.
	CodeTooLarge                     // Request body is above the configured limit.
)

//nolint:gochecknoglobals // lookup table
var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:         {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:    {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:     {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:         {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:         {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnsupportedMedia: {"ERROR_CODE_UNSUPPORTED_MEDIA", http.StatusUnsupportedMediaType},
	CodeTooLarge:         {"ERROR_CODE_TOO_LARGE", http.StatusRequestEntityTooLarge},
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return codes[CodeInternal].name
}

// Error is a structured error used across the application.
//
// It can wrap an underlying error while also carrying a user-facing message,
// a high-level type, and a stable error code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error returns the wrapped error text, falling back to the message.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	case e.errType == TypeValidation:
		return "Validation violation"
	case e.errType == TypeBusiness:
		return "Logical business not meet with requirement"
	default:
		return "Internal error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	if info, ok := codes[e.code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.code
	}
	return CodeInternal
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error wrapping the reason input was rejected.
func NewInvalidInput(err error) error {
	return new(err, "validation error", TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat creates a validation error for a request body that is not a readable upload.
func NewInvalidFormat() error {
	return new(nil, "invalid request body", TypeValidation, CodeInvalidFormat)
}

// NewUnsupportedMedia creates a validation error for an upload of a file type the service cannot read.
func NewUnsupportedMedia(err error) error {
	return new(err, "unsupported file type", TypeValidation, CodeUnsupportedMedia)
}

// NewTooLarge creates a validation error for a request body above the accepted size.
func NewTooLarge(err error) error {
	return new(err, "request body too large", TypeValidation, CodeTooLarge)
}
