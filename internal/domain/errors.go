package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Every failure the kiosk reports wraps one of these.
var (
	// ErrTransport means no usable response was obtained: the backend was
	// unreachable or the request was rejected before a body arrived.
	ErrTransport = fmt.Errorf("transport failure")
	// ErrSemantic means a response arrived but reports an application-level
	// problem: non-success status, missing or invalid fields.
	ErrSemantic = fmt.Errorf("semantic failure")
	// ErrValidation means a client-side precondition failed before any
	// request was issued.
	ErrValidation = fmt.Errorf("validation failure")
)

// Sentinel errors for the kiosk session.
var (
	ErrEmptyDirectory  = fmt.Errorf("%w: directory is empty", ErrValidation)
	ErrIndexOutOfRange = fmt.Errorf("%w: selection index out of range", ErrValidation)
	ErrEmptyMessage    = fmt.Errorf("%w: chat message is empty", ErrValidation)
	ErrNoFiles         = fmt.Errorf("%w: no files selected", ErrValidation)
	ErrRequestPending  = fmt.Errorf("%w: a chat request is already pending", ErrValidation)
	ErrNotConfirmed    = fmt.Errorf("%w: action not confirmed", ErrValidation)

	ErrCircuitOpen  = fmt.Errorf("%w: backend circuit open", ErrTransport)
	ErrRateLimit    = fmt.Errorf("%w: rate limit exceeded", ErrTransport)
	ErrBadStatus    = fmt.Errorf("%w: unexpected http status", ErrSemantic)
	ErrBadPayload   = fmt.Errorf("%w: malformed response payload", ErrSemantic)
	ErrUploadFailed = fmt.Errorf("%w: upload not reported as success", ErrSemantic)

	ErrConfigLoad = fmt.Errorf("failed to load configuration")

	// ErrHTTPStatus marks any response whose HTTP status was not 2xx,
	// whatever category the status falls into.
	ErrHTTPStatus = errors.New("backend answered with a non-success status")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Directory.Load")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FailureKind is the three-way failure taxonomy used for user messaging.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureSemantic
	FailureValidation
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureSemantic:
		return "semantic"
	case FailureValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ClassifyFailure maps err onto the failure taxonomy. Errors that wrap no
// category sentinel are treated as transport failures, since they come from
// the network stack rather than from a decoded response.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrValidation):
		return FailureValidation
	case errors.Is(err, ErrSemantic):
		return FailureSemantic
	default:
		return FailureTransport
	}
}

// ErrorCode is a machine-parseable error category for logs.
type ErrorCode string

const (
	CodeUnknown        ErrorCode = "UNKNOWN"
	CodeTransport      ErrorCode = "TRANSPORT"
	CodeSemantic       ErrorCode = "SEMANTIC"
	CodeValidation     ErrorCode = "VALIDATION"
	CodeEmptyDirectory ErrorCode = "EMPTY_DIRECTORY"
	CodeIndexRange     ErrorCode = "INDEX_OUT_OF_RANGE"
	CodeEmptyMessage   ErrorCode = "EMPTY_MESSAGE"
	CodeNoFiles        ErrorCode = "NO_FILES"
	CodeRequestPending ErrorCode = "REQUEST_PENDING"
	CodeNotConfirmed   ErrorCode = "NOT_CONFIRMED"
	CodeCircuitOpen    ErrorCode = "CIRCUIT_OPEN"
	CodeRateLimit      ErrorCode = "RATE_LIMIT"
	CodeBadStatus      ErrorCode = "BAD_STATUS"
	CodeBadPayload     ErrorCode = "BAD_PAYLOAD"
	CodeUploadFailed   ErrorCode = "UPLOAD_FAILED"
	CodeConfigLoad     ErrorCode = "CONFIG_LOAD"
)

// sentinelCodes is checked in order; specific sentinels precede the
// categories they wrap.
var sentinelCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrEmptyDirectory, CodeEmptyDirectory},
	{ErrIndexOutOfRange, CodeIndexRange},
	{ErrEmptyMessage, CodeEmptyMessage},
	{ErrNoFiles, CodeNoFiles},
	{ErrRequestPending, CodeRequestPending},
	{ErrNotConfirmed, CodeNotConfirmed},
	{ErrCircuitOpen, CodeCircuitOpen},
	{ErrRateLimit, CodeRateLimit},
	{ErrBadStatus, CodeBadStatus},
	{ErrBadPayload, CodeBadPayload},
	{ErrUploadFailed, CodeUploadFailed},
	{ErrConfigLoad, CodeConfigLoad},
	{ErrValidation, CodeValidation},
	{ErrSemantic, CodeSemantic},
	{ErrTransport, CodeTransport},
}

// ErrorCodeOf returns the ErrorCode for err, or CodeUnknown.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return CodeUnknown
}
