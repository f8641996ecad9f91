package ingest

import "errors"

// Kind is a machine-readable ingestion error kind.
type Kind string

const (
	KindMissingInput          Kind = "MISSING_INPUT"
	KindUnsupportedFormat     Kind = "UNSUPPORTED_FORMAT"
	KindEmptyFile             Kind = "EMPTY_FILE"
	KindParseError            Kind = "PARSE_ERROR"
	KindNoRecognizableColumns Kind = "NO_RECOGNIZABLE_COLUMNS"
	KindNoValidRows           Kind = "NO_VALID_ROWS"
	KindInvalidArgument       Kind = "INVALID_ARGUMENT"
	KindPersistenceFailure    Kind = "PERSISTENCE_FAILURE"
)

// Validation reports whether the kind describes bad input rather than an internal failure.
func (k Kind) Validation() bool {
	return k != "" && k != KindPersistenceFailure
}

// Error is an ingestion failure with a kind, a safe message and optional parser diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so the Err* values below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingInput          = &Error{Kind: KindMissingInput, Message: "missing required fields"}
	ErrUnsupportedFormat     = &Error{Kind: KindUnsupportedFormat, Message: "invalid file format"}
	ErrEmptyFile             = &Error{Kind: KindEmptyFile, Message: "file is empty"}
	ErrParse                 = &Error{Kind: KindParseError, Message: "file parsing error"}
	ErrNoRecognizableColumns = &Error{Kind: KindNoRecognizableColumns, Message: "file must contain at least one of name, email, or phone"}
	ErrNoValidRows           = &Error{Kind: KindNoValidRows, Message: "no valid rows with at least one of name, email, or phone"}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrPersistenceFailure    = &Error{Kind: KindPersistenceFailure, Message: "persistence failure"}
)

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
