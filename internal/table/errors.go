// Package table loads flat translation tables (key to display value) from
// JSON, YAML or TOML files.
package table

import "errors"

// Sentinel errors for table loading.
var (
	// ErrParse is wrapped by every parse failure so callers can treat
	// malformed input and wrong shapes alike.
	ErrParse = errors.New("table: parse error")

	// ErrMalformed indicates the input is not syntactically valid.
	ErrMalformed = errors.New("table: malformed input")

	// ErrNotObject indicates the top-level value is not an object/mapping.
	ErrNotObject = errors.New("table: top-level value is not an object")

	// ErrUnsupportedFormat indicates a file extension with no known decoder.
	ErrUnsupportedFormat = errors.New("table: unsupported file format")
)

// parseError joins ErrParse with a specific cause so errors.Is matches both.
type parseError struct {
	kind  error
	cause error
}

func (e *parseError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *parseError) Unwrap() []error {
	errs := []error{ErrParse, e.kind}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}
