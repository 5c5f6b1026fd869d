package generate

import "errors"

// unavailableError signals a missing backend (e.g., binary built without
// llama support) so the HTTP layer can return 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed backend.
func IsUnavailable(err error) bool {
	var ue unavailableError
	return errors.As(err, &ue)
}
