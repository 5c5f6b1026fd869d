package pipeline

import "errors"

// validationError marks a malformed request field. It is raised before any
// output byte so the HTTP layer can map it to a 400.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation constructs a validationError.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err indicates a malformed request.
func IsValidation(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// configError marks invalid pipeline construction (bad language tag, empty
// stop marker). It is fatal at startup, never at stream time.
type configError struct{ msg string }

func (e configError) Error() string { return e.msg }

// ErrConfig constructs a configError.
func ErrConfig(msg string) error { return configError{msg: msg} }

// IsConfig reports whether err indicates invalid pipeline configuration.
func IsConfig(err error) bool {
	var ce configError
	return errors.As(err, &ce)
}
