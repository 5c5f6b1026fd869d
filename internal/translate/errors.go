package translate

import "errors"

// unsupportedLanguageError signals an unrecognized language tag. It can
// surface mid-stream (back-translation starts after bytes were sent), so the
// pipeline treats it as a stream-ending failure rather than an HTTP status.
type unsupportedLanguageError struct{ tag string }

func (e unsupportedLanguageError) Error() string { return "unsupported language tag: " + e.tag }

// ErrUnsupportedLanguage constructs an unsupportedLanguageError.
func ErrUnsupportedLanguage(tag string) error { return unsupportedLanguageError{tag: tag} }

// IsUnsupportedLanguage reports whether err indicates an unknown language tag.
func IsUnsupportedLanguage(err error) bool {
	var ue unsupportedLanguageError
	return errors.As(err, &ue)
}
