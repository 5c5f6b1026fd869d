// Package translate provides the translation-service contract used by the
// pipeline and an HTTP client for an NLLB-style serving endpoint.
package translate

import (
	"context"
	"regexp"
)

// Translator translates one unit of text synchronously.
type Translator interface {
	// Translate returns text rendered from srcLang into tgtLang. It returns
	// an unsupported-language error (IsUnsupportedLanguage) for unrecognized
	// target tags.
	Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error)
}

// NLLB-style language tags: three-letter language code plus title-case
// four-letter script, e.g. heb_Hebr, eng_Latn.
var langTagPattern = regexp.MustCompile(`^[a-z]{3}_[A-Z][a-z]{3}$`)

// ValidTag reports whether tag has the expected NLLB tag shape. It does not
// guarantee the serving endpoint knows the tag; that is checked per call.
func ValidTag(tag string) bool {
	return langTagPattern.MatchString(tag)
}
