// Package i18n models the closed language set used by localized catalog
// fields and implements read-time fallback between languages.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when the requested language has no value.
const DefaultLanguage = "en"

// Supported lists the language codes a localized bag may carry.
var Supported = []string{"en", "ru", "uz"}

var supportedTags = []language.Tag{
	language.English,
	language.Russian,
	language.Make("uz"),
}

var matcher = language.NewMatcher(supportedTags)

// Localized is a language-code keyed bag of translated values.
// Keys are restricted to Supported; missing keys are legal and resolved
// through Pick at read time.
type Localized map[string]string

// ValidateBag rejects bags containing language codes outside the supported
// set. Called at the write boundary, never on read.
func ValidateBag(bag Localized) error {
	for code := range bag {
		if !IsSupported(code) {
			return fmt.Errorf("i18n: unsupported language key %q", code)
		}
	}
	return nil
}

// IsSupported reports whether code belongs to the closed language set.
func IsSupported(code string) bool {
	for _, s := range Supported {
		if s == code {
			return true
		}
	}
	return false
}

// Match resolves an arbitrary language tag ("ru-RU", "en_US") to the closest
// supported code. Unparseable or unmatched tags resolve to the default.
func Match(tag string) string {
	if tag == "" {
		return DefaultLanguage
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return DefaultLanguage
	}
	return Supported[idx]
}

// Pick returns the value for lang, falling back to the default language and
// then to any populated entry in supported order. Empty bags yield "".
func Pick(bag Localized, lang string) string {
	if len(bag) == 0 {
		return ""
	}
	if v, ok := bag[lang]; ok && v != "" {
		return v
	}
	if v, ok := bag[DefaultLanguage]; ok && v != "" {
		return v
	}
	for _, code := range Supported {
		if v, ok := bag[code]; ok && v != "" {
			return v
		}
	}
	return ""
}
