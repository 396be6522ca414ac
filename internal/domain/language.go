package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLanguageTag validates s as AUTO or a BCP 47 tag and returns its canonical form.
func ParseLanguageTag(s string) (LanguageTag, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(AutoLanguage)) {
		return AutoLanguage, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", s, err)
	}

	return LanguageTag(tag.String()), nil
}

// IsAuto reports whether the tag asks the provider to choose.
func (t LanguageTag) IsAuto() bool {
	return t == AutoLanguage || t == ""
}
