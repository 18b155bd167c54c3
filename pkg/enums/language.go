package enums

import "strings"

// Language is the display language chosen for a session.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

var validLanguages = []Language{LanguageEnglish, LanguageHindi}

func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage reads the primary tag of an Accept-Language style value and
// falls back to English.
func ParseLanguage(value string) Language {
	tag := strings.TrimSpace(value)
	if idx := strings.IndexAny(tag, ",;"); idx >= 0 {
		tag = tag[:idx]
	}
	if idx := strings.Index(tag, "-"); idx >= 0 {
		tag = tag[:idx]
	}
	lang := Language(strings.ToLower(strings.TrimSpace(tag)))
	if lang.IsValid() {
		return lang
	}
	return LanguageEnglish
}
