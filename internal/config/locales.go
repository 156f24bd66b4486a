package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguage maps a requested language to one the comment templates
// ship with, defaulting to English.
func SupportedLanguage(lang string) string {
	switch lang {
	case LangES, "es-ES", "es-AR":
		return LangES
	default:
		return LangEN
	}
}
