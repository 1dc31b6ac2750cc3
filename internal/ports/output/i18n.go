package output

// T is the i18n contract used for every human-facing line the tool prints.
type T interface {
	// T renders key for locale; data feeds template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
