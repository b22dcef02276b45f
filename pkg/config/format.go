package config

// FormatKind formats a diagnostic kind identifier. Falls back to the ID
// if the name is empty.
func FormatKind(format KindFormat, id, name string) string {
	if name == "" {
		return id
	}

	switch format {
	case KindFormatID:
		return id
	case KindFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}
