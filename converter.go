package apicat

// Converter renders page markup as Markdown.
type Converter interface {
	// Convert transforms page HTML (e.g., from an Extractor) into Markdown.
	// Returns EINVALID for empty input.
	Convert(html string) (string, error)
}
