package apicat

// ExtractResult holds the renderable parts of a help page.
type ExtractResult struct {
	// Title is the page heading.
	Title string

	// ContentHTML is the page body without the heading and version notes.
	ContentHTML string
}

// Extractor isolates the readable content of a raw help page.
type Extractor interface {
	// Extract processes raw page HTML and returns its title and body.
	Extract(html string) (*ExtractResult, error)
}
