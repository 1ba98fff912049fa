package apicat

import "io"

// Record is a typed fragment extracted from one block of a help page.
// The set of implementations is closed; consumers switch over:
// *NameRecord, *SyntaxRecord, *ParametersRecord, *DescriptionRecord,
// *TypeRecord, *ReturnsRecord, *UsageRecord, *ExampleRecord and
// *BaseTypesRecord.
type Record interface {
	record()
}

// NameRecord holds the page heading split into local and English names.
type NameRecord struct {
	Local   string
	English string
}

// SyntaxRecord holds the call syntax line.
type SyntaxRecord struct {
	Text string
}

// ParametersRecord holds the parameters in heading order.
type ParametersRecord struct {
	Parameters []Parameter
}

// DescriptionRecord holds free text with inline code quoted in backticks.
type DescriptionRecord struct {
	Text string
}

// TypeRecord holds the declared type of a property.
type TypeRecord struct {
	TypeName    string
	Description string
}

// ReturnsRecord holds the return type of a method.
type ReturnsRecord struct {
	TypeName    string
	Description string
}

// UsageRecord holds the access mode of a property.
type UsageRecord struct {
	ReadOnly bool
}

// ExampleRecord holds a usage example.
type ExampleRecord struct {
	Text string
}

// BaseTypesRecord holds the names of types a type derives from.
type BaseTypesRecord struct {
	Names []string
}

func (*NameRecord) record()        {}
func (*SyntaxRecord) record()      {}
func (*ParametersRecord) record()  {}
func (*DescriptionRecord) record() {}
func (*TypeRecord) record()        {}
func (*ReturnsRecord) record()     {}
func (*UsageRecord) record()       {}
func (*ExampleRecord) record()     {}
func (*BaseTypesRecord) record()   {}

// Page is the extraction result for one help page.
type Page struct {
	ID      string
	Records []Record
}

// Name returns the page's name record, or nil.
func (p *Page) Name() *NameRecord {
	for _, r := range p.Records {
		if n, ok := r.(*NameRecord); ok {
			return n
		}
	}
	return nil
}

// PageParser extracts typed records from raw page markup.
type PageParser interface {
	// Parse reads one page. Returns EUNKNOWNBLOCK when the page contains a
	// block marker no handler recognises, and EUNIMPLEMENTED when a block
	// ends before its handler received the input it requires.
	Parse(id string, r io.Reader) (*Page, error)
}
