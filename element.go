package apicat

import "strings"

// ElementKind identifies the variant of an Element.
type ElementKind string

// ElementKind values.
const (
	KindType        ElementKind = "type"
	KindMethod      ElementKind = "method"
	KindProperty    ElementKind = "property"
	KindConstructor ElementKind = "constructor"
)

// ElementKinds lists every kind in display order.
var ElementKinds = []ElementKind{KindType, KindMethod, KindProperty, KindConstructor}

// ParseElementKind converts a string into an ElementKind.
func ParseElementKind(s string) (ElementKind, error) {
	for _, k := range ElementKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", Errorf(EINVALID, "unknown element kind %q", s)
}

// ElementID returns the catalog identity of an element.
func ElementID(kind ElementKind, name string) string {
	return string(kind) + "_" + strings.ToLower(name)
}

// QualifiedName joins an owner type name and a member name.
// Global members have no owner and keep their plain name.
func QualifiedName(owner, name string) string {
	if owner == "" {
		return name
	}
	return owner + "." + name
}

// Element is one entry of the API catalog. The set of implementations is
// closed: *Type, *Method, *Property and *Constructor.
type Element interface {
	Base() *ElementBase
	Kind() ElementKind
	element()
}

// ElementBase holds the fields shared by all elements.
type ElementBase struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName,omitempty"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"` // owning type; empty for globals and types
}

// Base returns the shared fields.
func (b *ElementBase) Base() *ElementBase { return b }

// Parameter describes one parameter of a method or constructor.
type Parameter struct {
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	Optional    bool    `json:"optional"`
	Default     *string `json:"default,omitempty"`
}

// Signature is one call form of a method or constructor.
type Signature struct {
	Name        string      `json:"name"`
	Syntax      string      `json:"syntax,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Method is a callable member, possibly overloaded.
type Method struct {
	ElementBase
	ReturnType        string      `json:"returnType,omitempty"`
	ReturnDescription string      `json:"returnDescription,omitempty"`
	Signatures        []Signature `json:"signatures"`
	Example           string      `json:"example,omitempty"`
}

// Property is a data member.
type Property struct {
	ElementBase
	Type     string `json:"type,omitempty"`
	ReadOnly bool   `json:"readOnly"`
}

// Constructor is one way of creating a type instance.
type Constructor struct {
	ElementBase
	Signature Signature `json:"signature"`
}

// Type is a platform type that owns its members.
type Type struct {
	ElementBase
	Enum         bool           `json:"enum,omitempty"`
	BaseTypes    []string       `json:"baseTypes,omitempty"`
	Methods      []*Method      `json:"methods,omitempty"`
	Properties   []*Property    `json:"properties,omitempty"`
	Constructors []*Constructor `json:"constructors,omitempty"`
	Example      string         `json:"example,omitempty"`
}

// Members returns the type's methods and properties in declaration order,
// methods first.
func (t *Type) Members() []Element {
	out := make([]Element, 0, len(t.Methods)+len(t.Properties))
	for _, m := range t.Methods {
		out = append(out, m)
	}
	for _, p := range t.Properties {
		out = append(out, p)
	}
	return out
}

func (*Type) Kind() ElementKind        { return KindType }
func (*Method) Kind() ElementKind      { return KindMethod }
func (*Property) Kind() ElementKind    { return KindProperty }
func (*Constructor) Kind() ElementKind { return KindConstructor }

func (*Type) element()        {}
func (*Method) element()      {}
func (*Property) element()    {}
func (*Constructor) element() {}
