// Package catalog assembles extracted pages into an immutable API catalog
// and publishes catalog snapshots to concurrent readers.
package catalog

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/apicat"
)

// Model is the element hierarchy produced by Build.
type Model struct {
	Types            []*apicat.Type
	GlobalMethods    []*apicat.Method
	GlobalProperties []*apicat.Property
	Warnings         []string
}

// Build walks toc depth-first and turns the pages it references into
// elements. Pages missing from pages (failed or absent) are skipped, except
// that type nodes always produce a type so their members keep an owner.
func Build(toc *apicat.TOC, pages map[string]*apicat.Page) *Model {
	b := &builder{
		model:      &Model{},
		pages:      pages,
		typeByNode: make(map[int]*apicat.Type),
		typeByID:   make(map[string]*apicat.Type),
		methods:    make(map[string]*methodState),
		members:    make(map[string]bool),
	}
	toc.Walk(func(n *apicat.TOCNode, _ int) bool {
		b.visit(n)
		return true
	})
	return b.model
}

type methodState struct {
	method *apicat.Method
	seen   map[uint64]bool
}

type builder struct {
	model      *Model
	pages      map[string]*apicat.Page
	typeByNode map[int]*apicat.Type
	typeByID   map[string]*apicat.Type
	methods    map[string]*methodState
	members    map[string]bool
}

func (b *builder) warnf(format string, args ...any) {
	b.model.Warnings = append(b.model.Warnings, fmt.Sprintf(format, args...))
}

func (b *builder) visit(n *apicat.TOCNode) {
	switch n.Kind {
	case apicat.NodeType, apicat.NodeEnum:
		b.addType(n)
	case apicat.NodeMethod:
		b.addMethod(n)
	case apicat.NodeProperty:
		b.addProperty(n)
	case apicat.NodeConstructor:
		b.addConstructor(n)
	case apicat.NodeFolder, apicat.NodeGlobal:
	}
}

// owner returns the type that owns n, or nil for global members.
func (b *builder) owner(n *apicat.TOCNode) *apicat.Type {
	anc := n.NearestTypeAncestor()
	if anc == nil {
		return nil
	}
	return b.typeByNode[anc.ID]
}

func (b *builder) addType(n *apicat.TOCNode) {
	page := b.pages[n.Path]
	info := readPage(page)
	name, english := pageName(page, n.Title)

	t := &apicat.Type{
		ElementBase: apicat.ElementBase{
			ID:          apicat.ElementID(apicat.KindType, name),
			Name:        name,
			EnglishName: english,
			Description: info.description,
		},
		Enum:      n.Kind == apicat.NodeEnum,
		BaseTypes: info.baseTypes,
		Example:   info.example,
	}
	if prev, ok := b.typeByID[t.ID]; ok {
		b.warnf("duplicate type %q at %s", name, n.Path)
		b.typeByNode[n.ID] = prev
		return
	}
	b.typeByID[t.ID] = t
	b.typeByNode[n.ID] = t
	b.model.Types = append(b.model.Types, t)
}

func (b *builder) addMethod(n *apicat.TOCNode) {
	page, ok := b.pages[n.Path]
	if !ok {
		return
	}
	owner := b.owner(n)
	ownerName := ""
	if owner != nil {
		ownerName = owner.Name
	}
	name, english := pageName(page, n.Title)
	name, english = memberName(name), memberName(english)
	info := readPage(page)

	sig := apicat.Signature{
		Name:        name,
		Syntax:      info.syntax,
		Parameters:  info.parameters,
		Description: info.description,
	}
	hash := signatureHash(sig)

	key := strings.ToLower(apicat.QualifiedName(ownerName, name))
	if st, ok := b.methods[key]; ok {
		m := st.method
		if !st.seen[hash] {
			st.seen[hash] = true
			m.Signatures = append(m.Signatures, sig)
		}
		if m.Description == "" {
			m.Description = info.description
		}
		if m.ReturnType == "" {
			m.ReturnType, m.ReturnDescription = info.returnType, info.returnDescription
		}
		if m.Example == "" {
			m.Example = info.example
		}
		return
	}

	m := &apicat.Method{
		ElementBase: apicat.ElementBase{
			ID:          apicat.ElementID(apicat.KindMethod, apicat.QualifiedName(ownerName, name)),
			Name:        name,
			EnglishName: english,
			Description: info.description,
			Owner:       ownerName,
		},
		ReturnType:        info.returnType,
		ReturnDescription: info.returnDescription,
		Signatures:        []apicat.Signature{sig},
		Example:           info.example,
	}
	b.methods[key] = &methodState{method: m, seen: map[uint64]bool{hash: true}}
	if owner != nil {
		owner.Methods = append(owner.Methods, m)
	} else {
		b.model.GlobalMethods = append(b.model.GlobalMethods, m)
	}
}

func (b *builder) addProperty(n *apicat.TOCNode) {
	page, ok := b.pages[n.Path]
	if !ok {
		return
	}
	owner := b.owner(n)
	ownerName := ""
	if owner != nil {
		ownerName = owner.Name
	}
	name, english := pageName(page, n.Title)
	name, english = memberName(name), memberName(english)
	info := readPage(page)

	p := &apicat.Property{
		ElementBase: apicat.ElementBase{
			ID:          apicat.ElementID(apicat.KindProperty, apicat.QualifiedName(ownerName, name)),
			Name:        name,
			EnglishName: english,
			Description: info.description,
			Owner:       ownerName,
		},
		Type:     info.propertyType,
		ReadOnly: info.readOnly,
	}
	if b.members[p.ID] {
		b.warnf("duplicate property %q at %s", p.ID, n.Path)
		return
	}
	b.members[p.ID] = true
	if owner != nil {
		owner.Properties = append(owner.Properties, p)
	} else {
		b.model.GlobalProperties = append(b.model.GlobalProperties, p)
	}
}

func (b *builder) addConstructor(n *apicat.TOCNode) {
	page, ok := b.pages[n.Path]
	if !ok {
		return
	}
	owner := b.owner(n)
	if owner == nil {
		b.warnf("constructor %s has no owner type", n.Path)
		return
	}
	name, english := pageName(page, n.Title)
	info := readPage(page)

	c := &apicat.Constructor{
		ElementBase: apicat.ElementBase{
			ID:          apicat.ElementID(apicat.KindConstructor, apicat.QualifiedName(owner.Name, name)),
			Name:        name,
			EnglishName: english,
			Description: info.description,
			Owner:       owner.Name,
		},
		Signature: apicat.Signature{
			Name:        name,
			Syntax:      info.syntax,
			Parameters:  info.parameters,
			Description: info.description,
		},
	}
	if b.members[c.ID] {
		b.warnf("duplicate constructor %q at %s", c.ID, n.Path)
		return
	}
	b.members[c.ID] = true
	owner.Constructors = append(owner.Constructors, c)
}

// pageInfo flattens a page's records.
type pageInfo struct {
	syntax            string
	parameters        []apicat.Parameter
	description       string
	propertyType      string
	returnType        string
	returnDescription string
	readOnly          bool
	example           string
	baseTypes         []string
}

func readPage(p *apicat.Page) pageInfo {
	var info pageInfo
	if p == nil {
		return info
	}
	for _, r := range p.Records {
		switch r := r.(type) {
		case *apicat.NameRecord:
		case *apicat.SyntaxRecord:
			info.syntax = r.Text
		case *apicat.ParametersRecord:
			info.parameters = r.Parameters
		case *apicat.DescriptionRecord:
			info.description = r.Text
		case *apicat.TypeRecord:
			info.propertyType = r.TypeName
			if info.description == "" {
				info.description = r.Description
			}
		case *apicat.ReturnsRecord:
			info.returnType, info.returnDescription = r.TypeName, r.Description
		case *apicat.UsageRecord:
			info.readOnly = r.ReadOnly
		case *apicat.ExampleRecord:
			info.example = r.Text
		case *apicat.BaseTypesRecord:
			info.baseTypes = r.Names
		}
	}
	return info
}

// pageName returns the page's Name block, falling back to the TOC title.
func pageName(p *apicat.Page, title string) (name, english string) {
	if p != nil {
		if n := p.Name(); n != nil {
			return n.Local, n.English
		}
	}
	return strings.TrimSpace(title), ""
}

// memberName drops an "Owner." prefix from a member heading.
func memberName(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// signatureHash identifies a distinct call form.
func signatureHash(sig apicat.Signature) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(sig.Syntax)
	for _, p := range sig.Parameters {
		_, _ = h.WriteString("\x00" + p.Name + "\x00" + p.Type)
		opt := byte(0)
		if p.Optional {
			opt = 1
		}
		_, _ = h.Write([]byte{opt})
		if p.Default != nil {
			_, _ = h.WriteString(*p.Default)
		}
	}
	_ = binary.Write(h, binary.LittleEndian, int64(len(sig.Parameters)))
	return h.Sum64()
}
