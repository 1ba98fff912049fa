package hbk

import (
	"path"
	"strconv"
	"strings"

	"github.com/fwojciec/apicat"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Path conventions used to classify TOC nodes.
const (
	globalContextDir = "Global context"
	enumsDir         = "enums"
)

// preferredLang is the title language picked when several are present.
const preferredLang = "ru"

// ParseTOC parses table of contents text into a validated tree.
//
// The text is a brace list {count,record,...} where every record is
// {id,parentId,childCount,childId...,{n,"lang","title",...},"path"}.
// A byte order mark selects UTF-16 or UTF-8 decoding.
func ParseTOC(raw []byte) (*apicat.TOC, error) {
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, apicat.Errorf(apicat.ETOC, "decode: %v", err)
	}

	top, err := parseBraces(string(text))
	if err != nil {
		return nil, err
	}
	if !top.isList || len(top.list) == 0 {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents is not a list")
	}
	count, err := top.list[0].int()
	if err != nil {
		return nil, err
	}
	if got := len(top.list) - 1; got != count {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents truncated: expected %d records, found %d", count, got)
	}

	records := make([]tocRecord, 0, count)
	for _, item := range top.list[1:] {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return buildTree(records)
}

// tocRecord is one decoded TOC record before linking.
type tocRecord struct {
	id       int
	parentID int
	children []int
	title    string
	path     string
}

func decodeRecord(n *braceNode) (tocRecord, error) {
	var rec tocRecord
	if !n.isList || len(n.list) < 5 {
		return rec, apicat.Errorf(apicat.ETOC, "malformed record")
	}
	var err error
	if rec.id, err = n.list[0].int(); err != nil {
		return rec, err
	}
	if rec.parentID, err = n.list[1].int(); err != nil {
		return rec, err
	}
	childCount, err := n.list[2].int()
	if err != nil {
		return rec, err
	}
	if len(n.list) != 3+childCount+2 {
		return rec, apicat.Errorf(apicat.ETOC, "record %d: expected %d children", rec.id, childCount)
	}
	for _, c := range n.list[3 : 3+childCount] {
		id, err := c.int()
		if err != nil {
			return rec, err
		}
		rec.children = append(rec.children, id)
	}

	titles := n.list[3+childCount]
	if rec.title, err = pickTitle(titles); err != nil {
		return rec, apicat.Errorf(apicat.ETOC, "record %d: %s", rec.id, apicat.ErrorMessage(err))
	}
	pathNode := n.list[4+childCount]
	if pathNode.isList {
		return rec, apicat.Errorf(apicat.ETOC, "record %d: path must be a string", rec.id)
	}
	rec.path = NormalizeID(pathNode.atom)
	return rec, nil
}

// pickTitle selects the preferred-language title from {n,"lang","title",...}.
func pickTitle(n *braceNode) (string, error) {
	if !n.isList || len(n.list) == 0 {
		return "", apicat.Errorf(apicat.ETOC, "malformed title list")
	}
	count, err := n.list[0].int()
	if err != nil {
		return "", err
	}
	if len(n.list) != 1+2*count {
		return "", apicat.Errorf(apicat.ETOC, "expected %d titles", count)
	}
	title := ""
	for i := 0; i < count; i++ {
		lang, text := n.list[1+2*i].atom, n.list[2+2*i].atom
		if i == 0 || lang == preferredLang {
			title = text
		}
		if lang == preferredLang {
			break
		}
	}
	return title, nil
}

// buildTree links records under a synthetic root and validates the
// hierarchy.
func buildTree(records []tocRecord) (*apicat.TOC, error) {
	byID := make(map[int]*tocRecord, len(records))
	for i := range records {
		rec := &records[i]
		if rec.id == apicat.RootID {
			return nil, apicat.Errorf(apicat.ETOC, "node id %d is reserved for the root", apicat.RootID)
		}
		if _, dup := byID[rec.id]; dup {
			return nil, apicat.Errorf(apicat.ETOC, "duplicate node id %d", rec.id)
		}
		byID[rec.id] = rec
	}

	for _, rec := range records {
		if rec.parentID != apicat.RootID {
			if _, ok := byID[rec.parentID]; !ok {
				return nil, apicat.Errorf(apicat.ETOC, "node %d references unknown parent %d", rec.id, rec.parentID)
			}
		}
	}

	// Every chain of parents must reach the root within len(records) steps.
	for _, rec := range records {
		id := rec.id
		for steps := 0; id != apicat.RootID; steps++ {
			if steps > len(records) {
				return nil, apicat.Errorf(apicat.ETOC, "cycle detected at node %d", rec.id)
			}
			id = byID[id].parentID
		}
	}

	actual := make(map[int][]int)
	for _, rec := range records {
		actual[rec.parentID] = append(actual[rec.parentID], rec.id)
	}
	for _, rec := range records {
		if !sameSet(rec.children, actual[rec.id]) {
			return nil, apicat.Errorf(apicat.ETOC, "node %d lists children %v but %v reference it", rec.id, rec.children, actual[rec.id])
		}
	}

	nodes := make(map[int]*apicat.TOCNode, len(records))
	for _, rec := range records {
		nodes[rec.id] = &apicat.TOCNode{
			ID:       rec.id,
			ParentID: rec.parentID,
			Title:    rec.title,
			Path:     rec.path,
			Kind:     classify(rec.path),
		}
	}

	root := &apicat.TOCNode{ID: apicat.RootID, Kind: apicat.NodeFolder}
	link := func(parent *apicat.TOCNode, ids []int) {
		for _, id := range ids {
			child := nodes[id]
			child.Parent = parent
			parent.Children = append(parent.Children, child)
		}
	}
	link(root, actual[apicat.RootID])
	for _, rec := range records {
		link(nodes[rec.id], rec.children)
	}
	return apicat.NewTOC(root), nil
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}

// classify derives a node kind from its page path.
func classify(p string) apicat.NodeKind {
	if p == "" {
		return apicat.NodeFolder
	}
	switch path.Base(path.Dir(p)) {
	case "methods":
		return apicat.NodeMethod
	case "properties":
		return apicat.NodeProperty
	case "ctors":
		return apicat.NodeConstructor
	}
	first, _, _ := strings.Cut(p, "/")
	switch {
	case first == globalContextDir || strings.TrimSuffix(first, path.Ext(first)) == globalContextDir:
		return apicat.NodeGlobal
	case first == enumsDir:
		return apicat.NodeEnum
	}
	return apicat.NodeType
}

// braceNode is a parsed brace-list value: either an atom or a list.
type braceNode struct {
	isList bool
	list   []*braceNode
	atom   string
}

func (n *braceNode) int() (int, error) {
	if n.isList {
		return 0, apicat.Errorf(apicat.ETOC, "expected number, found list")
	}
	v, err := strconv.Atoi(strings.TrimSpace(n.atom))
	if err != nil {
		return 0, apicat.Errorf(apicat.ETOC, "expected number, found %q", n.atom)
	}
	return v, nil
}

// parseBraces parses one brace list occupying the whole input.
func parseBraces(s string) (*braceNode, error) {
	p := &braceParser{s: s}
	p.skipSpace()
	if p.eof() || p.s[p.pos] != '{' {
		return nil, apicat.Errorf(apicat.ETOC, "table of contents must start with '{'")
	}
	n, err := p.parseList()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, apicat.Errorf(apicat.ETOC, "unexpected data at offset %d", p.pos)
	}
	return n, nil
}

type braceParser struct {
	s   string
	pos int
}

func (p *braceParser) eof() bool { return p.pos >= len(p.s) }

func (p *braceParser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\r\n", p.s[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *braceParser) truncated() error {
	return apicat.Errorf(apicat.ETOC, "table of contents truncated at offset %d", p.pos)
}

// parseList expects the cursor on '{' and consumes through the matching '}'.
func (p *braceParser) parseList() (*braceNode, error) {
	p.pos++
	n := &braceNode{isList: true}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.truncated()
		}
		if p.s[p.pos] == '}' && len(n.list) == 0 {
			p.pos++
			return n, nil
		}

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		n.list = append(n.list, item)

		p.skipSpace()
		if p.eof() {
			return nil, p.truncated()
		}
		switch p.s[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return n, nil
		default:
			return nil, apicat.Errorf(apicat.ETOC, "unexpected %q at offset %d", p.s[p.pos], p.pos)
		}
	}
}

func (p *braceParser) parseValue() (*braceNode, error) {
	switch p.s[p.pos] {
	case '{':
		return p.parseList()
	case '"':
		return p.parseString()
	}
	start := p.pos
	for !p.eof() && p.s[p.pos] != ',' && p.s[p.pos] != '}' {
		if p.s[p.pos] == '{' || p.s[p.pos] == '"' {
			return nil, apicat.Errorf(apicat.ETOC, "unexpected %q at offset %d", p.s[p.pos], p.pos)
		}
		p.pos++
	}
	return &braceNode{atom: strings.TrimSpace(p.s[start:p.pos])}, nil
}

// parseString reads a quoted atom where "" escapes a quote.
func (p *braceParser) parseString() (*braceNode, error) {
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.truncated()
		}
		c := p.s[p.pos]
		p.pos++
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if !p.eof() && p.s[p.pos] == '"' {
			b.WriteByte('"')
			p.pos++
			continue
		}
		return &braceNode{atom: b.String()}, nil
	}
}
