// Package hbktest builds syntax-helper book containers for tests.
package hbktest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

// PageSize is the block payload size used by Container.
const PageSize = 512

const (
	endMarker       = 0x7fffffff
	headerSize      = 16
	blockHeaderSize = 31
)

// Node is one table of contents record. Children are derived from the
// ParentID of the other nodes, in argument order.
type Node struct {
	ID       int
	ParentID int
	Title    string
	Path     string
}

// TOC renders nodes in the brace-list format of the PackBlock element.
func TOC(nodes ...Node) []byte {
	children := make(map[int][]int)
	for _, n := range nodes {
		children[n.ParentID] = append(children[n.ParentID], n.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "{%d", len(nodes))
	for _, n := range nodes {
		fmt.Fprintf(&b, ",\n{%d,%d,%d", n.ID, n.ParentID, len(children[n.ID]))
		for _, c := range children[n.ID] {
			fmt.Fprintf(&b, ",%d", c)
		}
		fmt.Fprintf(&b, ",{1,\"ru\",%s},%s}", quote(n.Title), quote(n.Path))
	}
	b.WriteString("\n}")
	return []byte(b.String())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// File is one page stored in the FileStorage element.
type File struct {
	Name string
	Body string
}

// FileStorage zips files with deflate compression.
func FileStorage(tb testing.TB, files ...File) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		require.NoError(tb, err)
		_, err = w.Write([]byte(f.Body))
		require.NoError(tb, err)
	}
	require.NoError(tb, zw.Close())
	return buf.Bytes()
}

// PackBlock zips table of contents text into a single-entry archive.
func PackBlock(tb testing.TB, toc []byte) []byte {
	tb.Helper()
	return FileStorage(tb, File{Name: "__categories__", Body: string(toc)})
}

// CorruptFile overwrites the first compressed byte of the named entry so
// that inflating it fails.
func CorruptFile(tb testing.TB, storage []byte, name string) []byte {
	tb.Helper()

	zr, err := zip.NewReader(bytes.NewReader(storage), int64(len(storage)))
	require.NoError(tb, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		off, err := f.DataOffset()
		require.NoError(tb, err)
		out := bytes.Clone(storage)
		out[off] = 0xFF
		return out
	}
	tb.Fatalf("no entry %q in storage", name)
	return nil
}

// Element is a named document pair of a container.
type Element struct {
	Name string
	Data []byte
}

// Container lays out elements as a chain-of-blocks file.
func Container(elements ...Element) []byte {
	docs := make([][]byte, 0, 1+2*len(elements))
	docs = append(docs, make([]byte, 12*len(elements)))
	for _, el := range elements {
		docs = append(docs, elementHeader(el.Name), el.Data)
	}

	addrs := make([]int, len(docs))
	next := headerSize
	for i, d := range docs {
		addrs[i] = next
		next += encodedSize(len(d))
	}

	dir := docs[0]
	for i := range elements {
		rec := dir[i*12:]
		binary.LittleEndian.PutUint32(rec[0:4], uint32(addrs[1+2*i]))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(addrs[2+2*i]))
		binary.LittleEndian.PutUint32(rec[8:12], endMarker)
	}

	out := make([]byte, headerSize, next)
	binary.LittleEndian.PutUint32(out[0:4], endMarker)
	binary.LittleEndian.PutUint32(out[4:8], PageSize)
	for i, d := range docs {
		out = appendDocument(out, addrs[i], d)
	}
	return out
}

func encodedSize(n int) int {
	blocks := max(1, (n+PageSize-1)/PageSize)
	return blocks * (blockHeaderSize + PageSize)
}

func appendDocument(out []byte, addr int, doc []byte) []byte {
	blocks := max(1, (len(doc)+PageSize-1)/PageSize)
	for i := range blocks {
		docLen := 0
		if i == 0 {
			docLen = len(doc)
		}
		next := endMarker
		if i < blocks-1 {
			next = addr + (i+1)*(blockHeaderSize+PageSize)
		}
		out = fmt.Appendf(out, "\r\n%08x %08x %08x \r\n", docLen, PageSize, next)

		payload := make([]byte, PageSize)
		copy(payload, doc[min(i*PageSize, len(doc)):min((i+1)*PageSize, len(doc))])
		out = append(out, payload...)
	}
	return out
}

func elementHeader(name string) []byte {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(name))
	if err != nil {
		panic(err)
	}
	h := make([]byte, 20, 20+len(encoded)+4)
	h = append(h, encoded...)
	return append(h, 0, 0, 0, 0)
}

// Book builds a complete container from table of contents text and pages.
func Book(tb testing.TB, toc []byte, files ...File) []byte {
	tb.Helper()
	return Container(
		Element{Name: "FileStorage", Data: FileStorage(tb, files...)},
		Element{Name: "PackBlock", Data: PackBlock(tb, toc)},
	)
}

// WriteBook writes a container into a temporary directory and returns its
// path.
func WriteBook(tb testing.TB, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "shcntx_ru.hbk")
	require.NoError(tb, os.WriteFile(path, data, 0o600))
	return path
}

// Page renders a help page with the block markers the extractor expects.
// Each section is a chapter heading followed by its HTML body.
func Page(title string, sections ...Section) string {
	var b strings.Builder
	b.WriteString("<html><head><meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\"></head><body>")
	fmt.Fprintf(&b, "<h1 class=\"V8SH_pagetitle\">%s</h1>", title)
	for _, s := range sections {
		fmt.Fprintf(&b, "<p class=\"V8SH_chapter\">%s:</p>%s", s.Chapter, s.Body)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// Section is one chapter of a help page.
type Section struct {
	Chapter string
	Body    string
}

// Param renders one parameter block of a Parameters chapter.
func Param(heading, typeHTML, description string) string {
	return fmt.Sprintf("<div class=\"V8SH_rubric\">%s</div>Тип: %s.<br>%s<br>", heading, typeHTML, description)
}
