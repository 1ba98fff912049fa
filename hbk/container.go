// Package hbk reads syntax-helper book containers.
//
// A container is a chain-of-blocks file: a 16-byte header followed by
// documents, each stored as a linked list of blocks with ASCII-hex block
// headers. The first document is a directory of elements; every element has
// a header document carrying its UTF-16 name and a data document. The book
// uses two elements: FileStorage, a zip archive of help pages, and
// PackBlock, a zip archive holding the table of contents.
package hbk

import (
	"encoding/binary"
	"strconv"

	"github.com/fwojciec/apicat"
	"golang.org/x/text/encoding/unicode"
)

// Container layout constants.
const (
	HeaderSize      = 16
	BlockHeaderSize = 31
	EndMarker       = 0x7fffffff

	directoryRecordSize = 12
	elementNameOffset   = 20
)

// Element names used by syntax-helper books.
const (
	FileStorageElement = "FileStorage"
	PackBlockElement   = "PackBlock"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// element is one named document pair from the container directory.
type element struct {
	name string
	data []byte
}

// parseContainer decodes the directory and returns the elements in
// storage order.
func parseContainer(data []byte) ([]element, error) {
	if len(data) < HeaderSize {
		return nil, apicat.Errorf(apicat.ECORRUPT, "container too short: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != EndMarker {
		return nil, apicat.Errorf(apicat.ECORRUPT, "invalid container signature")
	}

	dir, err := readDocument(data, HeaderSize)
	if err != nil {
		return nil, err
	}

	n := len(dir) / directoryRecordSize
	elements := make([]element, 0, n)
	for i := range n {
		rec := dir[i*directoryRecordSize:]
		headerAddr := int(binary.LittleEndian.Uint32(rec[0:4]))
		dataAddr := int(binary.LittleEndian.Uint32(rec[4:8]))

		header, err := readDocument(data, headerAddr)
		if err != nil {
			return nil, err
		}
		name, err := elementName(header)
		if err != nil {
			return nil, err
		}
		body, err := readDocument(data, dataAddr)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element{name: name, data: body})
	}
	return elements, nil
}

// readDocument follows a block chain starting at addr and returns the
// document payload.
func readDocument(data []byte, addr int) ([]byte, error) {
	var doc []byte
	docLen := -1
	visited := make(map[int]bool)

	for addr != EndMarker {
		if visited[addr] {
			return nil, apicat.Errorf(apicat.ECORRUPT, "block chain loops at offset %d", addr)
		}
		visited[addr] = true

		size, blockLen, next, err := parseBlockHeader(data, addr)
		if err != nil {
			return nil, err
		}
		if docLen < 0 {
			// A document cannot hold more bytes than the blocks after the
			// container header.
			if size > len(data)-HeaderSize-BlockHeaderSize {
				return nil, apicat.Errorf(apicat.ECORRUPT, "document at offset %d declares %d bytes, container holds %d", addr, size, len(data))
			}
			docLen = size
			doc = make([]byte, 0, docLen)
		}

		start := addr + BlockHeaderSize
		if start+blockLen > len(data) {
			return nil, apicat.Errorf(apicat.ECORRUPT, "block at offset %d overruns container", addr)
		}
		take := min(blockLen, docLen-len(doc))
		doc = append(doc, data[start:start+take]...)
		if len(doc) == docLen {
			return doc, nil
		}
		addr = next
	}

	if len(doc) < docLen {
		return nil, apicat.Errorf(apicat.ECORRUPT, "document truncated: %d of %d bytes", len(doc), docLen)
	}
	return doc, nil
}

// parseBlockHeader decodes "\r\nSSSSSSSS PPPPPPPP NNNNNNNN \r\n".
func parseBlockHeader(data []byte, addr int) (size, blockLen, next int, err error) {
	if addr < 0 || addr+BlockHeaderSize > len(data) {
		return 0, 0, 0, apicat.Errorf(apicat.ECORRUPT, "block header at offset %d out of range", addr)
	}
	h := data[addr : addr+BlockHeaderSize]
	if h[0] != '\r' || h[1] != '\n' || h[10] != ' ' || h[19] != ' ' || h[28] != ' ' || h[29] != '\r' || h[30] != '\n' {
		return 0, 0, 0, apicat.Errorf(apicat.ECORRUPT, "malformed block header at offset %d", addr)
	}

	fields := [3]int{}
	for i, off := range []int{2, 11, 20} {
		v, perr := strconv.ParseUint(string(h[off:off+8]), 16, 32)
		if perr != nil {
			return 0, 0, 0, apicat.Errorf(apicat.ECORRUPT, "malformed block header at offset %d: %v", addr, perr)
		}
		fields[i] = int(v)
	}
	return fields[0], fields[1], fields[2], nil
}

// elementName decodes the UTF-16LE name of an element header document.
func elementName(header []byte) (string, error) {
	if len(header) < elementNameOffset {
		return "", apicat.Errorf(apicat.ECORRUPT, "element header too short")
	}
	raw := header[elementNameOffset:]
	end := len(raw) - len(raw)%2
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	name, err := utf16le.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return "", apicat.Errorf(apicat.ECORRUPT, "element name: %v", err)
	}
	return string(name), nil
}
