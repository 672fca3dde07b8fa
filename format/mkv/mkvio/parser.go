package mkvio

import (
	"bytes"
	"errors"
	"io"
	"math"
)

var (
	ErrParse           = errors.New("mkvio: parse error")
	ErrUnexpectedEOF   = errors.New("mkvio: unexpected EOF")
	ErrMalformedVarint = errors.New("mkvio: malformed varint")
	ErrVarintRange     = errors.New("mkvio: value out of varint range")
	ErrUnknownElement  = errors.New("mkvio: unknown element")
	ErrTypeMismatch    = errors.New("mkvio: element type mismatch")
	ErrNotSeekable     = errors.New("mkvio: source is not seekable")

	// SkipElement may be returned by a ParseAll callback to skip the
	// children of a master element.
	SkipElement = errors.New("mkvio: skip element")
)

const (
	// largest leaf payload ReadData will load
	maxContentSize = math.MaxInt32

	readChunk = 1 << 20
)

// Document walks an EBML document one element at a time.
//
// Every element returned by Next stays open until its payload is
// consumed. Asking for the next sibling skips whatever an open element
// still owes, so the stream never falls out of sync.
type Document struct {
	r      *Reader
	schema *Schema
	open   []*Element
}

// InitDocument creates a MKV/WebM document reading from r.
// It does not do any parsing.
func InitDocument(r io.Reader) *Document {
	return NewDocument(r, Matroska)
}

// NewDocument creates a document that resolves IDs against schema.
func NewDocument(r io.Reader, schema *Schema) *Document {
	rd, ok := r.(*Reader)
	if !ok {
		rd = NewReader(r)
	}
	return &Document{r: rd, schema: schema}
}

// Reader returns the underlying byte source.
func (doc *Document) Reader() *Reader {
	return doc.r
}

// Next reads the header of the next child of parent, or of the next
// top level element when parent is nil. It returns io.EOF once parent
// has no more children. An ID missing from the schema yields the
// element together with ErrUnknownElement.
func (doc *Document) Next(parent *Element) (*Element, error) {
	depth := 0
	if parent != nil {
		if parent.resolved {
			return nil, io.EOF
		}
		i := doc.index(parent)
		if i < 0 {
			return nil, ErrParse
		}
		if err := doc.unwind(i); err != nil {
			return nil, err
		}
		if !parent.UnknownSize && parent.consumed >= parent.Size {
			parent.resolved = true
			doc.open = doc.open[:i]
			return nil, io.EOF
		}
		depth = i + 1
	} else if err := doc.unwind(-1); err != nil {
		return nil, err
	}

	offset := doc.r.Position()
	id, idLen, err := ReadID(doc.r)
	if err == io.EOF && (parent == nil || parent.UnknownSize) {
		if parent != nil {
			parent.resolved = true
			doc.open = doc.open[:depth-1]
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, eofIsUnexpected(err)
	}

	size, sizeLen, err := ReadSize(doc.r)
	if err != nil {
		return nil, eofIsUnexpected(err)
	}

	reg, known := doc.schema.Lookup(id)
	if !known {
		reg = ElementUnknown
		reg.ID = id
	}

	el := &Element{
		ElementRegister: reg,
		Size:            size,
		SizeLength:      sizeLen,
		Offset:          offset,
		HeaderSize:      idLen + sizeLen,
		Depth:           depth,
	}

	if IsUnknownSize(size, sizeLen) {
		if reg.Type != ElementTypeMaster || (parent != nil && !parent.UnknownSize) {
			return nil, ErrParse
		}
		el.UnknownSize = true
		el.Size = 0
	}

	if parent != nil && !parent.UnknownSize {
		parent.consumed += uint64(el.HeaderSize) + el.Size
		if parent.consumed > parent.Size {
			return nil, ErrParse
		}
	}

	if el.Size == 0 && !el.UnknownSize && reg.Type != ElementTypeMaster {
		el.resolved = true
		el.Content = []byte{}
	} else {
		doc.open = append(doc.open, el)
	}

	if !known {
		return el, ErrUnknownElement
	}
	return el, nil
}

// ReadData reads the payload of a leaf element.
func (doc *Document) ReadData(el *Element) ([]byte, error) {
	if el.Type == ElementTypeMaster {
		return nil, ErrTypeMismatch
	}
	if el.resolved {
		return el.Content, nil
	}
	i := doc.index(el)
	if i < 0 {
		return nil, ErrParse
	}
	if err := doc.unwind(i); err != nil {
		return nil, err
	}
	if el.Size > maxContentSize {
		return nil, ErrParse
	}

	buf, err := readPayload(doc.r, int64(el.Size))
	if err != nil {
		return nil, err
	}

	el.Content = buf
	el.consumed = el.Size
	el.resolved = true
	doc.open = doc.open[:i]
	return buf, nil
}

// readPayload reads n bytes. Above readChunk the buffer only grows as
// bytes arrive.
func readPayload(r io.Reader, n int64) ([]byte, error) {
	var err error
	var buf []byte
	if n <= readChunk {
		buf = make([]byte, n)
		_, err = io.ReadFull(r, buf)
	} else {
		var b bytes.Buffer
		b.Grow(readChunk)
		_, err = io.CopyN(&b, r, n)
		buf = b.Bytes()
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = ErrUnexpectedEOF
	}
	return buf, err
}

// Skip discards whatever remains of el, including unread children.
func (doc *Document) Skip(el *Element) error {
	if el.resolved {
		return nil
	}
	i := doc.index(el)
	if i < 0 {
		return ErrParse
	}
	return doc.unwind(i - 1)
}

// Reposition moves the source to the absolute offset pos inside the
// payload of the open element parent. Elements opened below parent are
// dropped without being read.
func (doc *Document) Reposition(parent *Element, pos int64) error {
	i := doc.index(parent)
	if i < 0 {
		return ErrParse
	}
	start := parent.DataOffset()
	if pos < start || (!parent.UnknownSize && pos > start+int64(parent.Size)) {
		return ErrParse
	}
	if err := doc.r.SeekTo(pos); err != nil {
		return err
	}

	for _, el := range doc.open[i+1:] {
		el.resolved = true
	}
	doc.open = doc.open[:i+1]
	parent.consumed = uint64(pos - start)
	return nil
}

// unwind finishes every open element above index keep.
func (doc *Document) unwind(keep int) error {
	for len(doc.open)-1 > keep {
		el := doc.open[len(doc.open)-1]
		if el.UnknownSize {
			return ErrParse
		}
		if rest := int64(el.Size - el.consumed); rest > 0 {
			if _, err := doc.r.Skip(rest); err != nil {
				return err
			}
		}
		el.consumed = el.Size
		el.resolved = true
		doc.open = doc.open[:len(doc.open)-1]
	}
	return nil
}

func (doc *Document) index(el *Element) int {
	for i := len(doc.open) - 1; i >= 0; i-- {
		if doc.open[i] == el {
			return i
		}
	}
	return -1
}

// ParseAll walks the entire MKV/WebM document depth first.
// When an element is encountered, it calls the provided function and
// passes the element; leaf payloads are already read, unknown elements
// are already skipped.
func (doc *Document) ParseAll(c func(*Element) error) error {
	return doc.walk(nil, c)
}

func (doc *Document) walk(parent *Element, c func(*Element) error) error {
	for {
		el, err := doc.Next(parent)
		if err == io.EOF {
			return nil
		}
		if err != nil && !errors.Is(err, ErrUnknownElement) {
			return err
		}

		switch el.Type {
		case ElementTypeMaster:
			err = c(el)
			if err == SkipElement {
				if err = doc.Skip(el); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			if err = doc.walk(el, c); err != nil {
				return err
			}
		case ElementTypeUnknown, ElementTypeVoid:
			if err = doc.Skip(el); err != nil {
				return err
			}
			if err = c(el); err != nil && err != SkipElement {
				return err
			}
		default:
			if _, err = doc.ReadData(el); err != nil {
				return err
			}
			if err = c(el); err != nil && err != SkipElement {
				return err
			}
		}
	}
}

var errFound = errors.New("found")

// Find scans forward at any depth for the first element with the given
// ID. A leaf is returned with its payload read.
func (doc *Document) Find(id uint32) (*Element, error) {
	var found *Element
	err := doc.ParseAll(func(el *Element) error {
		if el.ID == id {
			found = el
			return errFound
		}
		return nil
	})
	if err == errFound {
		return found, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Load reads the whole subtree of el into Children. Void and unknown
// children are skipped. Meant for small metadata masters.
func (doc *Document) Load(el *Element) error {
	if el.Type != ElementTypeMaster {
		_, err := doc.ReadData(el)
		return err
	}
	for {
		c, err := doc.Next(el)
		if err == io.EOF {
			return nil
		}
		if err != nil && !errors.Is(err, ErrUnknownElement) {
			return err
		}
		if err != nil || c.Type == ElementTypeVoid || c.ID == ElementCRC32.ID {
			if err = doc.Skip(c); err != nil {
				return err
			}
			continue
		}
		if err = doc.Load(c); err != nil {
			return err
		}
		el.Children = append(el.Children, c)
	}
}
