package mkvio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"
)

// ElementRegister contains the ID, type, name and nesting level of the
// standard WebM/Matroska elements
type ElementRegister struct {
	ID    uint32
	Type  ElementType
	Name  string
	Level int
}

// Element is a Matroska/WebM/EBML element.
//
// Elements built for writing carry either Content (leaf kinds) or
// Children (Master). Elements returned by a Document start with only
// their header read; Content is filled by ReadData.
type Element struct {
	ElementRegister

	Size     uint64 // declared payload size
	Content  []byte // data contained in the element, nil if it is a master element
	Children []*Element

	// SizeLength is the width of the size field. When writing it is a
	// minimum; the field is widened if the payload needs it.
	SizeLength  int
	UnknownSize bool

	Offset     int64 // position of the first ID byte, as read
	HeaderSize int
	Depth      int

	consumed uint64
	resolved bool
}

var dateEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

func NewMaster(reg ElementRegister, children ...*Element) *Element {
	return &Element{ElementRegister: reg, Children: children}
}

func NewUint(reg ElementRegister, v uint64) *Element {
	return &Element{ElementRegister: reg, Content: unpack(uintLength(v), v)}
}

func NewInt(reg ElementRegister, v int64) *Element {
	return &Element{ElementRegister: reg, Content: unpack(intLength(v), uint64(v))}
}

// NewFloat always writes 8 bytes.
func NewFloat(reg ElementRegister, v float64) *Element {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return &Element{ElementRegister: reg, Content: b}
}

// NewString serves both String and Unicode registers.
func NewString(reg ElementRegister, s string) *Element {
	return &Element{ElementRegister: reg, Content: []byte(s)}
}

func NewDate(reg ElementRegister, t time.Time) *Element {
	return NewInt(reg, int64(t.Sub(dateEpoch)))
}

func NewBinary(reg ElementRegister, b []byte) *Element {
	return &Element{ElementRegister: reg, Content: b}
}

// AddChild appends children to a master element.
func (el *Element) AddChild(children ...*Element) {
	el.Children = append(el.Children, children...)
}

// Child returns the first direct child with the given ID.
func (el *Element) Child(id uint32) *Element {
	for _, c := range el.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Resolved reports whether the payload of a read element has been
// consumed, either by ReadData, Skip or by reading all its children.
func (el *Element) Resolved() bool {
	return el.resolved
}

// DataOffset is the position of the first payload byte, as read.
func (el *Element) DataOffset() int64 {
	return el.Offset + int64(el.HeaderSize)
}

func (el *Element) Uint() (uint64, error) {
	if el.Type != ElementTypeUint {
		return 0, ErrTypeMismatch
	}
	if len(el.Content) > 8 {
		return 0, ErrParse
	}
	return pack(len(el.Content), el.Content), nil
}

func (el *Element) Int() (int64, error) {
	if el.Type != ElementTypeInt && el.Type != ElementTypeDate {
		return 0, ErrTypeMismatch
	}
	n := len(el.Content)
	if n > 8 {
		return 0, ErrParse
	}
	v := int64(pack(n, el.Content))
	if n > 0 && n < 8 {
		shift := uint(64 - 8*n)
		v = v << shift >> shift
	}
	return v, nil
}

// Float accepts 0, 4 and 8 byte payloads.
func (el *Element) Float() (float64, error) {
	if el.Type != ElementTypeFloat {
		return 0, ErrTypeMismatch
	}
	switch len(el.Content) {
	case 0:
		return 0, nil
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(el.Content))), nil
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(el.Content)), nil
	}
	return 0, ErrParse
}

// Text returns String and Unicode payloads with trailing zero padding removed.
func (el *Element) Text() (string, error) {
	if el.Type != ElementTypeString && el.Type != ElementTypeUnicode {
		return "", ErrTypeMismatch
	}
	return string(bytes.TrimRight(el.Content, "\x00")), nil
}

func (el *Element) Date() (time.Time, error) {
	if el.Type != ElementTypeDate {
		return time.Time{}, ErrTypeMismatch
	}
	ns, err := el.Int()
	if err != nil {
		return time.Time{}, err
	}
	return dateEpoch.Add(time.Duration(ns)), nil
}

// Binary returns the raw payload of any leaf element.
func (el *Element) Binary() ([]byte, error) {
	if el.Type == ElementTypeMaster {
		return nil, ErrTypeMismatch
	}
	return el.Content, nil
}

// PayloadSize is the length of Content, or the serialized size of all
// children for a master element.
func (el *Element) PayloadSize() uint64 {
	if el.Type != ElementTypeMaster {
		return uint64(len(el.Content))
	}
	var n uint64
	for _, c := range el.Children {
		n += c.TotalSize()
	}
	return n
}

func (el *Element) sizeFieldLength(payload uint64) int {
	if el.UnknownSize {
		return len(UnknownSizeBytes)
	}
	n := SizeLength(payload)
	if el.SizeLength > n {
		n = el.SizeLength
	}
	if n > 8 {
		n = 8
	}
	return n
}

// TotalSize is the serialized size of the element including its header.
func (el *Element) TotalSize() uint64 {
	p := el.PayloadSize()
	return uint64(IDLength(el.ID)+el.sizeFieldLength(p)) + p
}

// Header returns the ID and size field for the current payload.
func (el *Element) Header() []byte {
	b := IDBytes(el.ID)
	if el.UnknownSize {
		return append(b, UnknownSizeBytes...)
	}
	p := el.PayloadSize()
	return append(b, EncodeSize(p, el.sizeFieldLength(p))...)
}

// WriteTo serializes the element and its children to w.
func (el *Element) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(el.Header())
	total := int64(n)
	if err != nil {
		return total, err
	}

	if el.Type != ElementTypeMaster {
		n, err = w.Write(el.Content)
		return total + int64(n), err
	}

	for _, c := range el.Children {
		cn, err := c.WriteTo(w)
		total += cn
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Marshal returns the serialized element.
func (el *Element) Marshal() []byte {
	var buf bytes.Buffer
	buf.Grow(int(el.TotalSize()))
	el.WriteTo(&buf)
	return buf.Bytes()
}
