package mkv

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

var ErrIndexBudgetExceeded = errors.New("mkv: reserved region too small")

// placeholder is a fixed region of the file holding some elements
// followed by a Void that pads it to its full size.
type placeholder struct {
	pos  int64
	size int64
}

// fill serializes els into exactly p.size bytes.
func (p *placeholder) fill(els ...*mkvio.Element) ([]byte, error) {
	var used int64
	for _, el := range els {
		used += int64(el.TotalSize())
	}

	gap := p.size - used
	if gap < 0 {
		return nil, fmt.Errorf("%w: %d bytes needed, %d reserved", ErrIndexBudgetExceeded, used, p.size)
	}
	if gap == 1 {
		// no Void is one byte long; grow a size field instead
		if len(els) == 0 {
			return nil, ErrIndexBudgetExceeded
		}
		el := els[0]
		el.SizeLength = int(el.TotalSize()) - mkvio.IDLength(el.ID) - int(el.PayloadSize()) + 1
		if el.SizeLength > 8 {
			return nil, ErrIndexBudgetExceeded
		}
		gap = 0
	}

	var buf bytes.Buffer
	buf.Grow(int(p.size))
	for _, el := range els {
		el.WriteTo(&buf)
	}
	if gap > 0 {
		void, err := mkvio.NewVoid(uint64(gap))
		if err != nil {
			return nil, err
		}
		void.WriteTo(&buf)
	}
	return buf.Bytes(), nil
}

// write appends the region at the current sink position.
func (p *placeholder) write(sk *mkvio.Sink, els ...*mkvio.Element) error {
	b, err := p.fill(els...)
	if err != nil {
		return err
	}
	p.pos = sk.Position()
	_, err = sk.Write(b)
	return err
}

// patch rewrites the region in place.
func (p *placeholder) patch(sk *mkvio.Sink, els ...*mkvio.Element) error {
	b, err := p.fill(els...)
	if err != nil {
		return err
	}
	_, err = sk.WriteAt(b, p.pos)
	return err
}
