package mkv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

// LaceMode selects how several frames share one block.
type LaceMode uint8

const (
	LaceNone LaceMode = iota
	LaceXiph
	LaceFixed
	LaceEBML
)

const (
	flagKeyframe    = 0x80
	flagInvisible   = 0x08
	flagLacing      = 0x06
	flagDiscardable = 0x01
)

// MaxLaceSize is the largest frame that may go into a laced block.
const MaxLaceSize = 6 * 255

// maxLacedFrames caps the frames per laced block.
const maxLacedFrames = 8

var (
	ErrUnsupportedLacing = errors.New("mkv: unsupported lacing")
	errEmptyBlock        = errors.New("mkv: block without frames")
)

var laceModeNames = [...]string{"none", "xiph", "fixed", "ebml"}

func (m LaceMode) String() string {
	if int(m) < len(laceModeNames) {
		return laceModeNames[m]
	}
	return fmt.Sprintf("LaceMode(%d)", uint8(m))
}

func (m LaceMode) MarshalText() ([]byte, error) {
	if int(m) >= len(laceModeNames) {
		return nil, ErrUnsupportedLacing
	}
	return []byte(laceModeNames[m]), nil
}

func (m *LaceMode) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range laceModeNames {
		if s == name {
			*m = LaceMode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedLacing, s)
}

// Block is the payload of a SimpleBlock or Block element.
type Block struct {
	Track       uint64
	Timecode    int16 // relative to the cluster
	Keyframe    bool  // SimpleBlock only
	Invisible   bool
	Discardable bool
	Lacing      LaceMode
	Frames      [][]byte
}

// Marshal encodes the block header, lace header and frame data.
// A single frame is never laced.
func (b *Block) Marshal() ([]byte, error) {
	n := len(b.Frames)
	switch {
	case n == 0:
		return nil, errEmptyBlock
	case n > 256:
		return nil, ErrUnsupportedLacing
	}

	lacing := b.Lacing
	if n == 1 {
		lacing = LaceNone
	} else if lacing == LaceNone || lacing > LaceEBML {
		return nil, ErrUnsupportedLacing
	}

	var buf bytes.Buffer
	buf.Write(mkvio.EncodeSize(b.Track, 0))
	binary.Write(&buf, binary.BigEndian, b.Timecode)

	var flags byte
	if b.Keyframe {
		flags |= flagKeyframe
	}
	if b.Invisible {
		flags |= flagInvisible
	}
	if b.Discardable {
		flags |= flagDiscardable
	}
	flags |= byte(lacing<<1) & flagLacing
	buf.WriteByte(flags)

	if lacing != LaceNone {
		buf.WriteByte(byte(n - 1))
	}

	switch lacing {
	case LaceXiph:
		for _, f := range b.Frames[:n-1] {
			size := len(f)
			for ; size >= 0xff; size -= 0xff {
				buf.WriteByte(0xff)
			}
			buf.WriteByte(byte(size))
		}
	case LaceFixed:
		for _, f := range b.Frames[1:] {
			if len(f) != len(b.Frames[0]) {
				return nil, fmt.Errorf("%w: fixed lacing of unequal frames", ErrUnsupportedLacing)
			}
		}
	case LaceEBML:
		buf.Write(mkvio.EncodeSize(uint64(len(b.Frames[0])), 0))
		for i := 1; i < n-1; i++ {
			delta, err := mkvio.EncodeSignedSize(int64(len(b.Frames[i]) - len(b.Frames[i-1])))
			if err != nil {
				return nil, err
			}
			buf.Write(delta)
		}
	}

	for _, f := range b.Frames {
		buf.Write(f)
	}
	return buf.Bytes(), nil
}

// ParseBlock decodes a block payload. Frames alias data.
func ParseBlock(data []byte) (*Block, error) {
	r := bytes.NewReader(data)
	track, _, err := mkvio.ReadSize(r)
	if err != nil {
		return nil, err
	}
	if r.Len() < 3 {
		return nil, mkvio.ErrUnexpectedEOF
	}

	pos := len(data) - r.Len()
	flags := data[pos+2]
	b := &Block{
		Track:       track,
		Timecode:    int16(binary.BigEndian.Uint16(data[pos:])),
		Keyframe:    flags&flagKeyframe != 0,
		Invisible:   flags&flagInvisible != 0,
		Discardable: flags&flagDiscardable != 0,
		Lacing:      LaceMode(flags&flagLacing) >> 1,
	}
	rest := data[pos+3:]

	if b.Lacing == LaceNone {
		b.Frames = [][]byte{rest}
		return b, nil
	}
	if len(rest) == 0 {
		return nil, mkvio.ErrUnexpectedEOF
	}

	count := int(rest[0]) + 1
	rest = rest[1:]
	sizes := make([]int, count)

	switch b.Lacing {
	case LaceXiph:
		for i := 0; i < count-1; i++ {
			for {
				if len(rest) == 0 {
					return nil, mkvio.ErrUnexpectedEOF
				}
				v := rest[0]
				rest = rest[1:]
				sizes[i] += int(v)
				if sizes[i] > len(data) {
					return nil, mkvio.ErrParse
				}
				if v != 0xff {
					break
				}
			}
		}
	case LaceEBML:
		lr := bytes.NewReader(rest)
		first, _, err := mkvio.ReadSize(lr)
		if err != nil {
			return nil, err
		}
		// sizes never exceed the payload, so the sums below cannot overflow
		if first > uint64(len(rest)) {
			return nil, mkvio.ErrParse
		}
		sizes[0] = int(first)
		for i := 1; i < count-1; i++ {
			delta, _, err := mkvio.ReadSignedSize(lr)
			if err != nil {
				return nil, err
			}
			if delta < -int64(sizes[i-1]) || delta > int64(len(rest)-sizes[i-1]) {
				return nil, mkvio.ErrParse
			}
			sizes[i] = sizes[i-1] + int(delta)
		}
		rest = rest[len(rest)-lr.Len():]
	case LaceFixed:
		if len(rest)%count != 0 {
			return nil, fmt.Errorf("%w: %d bytes in %d fixed frames", mkvio.ErrParse, len(rest), count)
		}
		for i := range sizes {
			sizes[i] = len(rest) / count
		}
	default:
		return nil, ErrUnsupportedLacing
	}

	if b.Lacing != LaceFixed {
		used := 0
		for _, s := range sizes[:count-1] {
			used += s
			if used > len(rest) {
				return nil, mkvio.ErrUnexpectedEOF
			}
		}
		sizes[count-1] = len(rest) - used
	}

	b.Frames = make([][]byte, count)
	for i, s := range sizes {
		b.Frames[i] = rest[:s:s]
		rest = rest[s:]
	}
	return b, nil
}
