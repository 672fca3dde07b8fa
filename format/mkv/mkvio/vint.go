package mkvio

import (
	"io"
	"math/bits"
)

// MaxSize is the largest payload size a size field can carry.
// 1<<56 - 1 is reserved for "unknown".
const MaxSize = 1<<56 - 2

// UnknownSizeBytes is the 8 byte size field meaning "size not known".
var UnknownSizeBytes = []byte{0x01, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// bias applied to signed size fields of length 1..4
var signedBias = [...]int64{0, 63, 8191, 1048575, 134217727}

// ReadSize decodes a size varint. The returned length is the number of
// bytes taken by the field.
func ReadSize(r io.ByteReader) (uint64, int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b == 0 {
		return 0, 1, ErrMalformedVarint
	}

	n := bits.LeadingZeros8(b) + 1
	v := uint64(b & (0xff >> n))
	for i := 1; i < n; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, i, eofIsUnexpected(err)
		}
		v = v<<8 | uint64(c)
	}

	return v, n, nil
}

// ReadSignedSize decodes a signed size varint as used by EBML lacing.
// Fields longer than 4 bytes are returned without bias.
func ReadSignedSize(r io.ByteReader) (int64, int, error) {
	v, n, err := ReadSize(r)
	if err != nil {
		return 0, n, err
	}
	if n < len(signedBias) {
		return int64(v) - signedBias[n], n, nil
	}
	return int64(v), n, nil
}

// IsUnknownSize reports whether v, read from a field n bytes wide,
// is the all-ones "unknown" marker.
func IsUnknownSize(v uint64, n int) bool {
	return n > 0 && n <= 8 && v == 1<<(7*uint(n))-1
}

// SizeLength returns the minimal width of a size field holding v.
func SizeLength(v uint64) int {
	for n := 1; n < 8; n++ {
		if v < 1<<(7*uint(n))-1 {
			return n
		}
	}
	return 8
}

// EncodeSize encodes v on the minimal width, or on minLength bytes when
// that is wider.
func EncodeSize(v uint64, minLength int) []byte {
	n := SizeLength(v)
	if minLength > n {
		n = minLength
	}
	if n > 8 {
		n = 8
	}
	return putVarint(v, n)
}

// EncodeSignedSize encodes v as a biased signed varint of at most 4 bytes.
func EncodeSignedSize(v int64) ([]byte, error) {
	for n := 1; n < len(signedBias); n++ {
		bias := signedBias[n]
		if v >= -bias && v <= bias {
			return putVarint(uint64(v+bias), n), nil
		}
	}
	return nil, ErrVarintRange
}

func putVarint(v uint64, n int) []byte {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	b[0] |= 0x80 >> uint(n-1)
	return b
}

// ReadID decodes an element ID. The marker bit is kept.
func ReadID(r io.ByteReader) (uint32, int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}

	n := bits.LeadingZeros8(b) + 1
	if n > 4 {
		return 0, 1, ErrMalformedVarint
	}

	id := uint32(b)
	for i := 1; i < n; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, i, eofIsUnexpected(err)
		}
		id = id<<8 | uint32(c)
	}

	return id, n, nil
}

// IDLength returns the encoded width of id.
func IDLength(id uint32) int {
	switch {
	case id > 0xffffff:
		return 4
	case id > 0xffff:
		return 3
	case id > 0xff:
		return 2
	}
	return 1
}

// IDBytes returns the encoded form of id.
func IDBytes(id uint32) []byte {
	return unpack(IDLength(id), uint64(id))
}

func eofIsUnexpected(err error) error {
	if err == io.EOF {
		return ErrUnexpectedEOF
	}
	return err
}
