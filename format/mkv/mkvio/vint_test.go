package mkvio

import (
	"bytes"
	"errors"
	"testing"
)

func TestSizeRoundTrip(t *testing.T) {
	values := []struct {
		V uint64
		N int
	}{
		{0, 1},
		{1, 1},
		{126, 1},
		{127, 2},
		{16382, 2},
		{16383, 3},
		{2097150, 3},
		{2097151, 4},
		{268435454, 4},
		{268435455, 5},
		{1<<56 - 2, 8},
	}
	for _, ex := range values {
		b := EncodeSize(ex.V, 0)
		if len(b) != ex.N {
			t.Errorf("%d: expected length %d, got %d", ex.V, ex.N, len(b))
		}
		v, n, err := ReadSize(bytes.NewReader(b))
		if err != nil {
			t.Errorf("%d: %v", ex.V, err)
			continue
		}
		if v != ex.V || n != ex.N {
			t.Errorf("%d: expected (%d, %d), got (%d, %d)", ex.V, ex.V, ex.N, v, n)
		}
	}
}

func TestEncodeSizeMinLength(t *testing.T) {
	values := []struct {
		V   uint64
		Min int
		Out []byte
	}{
		{5, 0, []byte{0x85}},
		{5, 2, []byte{0x40, 0x05}},
		{5, 4, []byte{0x10, 0x00, 0x00, 0x05}},
		{0, 8, []byte{0x01, 0, 0, 0, 0, 0, 0, 0}},
		{300, 1, []byte{0x41, 0x2c}},
	}
	for _, ex := range values {
		b := EncodeSize(ex.V, ex.Min)
		if !bytes.Equal(b, ex.Out) {
			t.Errorf("%d/%d: expected % x, got % x", ex.V, ex.Min, ex.Out, b)
		}
	}
}

func TestReadSizeMalformed(t *testing.T) {
	_, _, err := ReadSize(bytes.NewReader([]byte{0x00, 0x12}))
	if !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("expected %v, got %v", ErrMalformedVarint, err)
	}

	_, _, err = ReadSize(bytes.NewReader([]byte{0x40}))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected %v, got %v", ErrUnexpectedEOF, err)
	}
}

func TestUnknownSize(t *testing.T) {
	v, n, err := ReadSize(bytes.NewReader(UnknownSizeBytes))
	if err != nil {
		t.Fatal(err)
	}
	if !IsUnknownSize(v, n) {
		t.Errorf("expected unknown size, got %d on %d bytes", v, n)
	}
	if IsUnknownSize(126, 1) || !IsUnknownSize(127, 1) {
		t.Errorf("one byte unknown marker misdetected")
	}
}

func TestSignedSize(t *testing.T) {
	values := []struct {
		V int64
		N int
	}{
		{0, 1},
		{-63, 1},
		{63, 1},
		{64, 2},
		{-64, 2},
		{8191, 2},
		{-8192, 3},
		{1048575, 3},
		{-134217727, 4},
		{134217727, 4},
	}
	for _, ex := range values {
		b, err := EncodeSignedSize(ex.V)
		if err != nil {
			t.Errorf("%d: %v", ex.V, err)
			continue
		}
		if len(b) != ex.N {
			t.Errorf("%d: expected length %d, got %d", ex.V, ex.N, len(b))
		}
		v, n, err := ReadSignedSize(bytes.NewReader(b))
		if err != nil || v != ex.V || n != ex.N {
			t.Errorf("%d: expected (%d, %d), got (%d, %d, %v)", ex.V, ex.V, ex.N, v, n, err)
		}
	}

	if _, err := EncodeSignedSize(134217728); !errors.Is(err, ErrVarintRange) {
		t.Errorf("expected %v, got %v", ErrVarintRange, err)
	}
}

func TestID(t *testing.T) {
	ids := []uint32{ElementVoid.ID, ElementSeek.ID, ElementTimecodeScale.ID, ElementSegment.ID}
	for i, id := range ids {
		b := IDBytes(id)
		if len(b) != i+1 {
			t.Errorf("%x: expected length %d, got %d", id, i+1, len(b))
		}
		got, n, err := ReadID(bytes.NewReader(b))
		if err != nil || got != id || n != i+1 {
			t.Errorf("%x: expected (%x, %d), got (%x, %d, %v)", id, id, i+1, got, n, err)
		}
	}

	if _, _, err := ReadID(bytes.NewReader([]byte{0x08, 0, 0, 0, 0})); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("expected %v, got %v", ErrMalformedVarint, err)
	}
}
