package mkvio

func pack(n int, b []byte) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func unpack(n int, v uint64) []byte {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// uintLength is the minimal big-endian width of v, at least one byte.
func uintLength(v uint64) int {
	n := 1
	for v > 0xff {
		v >>= 8
		n++
	}
	return n
}

// intLength is the minimal two's complement width of v.
func intLength(v int64) int {
	n := 1
	for v < -0x80 || v > 0x7f {
		v >>= 8
		n++
	}
	return n
}
