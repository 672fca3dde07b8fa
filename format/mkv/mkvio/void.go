package mkvio

// NewVoid returns a Void element whose serialized size is exactly total.
// The size field absorbs up to 8 bytes so that every total >= 2 is
// reachable.
func NewVoid(total uint64) (*Element, error) {
	if total < 2 || total > MaxSize {
		return nil, ErrVarintRange
	}

	rest := total - uint64(IDLength(ElementVoid.ID))
	sizeLen := rest
	if sizeLen > 8 {
		sizeLen = 8
	}

	return &Element{
		ElementRegister: ElementVoid,
		Content:         make([]byte, rest-sizeLen),
		SizeLength:      int(sizeLen),
	}, nil
}
