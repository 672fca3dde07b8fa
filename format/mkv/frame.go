package mkv

// Frame is one media frame of a track. Timecodes and durations are in
// ticks of the segment timecode scale.
type Frame struct {
	Track    uint64
	Timecode int64
	Duration int64 // 0 when unknown
	Keyframe bool

	// References holds ReferenceBlock values: timecodes of the blocks
	// this frame depends on, relative to its own timecode.
	References []int64

	Data []byte
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Data = append([]byte(nil), f.Data...)
	if f.References != nil {
		c.References = append([]int64(nil), f.References...)
	}
	return &c
}

func (f *Frame) grouped() bool {
	return f.Duration > 0 || len(f.References) > 0
}
