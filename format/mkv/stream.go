package mkv

// Stream counts what a Demuxer has read for one track.
type Stream struct {
	*Track

	Frames    int
	Keyframes int
	Bytes     int64
	First     int64 // timecode of the first frame, -1 before any
	Last      int64
}

func (s *Stream) update(f *Frame) {
	if s.Frames == 0 {
		s.First = f.Timecode
	}
	s.Frames++
	if f.Keyframe {
		s.Keyframes++
	}
	s.Bytes += int64(len(f.Data))
	if f.Timecode > s.Last {
		s.Last = f.Timecode
	}
}
