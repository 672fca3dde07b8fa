package mkv

import (
	"github.com/deepch/mkv/format/mkv/mkvio"
)

// SeekEntry points at a top level element. Position is relative to the
// first byte of the Segment payload.
type SeekEntry struct {
	ID       uint32
	Position int64
}

// SeekIndex is the content of a SeekHead.
type SeekIndex struct {
	Entries []SeekEntry
}

// Add records id at position, replacing an earlier entry for the same id.
func (s *SeekIndex) Add(id uint32, position int64) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].Position = position
			return
		}
	}
	s.Entries = append(s.Entries, SeekEntry{ID: id, Position: position})
}

// Lookup returns the position recorded for id.
func (s *SeekIndex) Lookup(id uint32) (int64, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e.Position, true
		}
	}
	return 0, false
}

func (s *SeekIndex) element() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementSeekHead)
	for _, e := range s.Entries {
		el.AddChild(mkvio.NewMaster(mkvio.ElementSeek,
			mkvio.NewBinary(mkvio.ElementSeekID, mkvio.IDBytes(e.ID)),
			mkvio.NewUint(mkvio.ElementSeekPosition, uint64(e.Position)),
		))
	}
	return el
}

func (s *SeekIndex) parse(el *mkvio.Element) error {
	for _, seek := range el.Children {
		if seek.ID != mkvio.ElementSeek.ID {
			continue
		}
		var e SeekEntry
		for _, c := range seek.Children {
			switch c.ID {
			case mkvio.ElementSeekID.ID:
				b, err := c.Binary()
				if err != nil {
					return err
				}
				if len(b) == 0 || len(b) > 4 {
					return mkvio.ErrParse
				}
				for _, v := range b {
					e.ID = e.ID<<8 | uint32(v)
				}
			case mkvio.ElementSeekPosition.ID:
				v, err := c.Uint()
				if err != nil {
					return err
				}
				e.Position = int64(v)
			}
		}
		s.Add(e.ID, e.Position)
	}
	return nil
}
