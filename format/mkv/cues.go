package mkv

import (
	"sort"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

// CuePoint locates the cluster starting at Timecode. Position is
// relative to the first byte of the Segment payload.
type CuePoint struct {
	Timecode int64
	Position int64
	Tracks   []uint64
}

// CueIndex is the content of Cues, kept in timecode order.
type CueIndex struct {
	Points []CuePoint
}

func (ci *CueIndex) Add(position, timecode int64, tracks []uint64) {
	ci.Points = append(ci.Points, CuePoint{Timecode: timecode, Position: position, Tracks: tracks})
}

func (ci *CueIndex) Len() int {
	return len(ci.Points)
}

// Find returns the last point at or before timecode, or the first point
// when timecode precedes all of them.
func (ci *CueIndex) Find(timecode int64) (CuePoint, bool) {
	if len(ci.Points) == 0 {
		return CuePoint{}, false
	}
	i := sort.Search(len(ci.Points), func(i int) bool { return ci.Points[i].Timecode > timecode })
	if i > 0 {
		i--
	}
	return ci.Points[i], true
}

func (ci *CueIndex) element() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementCues)
	for _, p := range ci.Points {
		cp := mkvio.NewMaster(mkvio.ElementCuePoint, mkvio.NewUint(mkvio.ElementCueTime, uint64(p.Timecode)))
		for _, t := range p.Tracks {
			cp.AddChild(mkvio.NewMaster(mkvio.ElementCueTrackPositions,
				mkvio.NewUint(mkvio.ElementCueTrack, t),
				mkvio.NewUint(mkvio.ElementCueClusterPosition, uint64(p.Position)),
			))
		}
		el.AddChild(cp)
	}
	return el
}

// parse merges cue track positions of the same time and cluster into
// one point.
func (ci *CueIndex) parse(el *mkvio.Element) error {
	for _, cp := range el.Children {
		if cp.ID != mkvio.ElementCuePoint.ID {
			continue
		}
		var tc uint64
		byPos := make(map[int64][]uint64)
		var order []int64
		for _, c := range cp.Children {
			switch c.ID {
			case mkvio.ElementCueTime.ID:
				v, err := c.Uint()
				if err != nil {
					return err
				}
				tc = v
			case mkvio.ElementCueTrackPositions.ID:
				var track, pos uint64
				for _, f := range c.Children {
					var err error
					switch f.ID {
					case mkvio.ElementCueTrack.ID:
						track, err = f.Uint()
					case mkvio.ElementCueClusterPosition.ID:
						pos, err = f.Uint()
					}
					if err != nil {
						return err
					}
				}
				if _, ok := byPos[int64(pos)]; !ok {
					order = append(order, int64(pos))
				}
				byPos[int64(pos)] = append(byPos[int64(pos)], track)
			}
		}
		for _, pos := range order {
			ci.Points = append(ci.Points, CuePoint{Timecode: int64(tc), Position: pos, Tracks: byPos[pos]})
		}
	}
	sort.SliceStable(ci.Points, func(i, j int) bool { return ci.Points[i].Timecode < ci.Points[j].Timecode })
	return nil
}
