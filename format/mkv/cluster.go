package mkv

import (
	"io"
	"math"
	"sort"

	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/deepch/mkv/format/mkv/timescale"
)

const (
	DefaultClusterSize     = 1 << 20
	DefaultClusterDuration = 5000

	// block timecodes are int16 offsets from the cluster timecode
	maxClusterSpan = math.MaxInt16
)

// Cluster collects frames until a size or duration limit is reached and
// then writes them as one Cluster element.
type Cluster struct {
	SizeLimit     int64
	DurationLimit int64
	Lacing        LaceMode

	frames   []*Frame
	tracks   map[uint64]struct{}
	silent   map[uint64]struct{}
	timecode int64
	size     int64
}

func NewCluster(sizeLimit, durationLimit int64, lacing LaceMode) *Cluster {
	if durationLimit > maxClusterSpan {
		durationLimit = maxClusterSpan
	}
	return &Cluster{
		SizeLimit:     sizeLimit,
		DurationLimit: durationLimit,
		Lacing:        lacing,
		tracks:        make(map[uint64]struct{}),
		silent:        make(map[uint64]struct{}),
		timecode:      math.MaxInt64,
	}
}

// Add appends f and reports whether the cluster can take more frames.
// On false f is still part of the cluster, which should be flushed.
func (c *Cluster) Add(f *Frame) bool {
	if f.Timecode < c.timecode {
		c.timecode = f.Timecode
	}
	c.frames = append(c.frames, f)
	c.tracks[f.Track] = struct{}{}
	c.size += int64(len(f.Data))

	return f.Timecode-c.timecode < c.DurationLimit && c.size < c.SizeLimit
}

// Fits reports whether f can join the cluster without a block timecode
// leaving the int16 range.
func (c *Cluster) Fits(f *Frame) bool {
	if len(c.frames) == 0 {
		return true
	}
	lo, hi := f.Timecode, f.Timecode
	for _, g := range c.frames {
		if g.Timecode < lo {
			lo = g.Timecode
		}
		if g.Timecode > hi {
			hi = g.Timecode
		}
	}
	return hi-lo <= maxClusterSpan
}

// Timecode is the smallest frame timecode, or math.MaxInt64 when empty.
func (c *Cluster) Timecode() int64 {
	return c.timecode
}

func (c *Cluster) Len() int {
	return len(c.frames)
}

// Tracks returns the sorted track numbers present in the cluster.
func (c *Cluster) Tracks() []uint64 {
	return sortedKeys(c.tracks)
}

// Silence declares track as silent in every following cluster.
func (c *Cluster) Silence(track uint64) {
	c.silent[track] = struct{}{}
}

func (c *Cluster) Unsilence(track uint64) {
	delete(c.silent, track)
}

func sortedKeys(m map[uint64]struct{}) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Flush writes the cluster to w and resets it. An empty cluster writes
// nothing.
func (c *Cluster) Flush(w io.Writer) (int64, error) {
	if len(c.frames) == 0 {
		return 0, nil
	}

	el, err := c.element()
	if err != nil {
		return 0, err
	}
	n, err := el.WriteTo(w)

	c.frames = c.frames[:0]
	c.tracks = make(map[uint64]struct{})
	c.size = 0
	c.timecode = math.MaxInt64
	return n, err
}

func (c *Cluster) element() (*mkvio.Element, error) {
	el := mkvio.NewMaster(mkvio.ElementCluster, mkvio.NewUint(mkvio.ElementTimecode, uint64(c.timecode)))

	if len(c.silent) > 0 {
		st := mkvio.NewMaster(mkvio.ElementSilentTracks)
		for _, n := range sortedKeys(c.silent) {
			st.AddChild(mkvio.NewUint(mkvio.ElementSilentTrackNumber, n))
		}
		el.AddChild(st)
	}

	var cur *laceGroup
	for _, f := range c.frames {
		rel := timescale.Relative(f.Timecode, c.timecode)
		if cur != nil && cur.accepts(f, rel, c.Lacing) {
			cur.frames = append(cur.frames, f)
			continue
		}
		if cur != nil {
			b, err := cur.element(c.Lacing)
			if err != nil {
				return nil, err
			}
			el.AddChild(b)
		}
		cur = &laceGroup{timecode: rel, frames: []*Frame{f}}
	}
	b, err := cur.element(c.Lacing)
	if err != nil {
		return nil, err
	}
	el.AddChild(b)
	return el, nil
}

// laceGroup is a run of frames that end up in one block.
type laceGroup struct {
	timecode int16
	frames   []*Frame
}

func (g *laceGroup) accepts(f *Frame, rel int16, mode LaceMode) bool {
	first := g.frames[0]
	switch {
	case mode == LaceNone,
		f.Track != first.Track,
		rel != g.timecode,
		len(g.frames) >= maxLacedFrames,
		f.Keyframe != first.Keyframe,
		f.grouped() || first.grouped(),
		len(f.Data) > MaxLaceSize || len(first.Data) > MaxLaceSize:
		return false
	case mode == LaceFixed:
		return len(f.Data) == len(first.Data)
	}
	return true
}

func (g *laceGroup) element(mode LaceMode) (*mkvio.Element, error) {
	first := g.frames[0]
	b := &Block{
		Track:    first.Track,
		Timecode: g.timecode,
		Lacing:   mode,
		Frames:   make([][]byte, len(g.frames)),
	}
	for i, f := range g.frames {
		b.Frames[i] = f.Data
	}

	if !first.grouped() {
		b.Keyframe = first.Keyframe
		data, err := b.Marshal()
		if err != nil {
			return nil, err
		}
		return mkvio.NewBinary(mkvio.ElementSimpleBlock, data), nil
	}

	data, err := b.Marshal()
	if err != nil {
		return nil, err
	}
	group := mkvio.NewMaster(mkvio.ElementBlockGroup, mkvio.NewBinary(mkvio.ElementBlock, data))
	if first.Duration > 0 {
		group.AddChild(mkvio.NewUint(mkvio.ElementBlockDuration, uint64(first.Duration)))
	}
	for _, ref := range first.References {
		group.AddChild(mkvio.NewInt(mkvio.ElementReferenceBlock, ref))
	}
	return group, nil
}
