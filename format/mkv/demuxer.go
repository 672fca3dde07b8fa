package mkv

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/deepch/mkv/format/mkv/timescale"
)

// ClusterTrackSearchCount is how many clusters ReadTrackFrame parses
// looking for a track before it reports io.EOF.
const ClusterTrackSearchCount = 4

var ErrNotMatroska = errors.New("mkv: not a matroska file")

// Demuxer reads the metadata and frames of a Matroska/WebM file.
type Demuxer struct {
	Logger *slog.Logger

	// ScanFirstCluster makes ReadHeader parse the first cluster right
	// away, queueing its frames.
	ScanFirstCluster bool

	doc      *mkvio.Document
	segment  *mkvio.Element
	pending  *mkvio.Element
	stage    int
	docType  string
	info     Info
	tracks   []*Track
	tags     []*Tag
	seek     SeekIndex
	cues     CueIndex
	cuesRead bool

	parse   sync.Mutex // serializes reads from doc
	mu      sync.Mutex // guards queue and streams
	queue   []*Frame
	streams map[uint64]*Stream
}

func NewDemuxer(r io.Reader) *Demuxer {
	return &Demuxer{
		Logger:           slog.Default(),
		ScanFirstCluster: true,
		doc:              mkvio.InitDocument(r),
		streams:          make(map[uint64]*Stream),
	}
}

// ReadHeader validates the EBML header and reads every section up to
// the first cluster. It is called implicitly by the frame readers.
func (self *Demuxer) ReadHeader() error {
	self.parse.Lock()
	defer self.parse.Unlock()

	if self.stage > 0 {
		return nil
	}
	if err := self.readEBMLHeader(); err != nil {
		return err
	}
	if err := self.findSegment(); err != nil {
		return err
	}

	for {
		el, err := self.next()
		if err == io.EOF {
			self.stage++
			return nil
		}
		if err != nil {
			return err
		}

		if el.ID != mkvio.ElementCluster.ID {
			if err = self.readSection(el); err != nil {
				return err
			}
			continue
		}

		self.stage++
		if el, err = self.loadCues(el); err != nil {
			return err
		}
		if self.ScanFirstCluster {
			return self.parseCluster(el)
		}
		self.pending = el
		return nil
	}
}

func (self *Demuxer) readEBMLHeader() error {
	el, err := self.doc.Next(nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotMatroska, err)
	}
	if el.ID != mkvio.ElementEBML.ID {
		return fmt.Errorf("%w: starts with %s", ErrNotMatroska, el.Name)
	}
	if err = self.doc.Load(el); err != nil {
		return fmt.Errorf("%w: %w", ErrNotMatroska, err)
	}

	dt := el.Child(mkvio.ElementDocType.ID)
	if dt == nil {
		return fmt.Errorf("%w: no doc type", ErrNotMatroska)
	}
	self.docType, _ = dt.Text()
	if !docTypes[self.docType] {
		return fmt.Errorf("%w: doc type %q", ErrNotMatroska, self.docType)
	}
	return nil
}

func (self *Demuxer) findSegment() error {
	for {
		el, err := self.doc.Next(nil)
		if err != nil && !errors.Is(err, mkvio.ErrUnknownElement) {
			return fmt.Errorf("%w: %w", ErrNotMatroska, err)
		}
		switch {
		case err == nil && el.ID == mkvio.ElementSegment.ID:
			self.segment = el
			return nil
		case err != nil || el.Type == mkvio.ElementTypeVoid || el.ID == mkvio.ElementCRC32.ID:
			if err = self.doc.Skip(el); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s before segment", ErrNotMatroska, el.Name)
		}
	}
}

// next returns the next known child of the segment.
func (self *Demuxer) next() (*mkvio.Element, error) {
	for {
		el, err := self.doc.Next(self.segment)
		if errors.Is(err, mkvio.ErrUnknownElement) {
			self.Logger.Debug("mkv: skipping unknown element", "id", fmt.Sprintf("%x", el.ID), "size", el.Size)
			if err = self.doc.Skip(el); err != nil {
				return nil, err
			}
			continue
		}
		return el, err
	}
}

func (self *Demuxer) readSection(el *mkvio.Element) error {
	switch el.ID {
	case mkvio.ElementInfo.ID, mkvio.ElementTracks.ID, mkvio.ElementTags.ID,
		mkvio.ElementSeekHead.ID, mkvio.ElementCues.ID:
	default:
		return self.doc.Skip(el)
	}

	if err := self.doc.Load(el); err != nil {
		return err
	}

	var err error
	switch el.ID {
	case mkvio.ElementInfo.ID:
		self.info, err = parseInfo(el)
	case mkvio.ElementTracks.ID:
		for _, c := range el.Children {
			if c.ID != mkvio.ElementTrackEntry.ID {
				continue
			}
			var t *Track
			if t, err = parseTrack(c); err != nil {
				return err
			}
			self.addTrack(t)
		}
	case mkvio.ElementTags.ID:
		var tags []*Tag
		tags, err = parseTags(el)
		self.tags = append(self.tags, tags...)
	case mkvio.ElementSeekHead.ID:
		err = self.seek.parse(el)
	case mkvio.ElementCues.ID:
		if !self.cuesRead {
			self.cuesRead = true
			err = self.cues.parse(el)
		}
	}
	return err
}

func (self *Demuxer) addTrack(t *Track) {
	for i, old := range self.tracks {
		if old.Number == t.Number {
			self.tracks[i] = t
			return
		}
	}
	self.tracks = append(self.tracks, t)

	self.mu.Lock()
	self.streams[t.Number] = &Stream{Track: t, First: -1, Last: -1}
	self.mu.Unlock()
}

// loadCues reads the Cues the SeekHead points at, then returns to the
// cluster el and reads its header again.
func (self *Demuxer) loadCues(el *mkvio.Element) (*mkvio.Element, error) {
	if self.cuesRead || !self.doc.Reader().Seekable() {
		return el, nil
	}
	pos, ok := self.seek.Lookup(mkvio.ElementCues.ID)
	if !ok {
		return el, nil
	}

	back := el.Offset
	if err := self.readCues(pos); err != nil {
		return nil, err
	}
	if self.segment.Resolved() {
		if err := self.reopenSegment(); err != nil {
			return nil, err
		}
	}
	if err := self.doc.Reposition(self.segment, back); err != nil {
		return nil, err
	}
	return self.doc.Next(self.segment)
}

// readCues reads Cues at pos, relative to the segment payload. A bad
// entry only costs the cues; the source is left wherever reading stopped.
func (self *Demuxer) readCues(pos int64) error {
	self.cuesRead = true
	if err := self.doc.Reposition(self.segment, self.segment.DataOffset()+pos); err != nil {
		return err
	}

	cues, err := self.doc.Next(self.segment)
	if err != nil || cues.ID != mkvio.ElementCues.ID {
		self.Logger.Warn("mkv: seek head entry for cues points elsewhere", "position", pos, "error", err)
		return nil
	}
	if err = self.doc.Load(cues); err == nil {
		err = self.cues.parse(cues)
	}
	if err != nil {
		self.Logger.Warn("mkv: unreadable cues", "error", err)
	}
	return nil
}

func (self *Demuxer) nextCluster() error {
	self.parse.Lock()
	defer self.parse.Unlock()

	if el := self.pending; el != nil {
		self.pending = nil
		return self.parseCluster(el)
	}

	for {
		el, err := self.next()
		if err != nil {
			return err
		}
		if el.ID == mkvio.ElementCluster.ID {
			return self.parseCluster(el)
		}
		if err = self.readSection(el); err != nil {
			return err
		}
	}
}

func (self *Demuxer) parseCluster(cl *mkvio.Element) error {
	var tc int64
	var frames []*Frame

	for {
		el, err := self.doc.Next(cl)
		if err == io.EOF {
			break
		}
		if errors.Is(err, mkvio.ErrUnknownElement) {
			if err = self.doc.Skip(el); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		switch el.ID {
		case mkvio.ElementTimecode.ID:
			if _, err = self.doc.ReadData(el); err != nil {
				return err
			}
			v, err := el.Uint()
			if err != nil {
				return err
			}
			tc = int64(v)
		case mkvio.ElementSimpleBlock.ID:
			data, err := self.doc.ReadData(el)
			if err != nil {
				return err
			}
			b, err := ParseBlock(data)
			if err != nil {
				return err
			}
			frames = append(frames, blockFrames(b, tc, b.Keyframe, 0, nil)...)
		case mkvio.ElementBlockGroup.ID:
			if err = self.doc.Load(el); err != nil {
				return err
			}
			group, err := parseBlockGroup(el, tc)
			if err != nil {
				return err
			}
			if group == nil {
				self.Logger.Warn("mkv: block group without block", "position", el.Offset)
			}
			frames = append(frames, group...)
		default:
			if err = self.doc.Skip(el); err != nil {
				return err
			}
		}
	}

	self.push(frames)
	return nil
}

func parseBlockGroup(el *mkvio.Element, cluster int64) ([]*Frame, error) {
	var b *Block
	var duration int64
	var refs []int64

	for _, c := range el.Children {
		switch c.ID {
		case mkvio.ElementBlock.ID:
			var err error
			if b, err = ParseBlock(c.Content); err != nil {
				return nil, err
			}
		case mkvio.ElementBlockDuration.ID:
			v, err := c.Uint()
			if err != nil {
				return nil, err
			}
			duration = int64(v)
		case mkvio.ElementReferenceBlock.ID:
			v, err := c.Int()
			if err != nil {
				return nil, err
			}
			refs = append(refs, v)
		}
	}

	if b == nil {
		return nil, nil
	}
	return blockFrames(b, cluster, len(refs) == 0, duration, refs), nil
}

// blockFrames expands a block, laced or not, into frames.
func blockFrames(b *Block, cluster int64, keyframe bool, duration int64, refs []int64) []*Frame {
	frames := make([]*Frame, len(b.Frames))
	for i, data := range b.Frames {
		frames[i] = &Frame{
			Track:      b.Track,
			Timecode:   cluster + int64(b.Timecode),
			Duration:   duration,
			Keyframe:   keyframe,
			References: refs,
			Data:       data,
		}
	}
	return frames
}

func (self *Demuxer) push(frames []*Frame) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.queue = append(self.queue, frames...)
	for _, f := range frames {
		if s := self.streams[f.Track]; s != nil {
			s.update(f)
		}
	}
}

// pop removes the first queued frame, or the first of track when filter is set.
func (self *Demuxer) pop(track uint64, filter bool) *Frame {
	self.mu.Lock()
	defer self.mu.Unlock()

	for i, f := range self.queue {
		if filter && f.Track != track {
			continue
		}
		copy(self.queue[i:], self.queue[i+1:])
		self.queue[len(self.queue)-1] = nil
		self.queue = self.queue[:len(self.queue)-1]
		return f
	}
	return nil
}

// ReadFrame returns the next frame of any track, or io.EOF.
func (self *Demuxer) ReadFrame() (*Frame, error) {
	if err := self.ReadHeader(); err != nil {
		return nil, err
	}
	for {
		if f := self.pop(0, false); f != nil {
			return f, nil
		}
		if err := self.nextCluster(); err != nil {
			return nil, err
		}
	}
}

// ReadTrackFrame returns the next frame of track. Frames of other tracks
// stay queued. It gives up with io.EOF after ClusterTrackSearchCount
// clusters without a frame of track.
func (self *Demuxer) ReadTrackFrame(track uint64) (*Frame, error) {
	if err := self.ReadHeader(); err != nil {
		return nil, err
	}
	for i := 0; ; i++ {
		if f := self.pop(track, true); f != nil {
			return f, nil
		}
		if i == ClusterTrackSearchCount {
			return nil, io.EOF
		}
		if err := self.nextCluster(); err != nil {
			return nil, err
		}
	}
}

// SeekTimecode moves to the cluster holding timecode according to the cues.
// Queued frames are dropped; reading resumes at the start of that
// cluster, so frames before timecode may follow.
func (self *Demuxer) SeekTimecode(timecode int64) error {
	if err := self.ReadHeader(); err != nil {
		return err
	}

	self.parse.Lock()
	defer self.parse.Unlock()

	if !self.doc.Reader().Seekable() {
		return mkvio.ErrNotSeekable
	}
	if self.segment.Resolved() {
		if err := self.reopenSegment(); err != nil {
			return err
		}
	}
	if !self.cuesRead {
		if pos, ok := self.seek.Lookup(mkvio.ElementCues.ID); ok {
			if err := self.readCues(pos); err != nil {
				return err
			}
		}
		if self.segment.Resolved() {
			if err := self.reopenSegment(); err != nil {
				return err
			}
		}
	}

	cp, ok := self.cues.Find(timecode)
	if !ok {
		return fmt.Errorf("mkv: seek to %d: no cues", timecode)
	}

	self.pending = nil
	self.mu.Lock()
	self.queue = nil
	self.mu.Unlock()

	self.Logger.Debug("mkv: seek", "timecode", timecode, "cluster", cp.Timecode, "position", cp.Position)
	return self.doc.Reposition(self.segment, self.segment.DataOffset()+cp.Position)
}

// reopenSegment reads the segment header again after it was read to the end.
func (self *Demuxer) reopenSegment() error {
	if err := self.doc.Reader().SeekTo(self.segment.Offset); err != nil {
		return err
	}
	el, err := self.doc.Next(nil)
	if err != nil {
		return err
	}
	if el.ID != mkvio.ElementSegment.ID {
		return mkvio.ErrParse
	}
	self.segment = el
	return nil
}

// Time converts the timecode of f to a duration from the segment start.
func (self *Demuxer) Time(f *Frame) time.Duration {
	return timescale.FromTicks(f.Timecode, self.info.TimecodeScale)
}

func (self *Demuxer) DocType() string {
	return self.docType
}

func (self *Demuxer) Info() Info {
	return self.info
}

func (self *Demuxer) Tracks() []*Track {
	return self.tracks
}

// Track returns the track with the given number, or nil.
func (self *Demuxer) Track(number uint64) *Track {
	for _, t := range self.tracks {
		if t.Number == number {
			return t
		}
	}
	return nil
}

func (self *Demuxer) Tags() []*Tag {
	return self.tags
}

func (self *Demuxer) SeekEntries() []SeekEntry {
	return self.seek.Entries
}

func (self *Demuxer) Cues() []CuePoint {
	return self.cues.Points
}

// Streams returns per track counters of the frames read so far.
func (self *Demuxer) Streams() []Stream {
	self.mu.Lock()
	defer self.mu.Unlock()

	streams := make([]Stream, 0, len(self.streams))
	for _, s := range self.streams {
		streams = append(streams, *s)
	}
	sort.Slice(streams, func(i, j int) bool { return streams[i].Number < streams[j].Number })
	return streams
}

// Report summarizes the header in human readable form.
func (self *Demuxer) Report() string {
	var sb strings.Builder
	info := self.info

	fmt.Fprintf(&sb, "Doc type: %s\n", self.docType)
	if info.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", info.Title)
	}
	fmt.Fprintf(&sb, "Timecode scale: %d\n", info.TimecodeScale)
	if info.Duration > 0 {
		d := timescale.FromTicks(int64(info.Duration), info.TimecodeScale)
		fmt.Fprintf(&sb, "Duration: %s\n", d)
	}
	if !info.DateUTC.IsZero() {
		fmt.Fprintf(&sb, "Date: %s\n", info.DateUTC.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "Muxing app: %s\nWriting app: %s\n", info.MuxingApp, info.WritingApp)

	for _, t := range self.tracks {
		fmt.Fprintf(&sb, "Track %d: %s %s", t.Number, t.Type, t.CodecID)
		if t.Name != "" {
			fmt.Fprintf(&sb, " %q", t.Name)
		}
		fmt.Fprintf(&sb, " lang=%s uid=%d\n", t.Language, t.UID)
		if v := t.Video; v != nil {
			fmt.Fprintf(&sb, "  video %dx%d\n", v.PixelWidth, v.PixelHeight)
		}
		if a := t.Audio; a != nil {
			fmt.Fprintf(&sb, "  audio %g Hz, %d channels\n", a.SamplingFrequency, a.Channels)
		}
	}

	for _, tag := range self.tags {
		for _, st := range tag.SimpleTags {
			fmt.Fprintf(&sb, "Tag %s: %s\n", st.Name, st.Value)
		}
	}
	fmt.Fprintf(&sb, "Cue points: %d\n", len(self.cues.Points))
	return sb.String()
}
