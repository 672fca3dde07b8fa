package mkv

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/deepch/mkv/format/mkv/timescale"
)

var (
	ErrSequencing   = errors.New("mkv: metadata changed after streaming started on a non-seekable sink")
	ErrClosed       = errors.New("mkv: muxer closed")
	ErrUnknownTrack = errors.New("mkv: unknown track")
)

type muxerState int

const (
	stateCreated muxerState = iota
	stateInitialized
	stateStreaming
	stateClosed
)

// Muxer writes a Matroska/WebM file from timestamped frames.
//
// Nothing is written until the first frame, silence call or Flush. On a
// seekable writer the SeekHead, Info, Tracks and Tags live in reserved
// regions that are rewritten in place, so tracks and tags may still be
// added while streaming. On a plain io.Writer they are written once and
// later changes fail with ErrSequencing.
type Muxer struct {
	Logger *slog.Logger

	w     *mkvio.Sink
	cfg   MuxerConfig
	state muxerState

	info        Info
	durationSet bool
	tracks      []*Track
	tags        []*Tag

	cluster *Cluster
	seek    SeekIndex
	cues    CueIndex
	end     int64 // largest frame end timecode

	segment     int64 // position of the first Segment payload byte
	seekRegion  placeholder
	infoRegion  placeholder
	trackRegion placeholder
	tagsRegion  placeholder
}

// NewMuxer creates a muxer writing to w. A nil cfg selects the defaults.
func NewMuxer(w io.Writer, cfg *MuxerConfig) *Muxer {
	if cfg == nil {
		cfg = DefaultMuxerConfig()
	}

	info := newInfo()
	info.TimecodeScale = cfg.TimecodeScale
	info.Title = cfg.Title
	info.MuxingApp = cfg.MuxingApp
	info.WritingApp = cfg.WritingApp

	return &Muxer{
		Logger:  slog.Default(),
		w:       mkvio.NewSink(w),
		cfg:     *cfg,
		info:    info,
		cluster: NewCluster(cfg.ClusterSize, cfg.ClusterDuration, cfg.Lacing),
		end:     -1,
	}
}

// Seekable reports whether metadata can still change while streaming.
func (self *Muxer) Seekable() bool {
	return self.w.Seekable()
}

func (self *Muxer) mutable() error {
	switch {
	case self.state == stateClosed:
		return ErrClosed
	case self.state != stateCreated && !self.w.Seekable():
		return ErrSequencing
	}
	return nil
}

// AddTrack registers t. A zero UID is replaced by a random one.
func (self *Muxer) AddTrack(t *Track) error {
	if err := self.mutable(); err != nil {
		return err
	}
	if t.Number == 0 {
		return fmt.Errorf("mkv: track number must be positive")
	}
	if self.Track(t.Number) != nil {
		return fmt.Errorf("mkv: duplicate track %d", t.Number)
	}
	if t.UID == 0 {
		t.UID = newUID()
	}

	self.tracks = append(self.tracks, t)
	if self.state == stateCreated {
		return nil
	}
	if err := self.patchTracks(); err != nil {
		self.tracks = self.tracks[:len(self.tracks)-1]
		return err
	}
	return nil
}

// Track returns the track with the given number, or nil.
func (self *Muxer) Track(number uint64) *Track {
	for _, t := range self.tracks {
		if t.Number == number {
			return t
		}
	}
	return nil
}

func (self *Muxer) Tracks() []*Track {
	return self.tracks
}

func (self *Muxer) AddTag(tag *Tag) error {
	if err := self.mutable(); err != nil {
		return err
	}

	self.tags = append(self.tags, tag)
	if self.state == stateCreated {
		return nil
	}
	if err := self.patchTags(); err != nil {
		self.tags = self.tags[:len(self.tags)-1]
		return err
	}
	return nil
}

// SetTimecodeScale sets the nanoseconds per tick. Frames already
// written depend on it, so it is fixed once writing started.
func (self *Muxer) SetTimecodeScale(scale uint64) error {
	switch {
	case self.state == stateClosed:
		return ErrClosed
	case self.state != stateCreated:
		return ErrSequencing
	case scale == 0:
		return fmt.Errorf("mkv: timecode scale must be positive")
	}
	self.info.TimecodeScale = scale
	self.cfg.TimecodeScale = scale
	return nil
}

func (self *Muxer) TimecodeScale() uint64 {
	return self.info.TimecodeScale
}

// SetDuration sets the segment duration in ticks. Without it the
// duration is computed from the frames at Close on seekable writers.
func (self *Muxer) SetDuration(ticks float64) error {
	if err := self.mutable(); err != nil {
		return err
	}
	old, oldSet := self.info.Duration, self.durationSet
	self.info.Duration = ticks
	self.durationSet = true
	if self.state == stateCreated {
		return nil
	}
	if err := self.patchInfo(); err != nil {
		self.info.Duration, self.durationSet = old, oldSet
		return err
	}
	return nil
}

func (self *Muxer) SetTitle(title string) error {
	if err := self.mutable(); err != nil {
		return err
	}
	old := self.info.Title
	self.info.Title = title
	if self.state == stateCreated {
		return nil
	}
	if err := self.patchInfo(); err != nil {
		self.info.Title = old
		return err
	}
	return nil
}

// Ticks converts d to ticks of the current timecode scale.
func (self *Muxer) Ticks(d time.Duration) int64 {
	return timescale.ToTicks(d, self.info.TimecodeScale)
}

// SilenceTrack declares track silent in the following clusters.
func (self *Muxer) SilenceTrack(track uint64) error {
	if self.state == stateClosed {
		return ErrClosed
	}
	if err := self.init(); err != nil {
		return err
	}
	self.cluster.Silence(track)
	return nil
}

func (self *Muxer) UnsilenceTrack(track uint64) error {
	if self.state == stateClosed {
		return ErrClosed
	}
	if err := self.init(); err != nil {
		return err
	}
	self.cluster.Unsilence(track)
	return nil
}

// WriteFrame queues a copy of f in the current cluster, flushing the
// cluster when it is full.
func (self *Muxer) WriteFrame(f *Frame) error {
	if self.state == stateClosed {
		return ErrClosed
	}
	if self.Track(f.Track) == nil {
		return fmt.Errorf("%w %d", ErrUnknownTrack, f.Track)
	}
	if f.Timecode < 0 {
		return fmt.Errorf("mkv: negative timecode %d", f.Timecode)
	}
	if err := self.init(); err != nil {
		return err
	}
	self.state = stateStreaming

	f = f.Clone()
	if !self.cluster.Fits(f) {
		if err := self.flushCluster(); err != nil {
			return err
		}
	}
	if end := f.Timecode + f.Duration; end > self.end {
		self.end = end
	}
	if !self.cluster.Add(f) {
		return self.flushCluster()
	}
	return nil
}

// Flush writes the pending cluster.
func (self *Muxer) Flush() error {
	if self.state == stateClosed {
		return ErrClosed
	}
	if err := self.init(); err != nil {
		return err
	}
	return self.flushCluster()
}

// Close writes the last cluster and the cues, then brings the reserved
// regions up to date. It does not close the underlying writer.
func (self *Muxer) Close() error {
	if self.state == stateClosed {
		return ErrClosed
	}
	if err := self.init(); err != nil {
		return err
	}
	if err := self.flushCluster(); err != nil {
		return err
	}

	if self.cues.Len() > 0 {
		pos := self.w.Position()
		if _, err := self.cues.element().WriteTo(self.w); err != nil {
			return err
		}
		self.seek.Add(mkvio.ElementCues.ID, pos-self.segment)
	}

	if self.w.Seekable() {
		if !self.durationSet && self.end >= 0 {
			self.info.Duration = float64(self.end)
		}
		if err := self.patchInfo(); err != nil {
			return err
		}
		if err := self.patchSeekHead(); err != nil {
			return err
		}
	}

	self.state = stateClosed
	self.Logger.Debug("mkv: muxer closed", "cues", self.cues.Len(), "size", self.w.Position())
	return nil
}

func (self *Muxer) init() error {
	if self.state != stateCreated {
		return nil
	}
	if err := self.cfg.Validate(); err != nil {
		return err
	}
	self.cluster.DurationLimit = self.cfg.ClusterDuration

	if _, err := ebmlHeader(self.cfg.DocType).WriteTo(self.w); err != nil {
		return err
	}
	segment := mkvio.NewMaster(mkvio.ElementSegment)
	segment.UnknownSize = true
	if _, err := self.w.Write(segment.Header()); err != nil {
		return err
	}
	self.segment = self.w.Position()
	self.state = stateInitialized

	var err error
	if self.w.Seekable() {
		err = self.initSeekable()
	} else {
		err = self.initStream()
	}
	if err != nil {
		return err
	}

	self.Logger.Debug("mkv: muxer initialized", "seekable", self.w.Seekable(), "tracks", len(self.tracks), "tags", len(self.tags))
	return nil
}

// initSeekable writes every metadata section into a reserved region.
func (self *Muxer) initSeekable() error {
	withDuration := self.info
	withDuration.Duration = 1

	self.seekRegion.size = self.cfg.SeekHeadReserve
	self.infoRegion.size = reserve(self.cfg.InfoReserve, withDuration.element())
	self.trackRegion.size = reserve(self.cfg.TracksReserve, self.tracksElement())
	self.tagsRegion.size = reserve(self.cfg.TagsReserve, tagsElement(self.tags))

	pos := self.seekRegion.size
	self.seek.Add(mkvio.ElementInfo.ID, pos)
	pos += self.infoRegion.size
	self.seek.Add(mkvio.ElementTracks.ID, pos)
	pos += self.trackRegion.size
	if len(self.tags) > 0 {
		self.seek.Add(mkvio.ElementTags.ID, pos)
	}

	if err := self.seekRegion.write(self.w, self.seek.element()); err != nil {
		return err
	}
	if err := self.infoRegion.write(self.w, self.info.element()); err != nil {
		return err
	}
	if err := self.trackRegion.write(self.w, self.tracksElement()); err != nil {
		return err
	}
	return self.tagsRegion.write(self.w, self.tagsElements()...)
}

// initStream writes the metadata once with no room to grow. Only the
// SeekHead keeps its reserved size so that the offsets are known up
// front.
func (self *Muxer) initStream() error {
	info := self.info.element()
	tracks := self.tracksElement()
	tags := self.tagsElements()

	pos := self.cfg.SeekHeadReserve
	self.seek.Add(mkvio.ElementInfo.ID, pos)
	pos += int64(info.TotalSize())
	self.seek.Add(mkvio.ElementTracks.ID, pos)
	pos += int64(tracks.TotalSize())
	if len(tags) > 0 {
		self.seek.Add(mkvio.ElementTags.ID, pos)
	}

	self.seekRegion.size = self.cfg.SeekHeadReserve
	if err := self.seekRegion.write(self.w, self.seek.element()); err != nil {
		return err
	}
	for _, el := range append([]*mkvio.Element{info, tracks}, tags...) {
		if _, err := el.WriteTo(self.w); err != nil {
			return err
		}
	}
	return nil
}

func reserve(min int64, el *mkvio.Element) int64 {
	if n := int64(el.TotalSize()); n > min {
		return n
	}
	return min
}

func (self *Muxer) tracksElement() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementTracks)
	for _, t := range self.tracks {
		el.AddChild(t.element())
	}
	return el
}

func (self *Muxer) tagsElements() []*mkvio.Element {
	if len(self.tags) == 0 {
		return nil
	}
	return []*mkvio.Element{tagsElement(self.tags)}
}

func (self *Muxer) flushCluster() error {
	if self.cluster.Len() == 0 {
		return nil
	}

	pos := self.w.Position()
	tc, tracks := self.cluster.Timecode(), self.cluster.Tracks()
	n, err := self.cluster.Flush(self.w)
	if err != nil {
		return err
	}

	rel := pos - self.segment
	self.cues.Add(rel, tc, tracks)
	self.Logger.Debug("mkv: cluster written", "timecode", tc, "position", pos, "bytes", n, "tracks", len(tracks))

	if _, ok := self.seek.Lookup(mkvio.ElementCluster.ID); !ok && self.w.Seekable() {
		self.seek.Add(mkvio.ElementCluster.ID, rel)
		return self.patchSeekHead()
	}
	return nil
}

func (self *Muxer) patchSeekHead() error {
	if !self.w.Seekable() {
		return nil
	}
	self.Logger.Debug("mkv: patching seek head", "entries", len(self.seek.Entries))
	return self.seekRegion.patch(self.w, self.seek.element())
}

func (self *Muxer) patchInfo() error {
	return self.infoRegion.patch(self.w, self.info.element())
}

func (self *Muxer) patchTracks() error {
	return self.trackRegion.patch(self.w, self.tracksElement())
}

func (self *Muxer) patchTags() error {
	if err := self.tagsRegion.patch(self.w, self.tagsElements()...); err != nil {
		return err
	}
	if _, ok := self.seek.Lookup(mkvio.ElementTags.ID); ok {
		return nil
	}
	self.seek.Add(mkvio.ElementTags.ID, self.tagsRegion.pos-self.segment)
	return self.patchSeekHead()
}
