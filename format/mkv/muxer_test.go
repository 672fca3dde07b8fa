package mkv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "test*.mkv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func rewind(t *testing.T, f *os.File) *os.File {
	t.Helper()
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	return f
}

func subtitleTrack() *Track {
	t := NewTrack(42, TrackTypeSubtitle, "some subtitle codec")
	t.DefaultDuration = 33
	return t
}

// checkLevels walks the whole file and compares schema levels with the
// actual nesting depth.
func checkLevels(t *testing.T, r io.Reader) {
	t.Helper()
	doc := mkvio.InitDocument(r)
	count := 0
	err := doc.ParseAll(func(el *mkvio.Element) error {
		count++
		if el.Level != mkvio.LevelGlobal && el.Level != el.Depth {
			t.Errorf("%s: level %d at depth %d", el.Name, el.Level, el.Depth)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Fatal("no elements found")
	}
}

func TestWriteRead(t *testing.T) {
	for _, scan := range []bool{true, false} {
		t.Run(fmt.Sprintf("scan=%v", scan), func(t *testing.T) {
			f := tempFile(t)
			m := NewMuxer(f, nil)
			if err := m.AddTrack(subtitleTrack()); err != nil {
				t.Fatal(err)
			}
			payloads := []string{"I know a song...", "that gets on", "everybody's nerves"}
			for i, p := range payloads {
				if err := m.WriteFrame(&Frame{Track: 42, Timecode: int64(1338 + i), Keyframe: true, Data: []byte(p)}); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.Close(); err != nil {
				t.Fatal(err)
			}

			d := NewDemuxer(rewind(t, f))
			d.ScanFirstCluster = scan
			if err := d.ReadHeader(); err != nil {
				t.Fatal(err)
			}
			tracks := d.Tracks()
			if len(tracks) != 1 {
				t.Fatalf("expected 1 track, got %d", len(tracks))
			}
			tr := tracks[0]
			if tr.Number != 42 || tr.Type != TrackTypeSubtitle || tr.CodecID != "some subtitle codec" || tr.DefaultDuration != 33 {
				t.Errorf("unexpected track %+v", tr)
			}
			if tr.UID == 0 {
				t.Errorf("track UID not assigned")
			}

			for i, p := range payloads {
				fr, err := d.ReadFrame()
				if err != nil {
					t.Fatalf("frame %d: %v", i, err)
				}
				if fr.Track != 42 || fr.Timecode != int64(1338+i) || string(fr.Data) != p {
					t.Errorf("frame %d: expected (42, %d, %q), got (%d, %d, %q)", i, 1338+i, p, fr.Track, fr.Timecode, fr.Data)
				}
				if !fr.Keyframe {
					t.Errorf("frame %d: keyframe flag lost", i)
				}
			}
			if _, err := d.ReadFrame(); err != io.EOF {
				t.Errorf("expected EOF, got %v", err)
			}

			info := d.Info()
			if info.TimecodeScale != DefaultTimecodeScale || info.Duration != 1340 || len(info.SegmentUID) != 16 {
				t.Errorf("unexpected info %+v", info)
			}
			if d.DocType() != "matroska" {
				t.Errorf("expected matroska, got %s", d.DocType())
			}
			if len(d.Cues()) != 1 || d.Cues()[0].Timecode != 1338 {
				t.Errorf("unexpected cues %+v", d.Cues())
			}
			for _, id := range []uint32{mkvio.ElementInfo.ID, mkvio.ElementTracks.ID, mkvio.ElementCluster.ID, mkvio.ElementCues.ID} {
				if _, ok := d.seek.Lookup(id); !ok {
					t.Errorf("seek head misses %x", id)
				}
			}

			streams := d.Streams()
			if len(streams) != 1 || streams[0].Frames != 3 || streams[0].First != 1338 || streams[0].Last != 1340 {
				t.Errorf("unexpected streams %+v", streams)
			}

			checkLevels(t, rewind(t, f))
		})
	}
}

func TestMultipleTracks(t *testing.T) {
	f := tempFile(t)
	m := NewMuxer(f, nil)
	if err := m.AddTrack(subtitleTrack()); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFrame(&Frame{Track: 42, Timecode: 1338, Data: []byte("I know a song...")}); err != nil {
		t.Fatal(err)
	}

	next := NewTrack(2, TrackTypeControl, "some logo thingy")
	next.DefaultDuration = 4242
	if err := m.AddTrack(next); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFrame(&Frame{Track: 2, Timecode: 1339, Data: []byte("that gets on everybody's nerves")}); err != nil {
		t.Fatal(err)
	}

	virtual := NewTrack(3, TrackTypeControl, "virtual tracky!")
	virtual.DefaultDuration = 1313
	virtual.Operation = &TrackOperation{JoinUIDs: []uint64{42, 2}}
	virtual.Video = &Video{PixelWidth: 640, PixelHeight: 480}
	virtual.Audio = &Audio{SamplingFrequency: 48000, Channels: 2, BitDepth: 16}
	if err := m.AddTrack(virtual); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	d := NewDemuxer(rewind(t, f))
	if err := d.ReadHeader(); err != nil {
		t.Fatal(err)
	}
	if len(d.Tracks()) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(d.Tracks()))
	}
	if tr := d.Tracks()[0]; tr.Number != 42 || tr.Type != TrackTypeSubtitle {
		t.Errorf("unexpected first track %+v", tr)
	}
	v := d.Track(3)
	if v == nil || v.Operation == nil || len(v.Operation.JoinUIDs) != 2 || v.Operation.JoinUIDs[0] != 42 {
		t.Fatalf("track operation lost: %+v", v)
	}
	if v.Video == nil || v.Video.PixelWidth != 640 || v.Audio == nil || v.Audio.SamplingFrequency != 48000 || v.Audio.BitDepth != 16 {
		t.Errorf("video/audio settings lost: %+v %+v", v.Video, v.Audio)
	}

	fr, err := d.ReadTrackFrame(2)
	if err != nil {
		t.Fatal(err)
	}
	if string(fr.Data) != "that gets on everybody's nerves" {
		t.Errorf("unexpected frame %q", fr.Data)
	}
	fr, err = d.ReadFrame()
	if err != nil || fr.Track != 42 {
		t.Errorf("expected queued frame of track 42, got %+v (%v)", fr, err)
	}

	checkLevels(t, rewind(t, f))
}

func TestSilentTrack(t *testing.T) {
	f := tempFile(t)
	m := NewMuxer(f, nil)
	m.AddTrack(subtitleTrack())
	if err := m.SilenceTrack(13); err != nil {
		t.Fatal(err)
	}
	m.WriteFrame(&Frame{Track: 42, Timecode: 1338, Data: []byte("I know a song...")})
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	doc := mkvio.InitDocument(rewind(t, f))
	el, err := doc.Find(mkvio.ElementSilentTrackNumber.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := el.Uint(); n != 13 {
		t.Errorf("expected silent track 13, got %d", n)
	}

	d := NewDemuxer(rewind(t, f))
	if fr, err := d.ReadFrame(); err != nil || fr.Track != 42 {
		t.Errorf("expected frame of track 42, got %+v (%v)", fr, err)
	}
	checkLevels(t, rewind(t, f))
}

func TestUnseekableWriter(t *testing.T) {
	var buf bytes.Buffer
	m := NewMuxer(&buf, nil)
	if m.Seekable() {
		t.Fatal("bytes.Buffer reported seekable")
	}
	if err := m.AddTrack(subtitleTrack()); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFrame(&Frame{Track: 42, Timecode: 1338, Data: []byte("I know a song...")}); err != nil {
		t.Fatal(err)
	}

	written := append([]byte(nil), buf.Bytes()...)
	if err := m.AddTrack(NewTrack(2, TrackTypeAudio, "A_OPUS")); !errors.Is(err, ErrSequencing) {
		t.Errorf("add track: expected %v, got %v", ErrSequencing, err)
	}
	if err := m.AddTag(&Tag{}); !errors.Is(err, ErrSequencing) {
		t.Errorf("add tag: expected %v, got %v", ErrSequencing, err)
	}
	if err := m.SetDuration(10); !errors.Is(err, ErrSequencing) {
		t.Errorf("set duration: expected %v, got %v", ErrSequencing, err)
	}
	if err := m.SetTimecodeScale(1000); !errors.Is(err, ErrSequencing) {
		t.Errorf("set timecode scale: expected %v, got %v", ErrSequencing, err)
	}
	if !bytes.Equal(written, buf.Bytes()) {
		t.Errorf("rejected changes modified the output")
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), written) {
		t.Errorf("close rewrote earlier bytes")
	}

	d := NewDemuxer(bytes.NewReader(buf.Bytes()))
	fr, err := d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if fr.Timecode != 1338 || string(fr.Data) != "I know a song..." {
		t.Errorf("unexpected frame %+v", fr)
	}
	if len(d.Tracks()) != 1 {
		t.Errorf("expected 1 track, got %d", len(d.Tracks()))
	}
	checkLevels(t, bytes.NewReader(buf.Bytes()))
}

func TestTags(t *testing.T) {
	f := tempFile(t)
	m := NewMuxer(f, nil)
	m.AddTrack(subtitleTrack())

	tag := &Tag{TargetTypeValue: 50}
	tag.AddSimpleTag("ARTIST", "somebody").AddChild("SORT_WITH", "body, some")
	if err := m.AddTag(tag); err != nil {
		t.Fatal(err)
	}
	m.WriteFrame(&Frame{Track: 42, Timecode: 0, Data: []byte("x")})

	late := &Tag{TrackUIDs: []uint64{m.Track(42).UID}}
	late.AddSimpleTag("TITLE", "late")
	if err := m.AddTag(late); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	d := NewDemuxer(rewind(t, f))
	if err := d.ReadHeader(); err != nil {
		t.Fatal(err)
	}
	tags := d.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	st := tags[0].SimpleTags[0]
	if st.Name != "ARTIST" || st.Value != "somebody" || len(st.Children) != 1 || st.Children[0].Value != "body, some" {
		t.Errorf("unexpected simple tag %+v", st)
	}
	if tags[0].TargetTypeValue != 50 {
		t.Errorf("expected target type 50, got %d", tags[0].TargetTypeValue)
	}
	if len(tags[1].TrackUIDs) != 1 || tags[1].TrackUIDs[0] != d.Track(42).UID {
		t.Errorf("late tag targets lost: %+v", tags[1])
	}
}

func TestIndexBudget(t *testing.T) {
	cfg := DefaultMuxerConfig()
	cfg.TracksReserve = 2
	f := tempFile(t)
	m := NewMuxer(f, cfg)
	m.AddTrack(subtitleTrack())
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTrack(NewTrack(2, TrackTypeAudio, "A_OPUS")); !errors.Is(err, ErrIndexBudgetExceeded) {
		t.Errorf("expected %v, got %v", ErrIndexBudgetExceeded, err)
	}
	if len(m.Tracks()) != 1 {
		t.Errorf("rejected track kept")
	}
}

func TestMuxerErrors(t *testing.T) {
	var buf bytes.Buffer
	m := NewMuxer(&buf, nil)
	m.AddTrack(subtitleTrack())
	if err := m.AddTrack(subtitleTrack()); err == nil {
		t.Errorf("duplicate track accepted")
	}
	if err := m.WriteFrame(&Frame{Track: 7}); !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("expected %v, got %v", ErrUnknownTrack, err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFrame(&Frame{Track: 42}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
	if err := m.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected %v, got %v", ErrClosed, err)
	}
}

func TestLacedFrames(t *testing.T) {
	var buf bytes.Buffer
	m := NewMuxer(&buf, nil)
	m.AddTrack(NewTrack(1, TrackTypeAudio, "A_VORBIS"))
	data := []string{"one", "three", "seventeen"}
	for _, s := range data {
		m.WriteFrame(&Frame{Track: 1, Timecode: 20, Keyframe: true, Data: []byte(s)})
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	d := NewDemuxer(bytes.NewReader(buf.Bytes()))
	for _, s := range data {
		fr, err := d.ReadFrame()
		if err != nil {
			t.Fatal(err)
		}
		if string(fr.Data) != s || fr.Timecode != 20 {
			t.Errorf("expected %q at 20, got %q at %d", s, fr.Data, fr.Timecode)
		}
	}
}

func TestFrameCopied(t *testing.T) {
	var buf bytes.Buffer
	m := NewMuxer(&buf, nil)
	m.AddTrack(NewTrack(1, TrackTypeVideo, "V_TEST"))
	data := []byte("original")
	m.WriteFrame(&Frame{Track: 1, Timecode: 0, Data: data})
	copy(data, "mutated!")
	m.Close()

	fr, err := NewDemuxer(bytes.NewReader(buf.Bytes())).ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if string(fr.Data) != "original" {
		t.Errorf("expected original payload, got %q", fr.Data)
	}
}

func writeClusters(t *testing.T, w io.Writer, duration int64, frames []*Frame) {
	t.Helper()
	cfg := DefaultMuxerConfig()
	cfg.ClusterDuration = duration
	m := NewMuxer(w, cfg)
	m.AddTrack(NewTrack(1, TrackTypeVideo, "V_TEST"))
	m.AddTrack(NewTrack(2, TrackTypeAudio, "A_TEST"))
	for _, f := range frames {
		if err := m.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSeek(t *testing.T) {
	var frames []*Frame
	for tc := int64(0); tc < 1000; tc += 10 {
		frames = append(frames, &Frame{Track: 1, Timecode: tc, Keyframe: true, Data: []byte(fmt.Sprint(tc))})
	}
	f := tempFile(t)
	writeClusters(t, f, 100, frames)

	d := NewDemuxer(rewind(t, f))
	if err := d.ReadHeader(); err != nil {
		t.Fatal(err)
	}
	if len(d.Cues()) < 5 {
		t.Fatalf("expected several cue points, got %d", len(d.Cues()))
	}

	if err := d.SeekTimecode(555); err != nil {
		t.Fatal(err)
	}
	fr, err := d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if fr.Timecode != 550 || string(fr.Data) != "550" {
		t.Errorf("expected frame 550, got %d %q", fr.Timecode, fr.Data)
	}

	for {
		if _, err = d.ReadFrame(); err != nil {
			break
		}
	}
	if err != io.EOF {
		t.Fatal(err)
	}

	if err = d.SeekTimecode(0); err != nil {
		t.Fatal(err)
	}
	fr, err = d.ReadFrame()
	if err != nil || fr.Timecode != 0 {
		t.Errorf("expected frame 0 after rewinding, got %+v (%v)", fr, err)
	}
}

func TestTrackSearchLimit(t *testing.T) {
	frames := []*Frame{{Track: 2, Timecode: 0, Data: []byte("only")}}
	for tc := int64(0); tc <= 200; tc += 10 {
		frames = append(frames, &Frame{Track: 1, Timecode: tc, Data: []byte{byte(tc)}})
	}
	var buf bytes.Buffer
	writeClusters(t, &buf, 10, frames)

	d := NewDemuxer(bytes.NewReader(buf.Bytes()))
	fr, err := d.ReadTrackFrame(2)
	if err != nil || string(fr.Data) != "only" {
		t.Fatalf("expected the track 2 frame, got %+v (%v)", fr, err)
	}
	if _, err = d.ReadTrackFrame(2); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
	fr, err = d.ReadFrame()
	if err != nil || fr.Track != 1 || fr.Timecode != 0 {
		t.Errorf("expected first frame of track 1, got %+v (%v)", fr, err)
	}
}

func TestNotMatroska(t *testing.T) {
	values := map[string][]byte{
		"doc type": ebmlHeader("avi").Marshal(),
		"garbage":  []byte("RIFF....AVI LIST"),
		"empty":    nil,
	}
	for name, data := range values {
		err := NewDemuxer(bytes.NewReader(data)).ReadHeader()
		if !errors.Is(err, ErrNotMatroska) {
			t.Errorf("%s: expected %v, got %v", name, ErrNotMatroska, err)
		}
	}
}

func TestWebM(t *testing.T) {
	cfg := DefaultMuxerConfig()
	cfg.DocType = "webm"
	var buf bytes.Buffer
	m := NewMuxer(&buf, cfg)
	m.AddTrack(NewTrack(1, TrackTypeVideo, "V_VP9"))
	m.Close()

	if !Probe(buf.Bytes()) {
		t.Errorf("probe failed on muxer output")
	}
	d := NewDemuxer(bytes.NewReader(buf.Bytes()))
	if err := d.ReadHeader(); err != nil {
		t.Fatal(err)
	}
	if d.DocType() != "webm" {
		t.Errorf("expected webm, got %s", d.DocType())
	}
	if _, err := d.ReadFrame(); err != io.EOF {
		t.Errorf("expected EOF on a file without frames, got %v", err)
	}
}
