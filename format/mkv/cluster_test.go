package mkv

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

func TestClusterSizeBoundary(t *testing.T) {
	c := NewCluster(100, DefaultClusterDuration, LaceNone)
	want := []bool{true, true, false}
	for i, w := range want {
		got := c.Add(&Frame{Track: 1, Timecode: int64(i), Data: make([]byte, 40)})
		if got != w {
			t.Errorf("frame %d: expected %v, got %v", i, w, got)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 frames, got %d", c.Len())
	}
}

func TestClusterDurationBoundary(t *testing.T) {
	c := NewCluster(DefaultClusterSize, 1000, LaceNone)
	values := []struct {
		Timecode int64
		More     bool
	}{
		{500, true},
		{100, true},
		{1099, true},
		{1100, false},
	}
	for _, ex := range values {
		got := c.Add(&Frame{Track: 1, Timecode: ex.Timecode, Data: []byte{1}})
		if got != ex.More {
			t.Errorf("%d: expected %v, got %v", ex.Timecode, ex.More, got)
		}
	}
	if c.Timecode() != 100 {
		t.Errorf("expected cluster timecode 100, got %d", c.Timecode())
	}
}

func TestClusterDurationClamp(t *testing.T) {
	c := NewCluster(DefaultClusterSize, 100000, LaceNone)
	if c.DurationLimit != math.MaxInt16 {
		t.Errorf("expected limit %d, got %d", math.MaxInt16, c.DurationLimit)
	}
	c.Add(&Frame{Track: 1, Timecode: 0})
	if c.Fits(&Frame{Track: 1, Timecode: 40000}) {
		t.Errorf("frame beyond int16 reported as fitting")
	}
	if !c.Fits(&Frame{Track: 1, Timecode: 32767}) {
		t.Errorf("frame at int16 limit reported as not fitting")
	}
}

// readCluster parses a serialized cluster back into its children.
func readCluster(t *testing.T, data []byte) *mkvio.Element {
	t.Helper()
	doc := mkvio.InitDocument(bytes.NewReader(data))
	el, err := doc.Next(nil)
	if err != nil {
		t.Fatal(err)
	}
	if el.ID != mkvio.ElementCluster.ID {
		t.Fatalf("expected Cluster, got %s", el.Name)
	}
	if err = doc.Load(el); err != nil {
		t.Fatal(err)
	}
	if _, err = doc.Next(nil); err != io.EOF {
		t.Fatalf("expected a single element, got %v", err)
	}
	return el
}

func TestClusterFlushGrouping(t *testing.T) {
	c := NewCluster(DefaultClusterSize, DefaultClusterDuration, LaceEBML)
	c.Silence(7)
	frames := []*Frame{
		{Track: 1, Timecode: 1000, Keyframe: true, Data: []byte("a")},
		{Track: 1, Timecode: 1000, Keyframe: true, Data: []byte("bb")},
		{Track: 1, Timecode: 1000, Keyframe: true, Data: []byte("ccc")},
		{Track: 2, Timecode: 1000, Keyframe: true, Data: []byte("dddd")},
		{Track: 2, Timecode: 1020, Duration: 20, Data: []byte("eeeee")},
		{Track: 1, Timecode: 1040, References: []int64{-40}, Data: []byte("ffffff")},
		{Track: 1, Timecode: 1040, Data: make([]byte, MaxLaceSize+1)},
		{Track: 1, Timecode: 1040, Data: []byte("g")},
	}
	for _, f := range frames {
		c.Add(f)
	}

	var buf bytes.Buffer
	n, err := c.Flush(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}
	if c.Len() != 0 || c.Timecode() != math.MaxInt64 {
		t.Errorf("cluster not reset: %d frames, timecode %d", c.Len(), c.Timecode())
	}

	cl := readCluster(t, buf.Bytes())
	var names []string
	for _, child := range cl.Children {
		names = append(names, child.Name)
	}
	want := []string{"Timecode", "SilentTracks", "SimpleBlock", "SimpleBlock", "BlockGroup", "BlockGroup", "SimpleBlock", "SimpleBlock"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("child %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	if tc, _ := cl.Children[0].Uint(); tc != 1000 {
		t.Errorf("expected timecode 1000, got %d", tc)
	}
	if n, _ := cl.Children[1].Children[0].Uint(); n != 7 {
		t.Errorf("expected silent track 7, got %d", n)
	}

	laced, err := ParseBlock(cl.Children[2].Content)
	if err != nil {
		t.Fatal(err)
	}
	if len(laced.Frames) != 3 || laced.Lacing != LaceEBML || !laced.Keyframe {
		t.Errorf("expected 3 ebml laced keyframes, got %d %s %v", len(laced.Frames), laced.Lacing, laced.Keyframe)
	}

	group := cl.Children[4]
	if d, _ := group.Child(mkvio.ElementBlockDuration.ID).Uint(); d != 20 {
		t.Errorf("expected duration 20, got %d", d)
	}
	ref := cl.Children[5].Child(mkvio.ElementReferenceBlock.ID)
	if v, _ := ref.Int(); v != -40 {
		t.Errorf("expected reference -40, got %d", v)
	}
}

func TestClusterFixedLacing(t *testing.T) {
	c := NewCluster(DefaultClusterSize, DefaultClusterDuration, LaceFixed)
	for _, d := range []string{"aa", "bb", "ccc"} {
		c.Add(&Frame{Track: 1, Timecode: 0, Data: []byte(d)})
	}
	var buf bytes.Buffer
	if _, err := c.Flush(&buf); err != nil {
		t.Fatal(err)
	}
	cl := readCluster(t, buf.Bytes())
	// two equal frames laced, the third alone
	if len(cl.Children) != 3 {
		t.Fatalf("expected timecode and 2 blocks, got %d children", len(cl.Children))
	}
	b, _ := ParseBlock(cl.Children[1].Content)
	if len(b.Frames) != 2 {
		t.Errorf("expected 2 laced frames, got %d", len(b.Frames))
	}
}

func TestClusterEmptyFlush(t *testing.T) {
	c := NewCluster(DefaultClusterSize, DefaultClusterDuration, LaceEBML)
	var buf bytes.Buffer
	n, err := c.Flush(&buf)
	if n != 0 || err != nil || buf.Len() != 0 {
		t.Errorf("expected no output, got %d bytes (%v)", n, err)
	}
}

func TestPlaceholderFill(t *testing.T) {
	for size := int64(7); size < 40; size++ {
		p := placeholder{size: size}
		el := mkvio.NewUint(mkvio.ElementTimecodeScale, 1000000)
		b, err := p.fill(el)
		if err != nil {
			t.Fatalf("%d: %v", size, err)
		}
		if int64(len(b)) != size {
			t.Errorf("%d: expected %d bytes, got %d", size, size, len(b))
		}
	}

	p := placeholder{size: 5}
	if _, err := p.fill(mkvio.NewUint(mkvio.ElementTimecodeScale, 1000000)); !errors.Is(err, ErrIndexBudgetExceeded) {
		t.Errorf("expected %v, got %v", ErrIndexBudgetExceeded, err)
	}
}

func TestCueFind(t *testing.T) {
	var ci CueIndex
	ci.Add(100, 0, []uint64{1})
	ci.Add(900, 5000, []uint64{1, 2})
	ci.Add(2000, 10000, []uint64{2})

	values := []struct {
		Timecode int64
		Position int64
	}{
		{-5, 100},
		{0, 100},
		{4999, 100},
		{5000, 900},
		{20000, 2000},
	}
	for _, ex := range values {
		cp, ok := ci.Find(ex.Timecode)
		if !ok || cp.Position != ex.Position {
			t.Errorf("%d: expected position %d, got %d", ex.Timecode, ex.Position, cp.Position)
		}
	}

	var parsed CueIndex
	if err := parsed.parse(reload(t, ci.element())); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Points) != 3 || len(parsed.Points[1].Tracks) != 2 || parsed.Points[2].Position != 2000 {
		t.Errorf("cues did not survive a round trip: %+v", parsed.Points)
	}
}

// reload serializes el and reads it back with all children loaded.
func reload(t *testing.T, el *mkvio.Element) *mkvio.Element {
	t.Helper()
	doc := mkvio.InitDocument(bytes.NewReader(el.Marshal()))
	out, err := doc.Next(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = doc.Load(out); err != nil {
		t.Fatal(err)
	}
	return out
}
