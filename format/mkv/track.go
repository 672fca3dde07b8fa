package mkv

import (
	"encoding/binary"
	"fmt"

	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/google/uuid"
)

type TrackType uint8

const (
	TrackTypeVideo    TrackType = 0x01
	TrackTypeAudio    TrackType = 0x02
	TrackTypeComplex  TrackType = 0x03
	TrackTypeLogo     TrackType = 0x10
	TrackTypeSubtitle TrackType = 0x11
	TrackTypeButtons  TrackType = 0x12
	TrackTypeControl  TrackType = 0x20
)

func (t TrackType) String() string {
	switch t {
	case TrackTypeVideo:
		return "video"
	case TrackTypeAudio:
		return "audio"
	case TrackTypeComplex:
		return "complex"
	case TrackTypeLogo:
		return "logo"
	case TrackTypeSubtitle:
		return "subtitle"
	case TrackTypeButtons:
		return "buttons"
	case TrackTypeControl:
		return "control"
	}
	return fmt.Sprintf("TrackType(%d)", uint8(t))
}

type Video struct {
	PixelWidth    uint64
	PixelHeight   uint64
	DisplayWidth  uint64 // 0 means same as pixel size
	DisplayHeight uint64
}

type Audio struct {
	SamplingFrequency       float64
	OutputSamplingFrequency float64 // 0 means same as sampling frequency
	Channels                uint64
	BitDepth                uint64
}

// TrackOperation combines other tracks into this one.
type TrackOperation struct {
	JoinUIDs []uint64
	Planes   []TrackPlane
}

type TrackPlane struct {
	UID  uint64
	Type uint64 // 0 left eye, 1 right eye, 2 background
}

type Track struct {
	Number uint64
	UID    uint64 // generated when zero
	Type   TrackType

	Enabled  bool
	Default  bool
	Forced   bool
	Lacing   bool
	MinCache uint64

	MaxBlockAdditionID uint64
	DefaultDuration    uint64 // ns
	SeekPreRoll        uint64 // ns
	CodecDecodeAll     bool

	Name         string
	Language     string
	CodecID      string
	CodecName    string
	CodecPrivate []byte
	Overlays     []uint64

	Video     *Video
	Audio     *Audio
	Operation *TrackOperation
}

// NewTrack returns a track with the Matroska defaults set.
func NewTrack(number uint64, typ TrackType, codecID string) *Track {
	return &Track{
		Number:         number,
		Type:           typ,
		Enabled:        true,
		Default:        true,
		Lacing:         true,
		CodecDecodeAll: true,
		Language:       "eng",
		CodecID:        codecID,
	}
}

// newUID returns a random non-zero 64 bit UID.
func newUID() uint64 {
	for {
		u := uuid.New()
		if v := binary.BigEndian.Uint64(u[:8]); v != 0 {
			return v
		}
	}
}

func boolUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (t *Track) element() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementTrackEntry,
		mkvio.NewUint(mkvio.ElementTrackNumber, t.Number),
		mkvio.NewUint(mkvio.ElementTrackUID, t.UID),
		mkvio.NewUint(mkvio.ElementTrackType, uint64(t.Type)),
		mkvio.NewUint(mkvio.ElementFlagEnabled, boolUint(t.Enabled)),
		mkvio.NewUint(mkvio.ElementFlagDefault, boolUint(t.Default)),
		mkvio.NewUint(mkvio.ElementFlagForced, boolUint(t.Forced)),
		mkvio.NewUint(mkvio.ElementFlagLacing, boolUint(t.Lacing)),
		mkvio.NewUint(mkvio.ElementCodecDecodeAll, boolUint(t.CodecDecodeAll)),
	)
	if t.MinCache > 0 {
		el.AddChild(mkvio.NewUint(mkvio.ElementMinCache, t.MinCache))
	}
	if t.MaxBlockAdditionID > 0 {
		el.AddChild(mkvio.NewUint(mkvio.ElementMaxBlockAdditionID, t.MaxBlockAdditionID))
	}
	if t.DefaultDuration > 0 {
		el.AddChild(mkvio.NewUint(mkvio.ElementDefaultDuration, t.DefaultDuration))
	}
	if t.SeekPreRoll > 0 {
		el.AddChild(mkvio.NewUint(mkvio.ElementSeekPreRoll, t.SeekPreRoll))
	}
	if t.Name != "" {
		el.AddChild(mkvio.NewString(mkvio.ElementName, t.Name))
	}
	if t.Language != "" {
		el.AddChild(mkvio.NewString(mkvio.ElementLanguage, t.Language))
	}
	el.AddChild(mkvio.NewString(mkvio.ElementCodecID, t.CodecID))
	if t.CodecName != "" {
		el.AddChild(mkvio.NewString(mkvio.ElementCodecName, t.CodecName))
	}
	if len(t.CodecPrivate) > 0 {
		el.AddChild(mkvio.NewBinary(mkvio.ElementCodecPrivate, t.CodecPrivate))
	}
	for _, uid := range t.Overlays {
		el.AddChild(mkvio.NewUint(mkvio.ElementTrackOverlay, uid))
	}

	if v := t.Video; v != nil {
		ve := mkvio.NewMaster(mkvio.ElementVideo,
			mkvio.NewUint(mkvio.ElementPixelWidth, v.PixelWidth),
			mkvio.NewUint(mkvio.ElementPixelHeight, v.PixelHeight),
		)
		if v.DisplayWidth > 0 {
			ve.AddChild(mkvio.NewUint(mkvio.ElementDisplayWidth, v.DisplayWidth))
		}
		if v.DisplayHeight > 0 {
			ve.AddChild(mkvio.NewUint(mkvio.ElementDisplayHeight, v.DisplayHeight))
		}
		el.AddChild(ve)
	}

	if a := t.Audio; a != nil {
		ae := mkvio.NewMaster(mkvio.ElementAudio,
			mkvio.NewFloat(mkvio.ElementSamplingFrequency, a.SamplingFrequency),
			mkvio.NewUint(mkvio.ElementChannels, a.Channels),
		)
		if a.OutputSamplingFrequency > 0 {
			ae.AddChild(mkvio.NewFloat(mkvio.ElementOutputSamplingFrequency, a.OutputSamplingFrequency))
		}
		if a.BitDepth > 0 {
			ae.AddChild(mkvio.NewUint(mkvio.ElementBitDepth, a.BitDepth))
		}
		el.AddChild(ae)
	}

	if op := t.Operation; op != nil {
		oe := mkvio.NewMaster(mkvio.ElementTrackOperation)
		if len(op.Planes) > 0 {
			planes := mkvio.NewMaster(mkvio.ElementTrackCombinePlanes)
			for _, p := range op.Planes {
				planes.AddChild(mkvio.NewMaster(mkvio.ElementTrackPlane,
					mkvio.NewUint(mkvio.ElementTrackPlaneUID, p.UID),
					mkvio.NewUint(mkvio.ElementTrackPlaneType, p.Type),
				))
			}
			oe.AddChild(planes)
		}
		if len(op.JoinUIDs) > 0 {
			join := mkvio.NewMaster(mkvio.ElementTrackJoinBlocks)
			for _, uid := range op.JoinUIDs {
				join.AddChild(mkvio.NewUint(mkvio.ElementTrackJoinUID, uid))
			}
			oe.AddChild(join)
		}
		el.AddChild(oe)
	}

	return el
}

// parseTrack reads a loaded TrackEntry. Absent flags keep their
// Matroska defaults.
func parseTrack(el *mkvio.Element) (*Track, error) {
	t := NewTrack(0, 0, "")

	for _, c := range el.Children {
		var err error
		switch c.ID {
		case mkvio.ElementTrackNumber.ID:
			t.Number, err = c.Uint()
		case mkvio.ElementTrackUID.ID:
			t.UID, err = c.Uint()
		case mkvio.ElementTrackType.ID:
			var v uint64
			v, err = c.Uint()
			t.Type = TrackType(v)
		case mkvio.ElementFlagEnabled.ID:
			t.Enabled, err = uintBool(c)
		case mkvio.ElementFlagDefault.ID:
			t.Default, err = uintBool(c)
		case mkvio.ElementFlagForced.ID:
			t.Forced, err = uintBool(c)
		case mkvio.ElementFlagLacing.ID:
			t.Lacing, err = uintBool(c)
		case mkvio.ElementCodecDecodeAll.ID:
			t.CodecDecodeAll, err = uintBool(c)
		case mkvio.ElementMinCache.ID:
			t.MinCache, err = c.Uint()
		case mkvio.ElementMaxBlockAdditionID.ID:
			t.MaxBlockAdditionID, err = c.Uint()
		case mkvio.ElementDefaultDuration.ID:
			t.DefaultDuration, err = c.Uint()
		case mkvio.ElementSeekPreRoll.ID:
			t.SeekPreRoll, err = c.Uint()
		case mkvio.ElementName.ID:
			t.Name, err = c.Text()
		case mkvio.ElementLanguage.ID:
			t.Language, err = c.Text()
		case mkvio.ElementCodecID.ID:
			t.CodecID, err = c.Text()
		case mkvio.ElementCodecName.ID:
			t.CodecName, err = c.Text()
		case mkvio.ElementCodecPrivate.ID:
			t.CodecPrivate, err = c.Binary()
		case mkvio.ElementTrackOverlay.ID:
			var uid uint64
			uid, err = c.Uint()
			t.Overlays = append(t.Overlays, uid)
		case mkvio.ElementVideo.ID:
			t.Video, err = parseVideo(c)
		case mkvio.ElementAudio.ID:
			t.Audio, err = parseAudio(c)
		case mkvio.ElementTrackOperation.ID:
			t.Operation, err = parseOperation(c)
		}
		if err != nil {
			return nil, fmt.Errorf("mkv: track %s: %w", c.Name, err)
		}
	}

	if t.Number == 0 {
		return nil, fmt.Errorf("mkv: track entry without number: %w", mkvio.ErrParse)
	}
	return t, nil
}

func uintBool(el *mkvio.Element) (bool, error) {
	v, err := el.Uint()
	return v != 0, err
}

func parseVideo(el *mkvio.Element) (v *Video, err error) {
	v = &Video{}
	for _, c := range el.Children {
		switch c.ID {
		case mkvio.ElementPixelWidth.ID:
			v.PixelWidth, err = c.Uint()
		case mkvio.ElementPixelHeight.ID:
			v.PixelHeight, err = c.Uint()
		case mkvio.ElementDisplayWidth.ID:
			v.DisplayWidth, err = c.Uint()
		case mkvio.ElementDisplayHeight.ID:
			v.DisplayHeight, err = c.Uint()
		}
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

func parseAudio(el *mkvio.Element) (a *Audio, err error) {
	a = &Audio{SamplingFrequency: 8000, Channels: 1}
	for _, c := range el.Children {
		switch c.ID {
		case mkvio.ElementSamplingFrequency.ID:
			a.SamplingFrequency, err = c.Float()
		case mkvio.ElementOutputSamplingFrequency.ID:
			a.OutputSamplingFrequency, err = c.Float()
		case mkvio.ElementChannels.ID:
			a.Channels, err = c.Uint()
		case mkvio.ElementBitDepth.ID:
			a.BitDepth, err = c.Uint()
		}
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func parseOperation(el *mkvio.Element) (*TrackOperation, error) {
	op := &TrackOperation{}
	for _, c := range el.Children {
		switch c.ID {
		case mkvio.ElementTrackCombinePlanes.ID:
			for _, pe := range c.Children {
				var p TrackPlane
				for _, f := range pe.Children {
					var err error
					switch f.ID {
					case mkvio.ElementTrackPlaneUID.ID:
						p.UID, err = f.Uint()
					case mkvio.ElementTrackPlaneType.ID:
						p.Type, err = f.Uint()
					}
					if err != nil {
						return nil, err
					}
				}
				op.Planes = append(op.Planes, p)
			}
		case mkvio.ElementTrackJoinBlocks.ID:
			for _, j := range c.Children {
				uid, err := j.Uint()
				if err != nil {
					return nil, err
				}
				op.JoinUIDs = append(op.JoinUIDs, uid)
			}
		}
	}
	return op, nil
}
