package mkv

import (
	"fmt"
	"time"

	"github.com/deepch/mkv/format/mkv/mkvio"
	"github.com/google/uuid"
)

const DefaultTimecodeScale = 1000000

// doc types a Demuxer accepts
var docTypes = map[string]bool{"matroska": true, "webm": true}

// Info holds the segment information.
type Info struct {
	SegmentUID    []byte
	TimecodeScale uint64  // ns per tick
	Duration      float64 // ticks, 0 when unknown
	DateUTC       time.Time
	Title         string
	MuxingApp     string
	WritingApp    string
}

func newInfo() Info {
	u := uuid.New()
	return Info{
		SegmentUID:    u[:],
		TimecodeScale: DefaultTimecodeScale,
		DateUTC:       time.Now().UTC(),
	}
}

func (info *Info) element() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementInfo)
	if len(info.SegmentUID) > 0 {
		el.AddChild(mkvio.NewBinary(mkvio.ElementSegmentUID, info.SegmentUID))
	}
	el.AddChild(mkvio.NewUint(mkvio.ElementTimecodeScale, info.TimecodeScale))
	if info.Duration > 0 {
		el.AddChild(mkvio.NewFloat(mkvio.ElementDuration, info.Duration))
	}
	if !info.DateUTC.IsZero() {
		el.AddChild(mkvio.NewDate(mkvio.ElementDateUTC, info.DateUTC))
	}
	if info.Title != "" {
		el.AddChild(mkvio.NewString(mkvio.ElementTitle, info.Title))
	}
	el.AddChild(
		mkvio.NewString(mkvio.ElementMuxingApp, info.MuxingApp),
		mkvio.NewString(mkvio.ElementWritingApp, info.WritingApp),
	)
	return el
}

func parseInfo(el *mkvio.Element) (Info, error) {
	info := Info{TimecodeScale: DefaultTimecodeScale}
	for _, c := range el.Children {
		var err error
		switch c.ID {
		case mkvio.ElementSegmentUID.ID:
			info.SegmentUID, err = c.Binary()
		case mkvio.ElementTimecodeScale.ID:
			info.TimecodeScale, err = c.Uint()
		case mkvio.ElementDuration.ID:
			info.Duration, err = c.Float()
		case mkvio.ElementDateUTC.ID:
			info.DateUTC, err = c.Date()
		case mkvio.ElementTitle.ID:
			info.Title, err = c.Text()
		case mkvio.ElementMuxingApp.ID:
			info.MuxingApp, err = c.Text()
		case mkvio.ElementWritingApp.ID:
			info.WritingApp, err = c.Text()
		}
		if err != nil {
			return info, fmt.Errorf("mkv: info %s: %w", c.Name, err)
		}
	}
	if info.TimecodeScale == 0 {
		info.TimecodeScale = DefaultTimecodeScale
	}
	return info, nil
}

func ebmlHeader(docType string) *mkvio.Element {
	return mkvio.NewMaster(mkvio.ElementEBML,
		mkvio.NewUint(mkvio.ElementEBMLVersion, 1),
		mkvio.NewUint(mkvio.ElementEBMLReadVersion, 1),
		mkvio.NewUint(mkvio.ElementEBMLMaxIDLength, 4),
		mkvio.NewUint(mkvio.ElementEBMLMaxSizeLength, 8),
		mkvio.NewString(mkvio.ElementDocType, docType),
		mkvio.NewUint(mkvio.ElementDocTypeVersion, 4),
		mkvio.NewUint(mkvio.ElementDocTypeReadVersion, 2),
	)
}
