package mkv

import (
	"fmt"

	"github.com/deepch/mkv/format/mkv/mkvio"
)

// Tag attaches simple tags to the targets it lists. A tag without
// targets applies to the whole segment.
type Tag struct {
	TargetTypeValue uint64 // 50 (album, movie, episode) when zero
	TargetType      string

	TrackUIDs      []uint64
	ChapterUIDs    []uint64
	AttachmentUIDs []uint64

	SimpleTags []*SimpleTag
}

type SimpleTag struct {
	Name     string
	Language string
	Value    string
	Binary   []byte
	Children []*SimpleTag
}

// AddSimpleTag appends a name/value pair and returns it so that nested
// tags can be added to it.
func (t *Tag) AddSimpleTag(name, value string) *SimpleTag {
	st := &SimpleTag{Name: name, Value: value}
	t.SimpleTags = append(t.SimpleTags, st)
	return st
}

func (st *SimpleTag) AddChild(name, value string) *SimpleTag {
	c := &SimpleTag{Name: name, Value: value}
	st.Children = append(st.Children, c)
	return c
}

func (t *Tag) element() *mkvio.Element {
	targets := mkvio.NewMaster(mkvio.ElementTargets)
	if t.TargetTypeValue > 0 {
		targets.AddChild(mkvio.NewUint(mkvio.ElementTargetTypeValue, t.TargetTypeValue))
	}
	if t.TargetType != "" {
		targets.AddChild(mkvio.NewString(mkvio.ElementTargetType, t.TargetType))
	}
	for _, uid := range t.TrackUIDs {
		targets.AddChild(mkvio.NewUint(mkvio.ElementTagTrackUID, uid))
	}
	for _, uid := range t.ChapterUIDs {
		targets.AddChild(mkvio.NewUint(mkvio.ElementTagChapterUID, uid))
	}
	for _, uid := range t.AttachmentUIDs {
		targets.AddChild(mkvio.NewUint(mkvio.ElementTagAttachmentUID, uid))
	}

	el := mkvio.NewMaster(mkvio.ElementTag, targets)
	for _, st := range t.SimpleTags {
		el.AddChild(st.element())
	}
	return el
}

func (st *SimpleTag) element() *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementSimpleTag, mkvio.NewString(mkvio.ElementTagName, st.Name))
	if st.Language != "" {
		el.AddChild(mkvio.NewString(mkvio.ElementTagLanguage, st.Language))
	}
	if st.Binary != nil {
		el.AddChild(mkvio.NewBinary(mkvio.ElementTagBinary, st.Binary))
	} else {
		el.AddChild(mkvio.NewString(mkvio.ElementTagString, st.Value))
	}
	for _, c := range st.Children {
		el.AddChild(c.element())
	}
	return el
}

func tagsElement(tags []*Tag) *mkvio.Element {
	el := mkvio.NewMaster(mkvio.ElementTags)
	for _, t := range tags {
		el.AddChild(t.element())
	}
	return el
}

func parseTags(el *mkvio.Element) ([]*Tag, error) {
	var tags []*Tag
	for _, c := range el.Children {
		if c.ID != mkvio.ElementTag.ID {
			continue
		}
		t, err := parseTag(c)
		if err != nil {
			return nil, fmt.Errorf("mkv: tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func parseTag(el *mkvio.Element) (*Tag, error) {
	t := &Tag{}
	for _, c := range el.Children {
		switch c.ID {
		case mkvio.ElementTargets.ID:
			for _, tc := range c.Children {
				var err error
				var uid uint64
				switch tc.ID {
				case mkvio.ElementTargetTypeValue.ID:
					t.TargetTypeValue, err = tc.Uint()
				case mkvio.ElementTargetType.ID:
					t.TargetType, err = tc.Text()
				case mkvio.ElementTagTrackUID.ID:
					uid, err = tc.Uint()
					t.TrackUIDs = append(t.TrackUIDs, uid)
				case mkvio.ElementTagChapterUID.ID:
					uid, err = tc.Uint()
					t.ChapterUIDs = append(t.ChapterUIDs, uid)
				case mkvio.ElementTagAttachmentUID.ID:
					uid, err = tc.Uint()
					t.AttachmentUIDs = append(t.AttachmentUIDs, uid)
				}
				if err != nil {
					return nil, err
				}
			}
		case mkvio.ElementSimpleTag.ID:
			st, err := parseSimpleTag(c)
			if err != nil {
				return nil, err
			}
			t.SimpleTags = append(t.SimpleTags, st)
		}
	}
	return t, nil
}

func parseSimpleTag(el *mkvio.Element) (*SimpleTag, error) {
	st := &SimpleTag{}
	for _, c := range el.Children {
		var err error
		switch c.ID {
		case mkvio.ElementTagName.ID:
			st.Name, err = c.Text()
		case mkvio.ElementTagLanguage.ID:
			st.Language, err = c.Text()
		case mkvio.ElementTagString.ID:
			st.Value, err = c.Text()
		case mkvio.ElementTagBinary.ID:
			st.Binary, err = c.Binary()
		case mkvio.ElementSimpleTag.ID:
			var child *SimpleTag
			child, err = parseSimpleTag(c)
			st.Children = append(st.Children, child)
		}
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}
