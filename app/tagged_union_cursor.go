package app

import (
	"encoding/json"

	"github.com/billix/billix-be/util"
)

const (
	PostCursorTypeMostRecent        PostCursorType = "MOST_RECENT"
	PostCursorTypeSubbedMostRecent  PostCursorType = "SUBBED_MOST_RECENT"
	PostCursorTypeMostPopular       PostCursorType = "MOST_POPULAR"
	PostCursorTypeSubbedMostPopular PostCursorType = "SUBBED_MOST_POPULAR"
)

var UnknownCursorTypeErr = util.Invalidf("unknown cursor type")

// TaggedUnionCursor is the wire form of a feed position:
// {"cursorType": "...", "cursor": {...}}
type TaggedUnionCursor struct {
	PostCursor
	CursorType PostCursorType
}

func NewCursor(cursorType PostCursorType) (*TaggedUnionCursor, error) {
	var cursor PostCursor
	switch cursorType {
	case PostCursorTypeMostRecent:
		cursor = &MostRecentCursor{}
	case PostCursorTypeSubbedMostRecent:
		cursor = &SubbedMostRecentCursor{}
	case PostCursorTypeMostPopular:
		cursor = &MostPopularCursor{}
	case PostCursorTypeSubbedMostPopular:
		cursor = &SubbedMostPopularCursor{}
	default:
		return nil, UnknownCursorTypeErr
	}
	return &TaggedUnionCursor{PostCursor: cursor, CursorType: cursorType}, nil
}

func (tuc *TaggedUnionCursor) UnmarshalJSON(data []byte) error {
	if tuc == nil {
		return nil
	}
	var rawJsonWithType struct {
		CursorType PostCursorType   `json:"cursorType"`
		Raw        *json.RawMessage `json:"cursor"`
	}
	if err := json.Unmarshal(data, &rawJsonWithType); err != nil {
		return err
	}

	cursor, err := NewCursor(rawJsonWithType.CursorType)
	if err != nil {
		return err
	}

	if rawJsonWithType.Raw != nil {
		if err := json.Unmarshal(*rawJsonWithType.Raw, cursor.PostCursor); err != nil {
			return err
		}
	}

	*tuc = *cursor
	return nil
}

func (tuc TaggedUnionCursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CursorType PostCursorType `json:"cursorType"`
		Cursor     PostCursor     `json:"cursor"`
	}{
		CursorType: tuc.CursorType,
		Cursor:     tuc.PostCursor,
	})
}
